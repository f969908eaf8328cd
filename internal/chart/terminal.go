package chart

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Terminal draws charts as styled text.
type Terminal struct {
	mu   sync.Mutex
	live int
}

// NewTerminal returns a ready library.
func NewTerminal() *Terminal {
	return &Terminal{}
}

// Load is a Loader for a fresh Terminal library.
func Load(ctx context.Context) (Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewTerminal(), nil
}

// Live returns how many charts created by t have not been destroyed.
func (t *Terminal) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}

// New draws cfg on surface and returns the live instance.
func (t *Terminal) New(surface *Surface, cfg Config) (Chart, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	width, height := surface.size()
	switch cfg.Type {
	case KindDoughnut:
		surface.draw(renderDoughnut(cfg, width, height))
	case KindBar:
		surface.draw(renderBar(cfg, width, height))
	}

	t.mu.Lock()
	t.live++
	t.mu.Unlock()
	return &instance{lib: t, surface: surface}, nil
}

type instance struct {
	lib     *Terminal
	surface *Surface
	once    sync.Once
}

func (c *instance) Destroy() {
	c.once.Do(func() {
		c.surface.draw("")
		c.lib.mu.Lock()
		c.lib.live--
		c.lib.mu.Unlock()
	})
}

func colour(ds Dataset, i int) string {
	if len(ds.BackgroundColor) == 0 {
		return Palette[i%len(Palette)]
	}
	return ds.BackgroundColor[i%len(ds.BackgroundColor)]
}

func paint(hex, s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(s)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// renderDoughnut lays out one row per label: a share bar and its
// percentage, with an optional legend line below.
func renderDoughnut(cfg Config, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(cfg.Data.Datasets) == 0 || len(cfg.Data.Labels) == 0 {
		return "(no data)"
	}
	ds := cfg.Data.Datasets[0]

	total := 0.0
	for _, v := range ds.Data {
		total += v
	}
	if total <= 0 {
		total = 1
	}

	labelWidth := 0
	for _, l := range cfg.Data.Labels {
		labelWidth = max(labelWidth, len([]rune(l)))
	}
	labelWidth = min(labelWidth, max(4, width/3))
	barWidth := max(1, width-labelWidth-8)

	rows := height
	legend := cfg.Options.LegendPosition == "bottom"
	if legend {
		rows--
	}

	var lines []string
	for i, label := range cfg.Data.Labels {
		if len(lines) >= rows {
			break
		}
		share := ds.Data[i] / total
		n := int(math.Round(share * float64(barWidth)))
		if ds.Data[i] > 0 && n == 0 {
			n = 1
		}
		bar := paint(colour(ds, i), strings.Repeat("█", n)) + strings.Repeat("░", barWidth-n)
		lines = append(lines, fmt.Sprintf("%-*s %s %3.0f%%", labelWidth, truncate(label, labelWidth), bar, share*100))
	}

	if legend {
		parts := make([]string, 0, len(cfg.Data.Labels))
		for i, label := range cfg.Data.Labels {
			parts = append(parts, paint(colour(ds, i), "●")+" "+label)
		}
		lines = append(lines, strings.Join(parts, "  "))
	}
	return strings.Join(lines, "\n")
}

func formatTick(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// renderBar draws vertical bars over a value axis. The axis step is a
// whole number when TickPrecision is 0.
func renderBar(cfg Config, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(cfg.Data.Datasets) == 0 || len(cfg.Data.Labels) == 0 {
		return "(no data)"
	}
	ds := cfg.Data.Datasets[0]

	maxV, minV := math.Inf(-1), math.Inf(1)
	for _, v := range ds.Data {
		maxV = math.Max(maxV, v)
		minV = math.Min(minV, v)
	}
	base := math.Min(0, minV)
	if !cfg.Options.BeginAtZero && minV > 0 {
		base = math.Floor(minV) - 1
	}

	// title line, plot rows, axis line, label line
	rows := max(1, height-2)
	if ds.Label != "" {
		rows = max(1, rows-1)
	}

	span := maxV - base
	if span <= 0 {
		span = 1
	}
	step := span / float64(rows)
	if cfg.Options.TickPrecision == 0 {
		step = math.Max(1, math.Ceil(step))
		rows = int(math.Ceil(span / step))
	}

	tickWidth := len(formatTick(base+float64(rows)*step, cfg.Options.TickPrecision))
	col := max(2, (width-tickWidth-2)/len(cfg.Data.Labels))

	heights := make([]int, len(ds.Data))
	for i, v := range ds.Data {
		heights[i] = int(math.Round((v - base) / step))
	}

	var lines []string
	if ds.Label != "" {
		lines = append(lines, ds.Label)
	}
	for r := rows; r >= 1; r-- {
		var b strings.Builder
		fmt.Fprintf(&b, "%*s │", tickWidth, formatTick(base+float64(r)*step, cfg.Options.TickPrecision))
		for i := range heights {
			cell := strings.Repeat(" ", col)
			if heights[i] >= r {
				cell = paint(colour(ds, i), strings.Repeat("█", col-1)) + " "
			}
			b.WriteString(cell)
		}
		lines = append(lines, b.String())
	}

	lines = append(lines, fmt.Sprintf("%*s └%s", tickWidth, formatTick(base, cfg.Options.TickPrecision), strings.Repeat("─", col*len(heights))))

	var labels strings.Builder
	labels.WriteString(strings.Repeat(" ", tickWidth+2))
	for _, l := range cfg.Data.Labels {
		fmt.Fprintf(&labels, "%-*s", col, truncate(l, col-1))
	}
	lines = append(lines, labels.String())

	return strings.Join(lines, "\n")
}
