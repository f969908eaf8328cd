// Package chart is the charting library the dashboard draws with.
//
// The API mirrors a canvas charting library: a chart is created on a
// Surface from a Config (type, data, options), draws itself immediately,
// and must be destroyed before the surface is reused. The Terminal library
// renders with lipgloss so the dashboard can run inside a terminal UI.
package chart

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Kind selects the chart type.
type Kind string

const (
	// KindDoughnut is a proportion chart: labels → share of the total.
	KindDoughnut Kind = "doughnut"
	// KindBar is a magnitude chart: one bar per label.
	KindBar Kind = "bar"
)

// Palette is the default dataset colour cycle.
var Palette = []string{"#4e73df", "#1cc88a", "#36b9cc", "#f6c23e", "#e74a3b"}

var (
	// ErrNoSurface is returned when a chart is created without a surface.
	ErrNoSurface = errors.New("chart: no drawing surface")
	// ErrUnknownKind is returned for a Kind the library cannot draw.
	ErrUnknownKind = errors.New("chart: unknown chart type")
	// ErrBadData is returned when labels and values do not line up.
	ErrBadData = errors.New("chart: labels and data length differ")
)

// Dataset is one series of values.
type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor,omitempty"`
}

// Data holds the labels and the datasets drawn against them.
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Options tunes the drawing.
type Options struct {
	// LegendPosition is "bottom" or "" (no legend).
	LegendPosition string `json:"legendPosition,omitempty"`
	// BeginAtZero forces the value axis to start at zero.
	BeginAtZero bool `json:"beginAtZero,omitempty"`
	// TickPrecision is the number of decimals on value-axis ticks; 0 gives
	// integer ticks.
	TickPrecision int `json:"tickPrecision"`
}

// Config describes a chart.
type Config struct {
	Type    Kind    `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

func (c Config) validate() error {
	switch c.Type {
	case KindDoughnut, KindBar:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, c.Type)
	}
	for _, ds := range c.Data.Datasets {
		if len(ds.Data) != len(c.Data.Labels) {
			return fmt.Errorf("%w: %d labels, %d values in %q", ErrBadData, len(c.Data.Labels), len(ds.Data), ds.Label)
		}
	}
	return nil
}

// Chart is a live chart instance.
type Chart interface {
	// Destroy releases the instance and clears its surface. Calling it
	// more than once is harmless.
	Destroy()
}

// Library creates charts.
type Library interface {
	New(surface *Surface, cfg Config) (Chart, error)
}

// Loader fetches a Library on demand.
type Loader func(ctx context.Context) (Library, error)

// Surface is a fixed-size area a chart draws into.
type Surface struct {
	Name   string
	Width  int
	Height int

	mu      sync.Mutex
	content string
}

// NewSurface returns an empty surface of the given size.
func NewSurface(name string, width, height int) *Surface {
	return &Surface{Name: name, Width: width, Height: height}
}

// Content returns what is currently drawn on the surface.
func (s *Surface) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Resize changes the surface size. Existing content is kept until the
// next draw.
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	s.Width, s.Height = width, height
	s.mu.Unlock()
}

func (s *Surface) size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Width, s.Height
}

func (s *Surface) draw(content string) {
	s.mu.Lock()
	s.content = content
	s.mu.Unlock()
}
