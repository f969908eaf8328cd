package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/aanand-mishra/students-dashboard/internal/chart"
	"github.com/aanand-mishra/students-dashboard/internal/config"
	"github.com/aanand-mishra/students-dashboard/internal/dashboard"
	"github.com/aanand-mishra/students-dashboard/internal/notify"
	"github.com/aanand-mishra/students-dashboard/internal/utils/logging"
)

var (
	summaryJSON  bool
	summaryWidth int
)

var chartLoader chart.Loader = chart.Load

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		slog.SetDefault(logging.New(cfg.Env, cmd.ErrOrStderr()))

		b, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		st := dashboard.NewState()
		b.loader(cfg).Load(cmd.Context(), &st)
		st.Loading = false

		if summaryJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dashboard.NewSnapshot(st))
		}

		lib, err := chartLoader(cmd.Context())
		if err != nil {
			return err
		}
		return printSummary(cmd.OutOrStdout(), lib, st, summaryWidth)
	},
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "print the snapshot as JSON")
	summaryCmd.Flags().IntVar(&summaryWidth, "width", 48, "chart width in columns")
}

func (b *backend) loader(cfg *config.Config) *dashboard.Loader {
	return dashboard.NewLoader(b.querier, cfg.Dashboard.RecentLimit)
}

func newNotifications(cfg *config.Config) *notify.Center {
	return notify.NewCenter(cfg.Dashboard.NotificationTTL)
}

var heading = lipgloss.NewStyle().Bold(true)

func printSummary(w io.Writer, lib chart.Library, st dashboard.State, width int) error {
	fmt.Fprintf(w, "%s %d\n", heading.Render("Total Students:"), st.TotalStudents)
	fmt.Fprintf(w, "%s %d\n\n", heading.Render("New Admissions Today:"), st.NewAdmissionsToday)

	draw := func(title string, points int, cfg chart.Config) error {
		fmt.Fprintln(w, heading.Render(title))
		if points == 0 {
			fmt.Fprintln(w, "No data")
			fmt.Fprintln(w)
			return nil
		}
		surface := chart.NewSurface(title, width, 10)
		ch, err := lib.New(surface, cfg)
		if err != nil {
			return fmt.Errorf("draw %s: %w", title, err)
		}
		fmt.Fprintln(w, surface.Content())
		fmt.Fprintln(w)
		ch.Destroy()
		return nil
	}

	if err := draw("Gender Distribution", len(st.GenderData), dashboard.GenderChart(st)); err != nil {
		return err
	}
	if err := draw("Age Distribution", len(st.AgeData), dashboard.AgeChart(st)); err != nil {
		return err
	}

	fmt.Fprintln(w, heading.Render("Recent Admissions"))
	if len(st.RecentAdmissions) == 0 {
		fmt.Fprintln(w, "No admissions yet")
	}
	for _, rec := range st.RecentAdmissions {
		fmt.Fprintf(w, "  %-24s %-12s %s\n",
			dashboard.FieldText(rec, "name"),
			dashboard.FieldText(rec, "admission_date"),
			dashboard.FormatLabel(rec["gender"]))
	}
	return nil
}
