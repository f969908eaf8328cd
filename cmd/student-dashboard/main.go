// student-dashboard is the terminal client of the students server. It
// shows the admissions dashboard and the student form, reading either from
// a running server or straight from the SQLite file.
//
//	student-dashboard --config=config/local.yaml            interactive UI
//	student-dashboard summary --config=config/local.yaml    print once and exit
//	student-dashboard --local ...                           skip the server
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/students-dashboard/internal/client"
	"github.com/aanand-mishra/students-dashboard/internal/config"
	"github.com/aanand-mishra/students-dashboard/internal/form"
	"github.com/aanand-mishra/students-dashboard/internal/storage"
	"github.com/aanand-mishra/students-dashboard/internal/storage/sqlite"
	"github.com/aanand-mishra/students-dashboard/internal/tui"
	"github.com/aanand-mishra/students-dashboard/internal/utils/logging"
)

var (
	configPath string
	serverURL  string
	local      bool
)

var rootCmd = &cobra.Command{
	Use:   "student-dashboard",
	Short: "Admissions dashboard for the students server",
	Long: `student-dashboard shows headline counts, the gender and age breakdowns
and the latest admissions of the students server, and opens any recent
admission in the student form.

Without --local it talks to the server at dashboard.server_url (or
--server); with --local it opens storage_path directly.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logFile, err := os.OpenFile(cfg.Dashboard.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()
		slog.SetDefault(logging.New(cfg.Env, logFile))

		b, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		return tui.Run(cmd.Context(), tui.Deps{
			Loader:        b.loader(cfg),
			Charts:        chartLoader,
			Records:       b.records,
			Actions:       b.actions,
			Notifications: newNotifications(cfg),
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to the configuration YAML file (or CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "students server URL, overrides dashboard.server_url")
	rootCmd.PersistentFlags().BoolVar(&local, "local", false, "read the SQLite database directly instead of the server")

	rootCmd.AddCommand(summaryCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return nil, errors.New("config path is not set: use --config flag or CONFIG_PATH env var")
	}
	return config.Load(configPath)
}

// backend is where the dashboard and the form read from.
type backend struct {
	querier storage.Querier
	records tui.Records
	actions form.Executor
	closer  io.Closer
}

func (b *backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

func openBackend(cfg *config.Config) (*backend, error) {
	if local {
		store, err := sqlite.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("open local storage: %w", err)
		}
		slog.Info("using local storage", slog.String("path", cfg.StoragePath))
		return &backend{querier: store, records: store, actions: form.ServerActions{}, closer: store}, nil
	}

	url := serverURL
	if url == "" {
		url = cfg.Dashboard.ServerURL
	}
	if url == "" {
		return nil, errors.New("no server url: set dashboard.server_url, pass --server, or use --local")
	}
	c, err := client.New(url)
	if err != nil {
		return nil, err
	}
	slog.Info("using students server", slog.String("url", url))
	return &backend{querier: c, records: c, actions: c}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
