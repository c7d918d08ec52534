package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/scrollock-dev/scrollock"
	"github.com/scrollock-dev/scrollock/internal/config"
	scrollerrors "github.com/scrollock-dev/scrollock/internal/errors"
	"github.com/scrollock-dev/scrollock/pkg/middleware"
)

func serveCmd() *cobra.Command {
	var (
		address    string
		configPath string
		devMode    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scrollock server",
		Long: `Start the scrollock server.

Configuration is read from scrollock.yaml in the working directory
(or the nearest parent containing one). Flags override file values.

Examples:
  scrollock serve
  scrollock serve --address=:9090
  scrollock serve --config=/etc/scrollock/scrollock.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(address, configPath, devMode)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (default from scrollock.yaml)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to scrollock.yaml")
	cmd.Flags().BoolVar(&devMode, "dev", false, "Allow any origin (development only)")

	return cmd
}

func runServe(address, configPath string, devMode bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if address != "" {
		cfg.Address = address
	}
	if devMode {
		cfg.DevMode = true
	}

	logger := buildLogger(cfg.Log)
	slog.SetDefault(logger)

	app := scrollock.New(scrollock.Config{
		Address: cfg.Address,
		Session: scrollock.SessionConfig{
			ResumeWindow: cfg.ResumeWindow(),
			IdleTimeout:  cfg.IdleTimeout(),
		},
		MaxSessions: cfg.Session.MaxSessions,
		DevMode:     cfg.DevMode,
		Logger:      logger,
	})

	if cfg.Tracing.Enabled {
		app.Use(middleware.OpenTelemetry(
			middleware.WithTracerName(tracerName(cfg)),
		))
	}
	if cfg.Metrics.Enabled {
		app.Use(middleware.Prometheus(
			middleware.WithNamespace(cfg.Metrics.Namespace),
		))
	}

	printBanner()
	fmt.Println()
	info("Listening on %s", cfg.Address)
	if cfg.DevMode {
		warn("Dev mode: accepting connections from any origin")
	}
	fmt.Println()

	if err := app.Run(cfg.Address); err != nil {
		return scrollerrors.FromError(err, "E200")
	}
	return nil
}

// loadConfig resolves configuration from an explicit path, the working
// directory, or built-in defaults when no file exists.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}

	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		var serr *scrollerrors.Error
		if errors.As(err, &serr) && serr.Code == "E100" {
			return config.New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func buildLogger(lc config.LogConfig) *slog.Logger {
	var level slog.Level
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func tracerName(cfg *config.Config) string {
	if cfg.Tracing.TracerName != "" {
		return cfg.Tracing.TracerName
	}
	return "scrollock"
}
