package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/grade-server/config"
	"github.com/angeloszaimis/grade-server/internal/handler"
	"github.com/angeloszaimis/grade-server/internal/httpserver"
	"github.com/angeloszaimis/grade-server/internal/metrics"
	"github.com/angeloszaimis/grade-server/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:          "grade-server",
		Short:        "HTTP service that turns a score into a letter grade",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				slog.Error("failed to load config", slog.Any("err", err))
				return err
			}

			log, level := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if cfg.File() != "" {
				go watchConfig(ctx, cfg.File(), log, level)
			}

			return run(ctx, cfg, log)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "path to a YAML config file (default: ./config/config.yaml or ./config.yaml)")
	cmd.Flags().String(config.FlagAddr, "", "listen address, overrides server.address (e.g. :8080)")

	return cmd
}

// run serves until ctx is cancelled or the listener fails.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.BufferSize, log)
		collector.Start(ctx)
	}

	router := setupRouter(cfg, log, handler.NewRenderer(), collector)

	t := cfg.Server.Timeouts()
	srv, err := httpserver.New(cfg.Server.Address, router, httpserver.Timeouts{
		Read:     t.Read,
		Write:    t.Write,
		Idle:     t.Idle,
		Shutdown: t.Shutdown,
	})
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		return err
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	log.Info("Grade server listening",
		slog.String("addr", srv.Addr()),
		slog.String("route", cfg.Grading.Route),
		slog.String("query_mode", cfg.Grading.QueryMode),
		slog.Bool("metrics", cfg.Metrics.Enabled))

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
			return err
		}
		return nil
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting grade server", slog.Any("err", err))
		}
		return err
	}
}

func watchConfig(ctx context.Context, path string, log *slog.Logger, level *slog.LevelVar) {
	err := config.Watch(ctx, path, log, func(cfg *config.Config) {
		logger.SetLevel(level, cfg.Logging.Level)
		log.Info("Log level updated", slog.String("level", cfg.Logging.Level))
	})
	if err != nil {
		log.Warn("Config watcher stopped", slog.Any("err", err))
	}
}
