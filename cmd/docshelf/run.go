package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docshelf/internal/logging"
	"docshelf/internal/pipeline"
	"docshelf/internal/watcher"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Watch the configured directory and organize new documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			logger, err := ctx.buildLogger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			processor := pipeline.NewProcessor(cfg, logger)
			w, err := watcher.New(cfg, processor, logger)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			if err := w.Start(signalCtx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}

			logger.Info("docshelf running",
				logging.String("watch_dir", cfg.Paths.WatchDir),
				logging.String("organized_dir", cfg.Paths.OrganizedDir),
				logging.String("naming_mode", cfg.Naming.Mode),
			)

			<-signalCtx.Done()
			logger.Info("shutdown requested")
			w.Stop()
			return nil
		},
	}
}
