package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"docshelf/internal/pipeline"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var organize bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List unorganized documents in the watch directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			entries, err := os.ReadDir(cfg.Paths.WatchDir)
			if err != nil {
				return fmt.Errorf("read watch directory: %w", err)
			}

			var backlog []backlogRow
			var paths []string
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				ext := strings.ToLower(filepath.Ext(entry.Name()))
				if !cfg.SupportedExtension(ext) {
					continue
				}
				info, err := entry.Info()
				if err != nil {
					continue
				}
				backlog = append(backlog, backlogRow{
					Name:     entry.Name(),
					Size:     info.Size(),
					Modified: info.ModTime().Format("2006-01-02 15:04"),
				})
				paths = append(paths, filepath.Join(cfg.Paths.WatchDir, entry.Name()))
			}
			sort.Slice(backlog, func(i, j int) bool { return backlog[i].Name < backlog[j].Name })
			sort.Strings(paths)

			out := cmd.OutOrStdout()
			if len(backlog) == 0 {
				fmt.Fprintf(out, "No pending documents in %s\n", cfg.Paths.WatchDir)
				return nil
			}
			fmt.Fprintln(out, renderBacklogTable(backlog))
			fmt.Fprintf(out, "%d pending document(s)\n", len(backlog))

			if !organize {
				return nil
			}

			logger, err := ctx.buildLogger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			processor := pipeline.NewProcessor(cfg, logger)
			failures := 0
			for _, path := range paths {
				if signalCtx.Err() != nil {
					return signalCtx.Err()
				}
				finalPath, err := processor.Process(signalCtx, path)
				if err != nil {
					failures++
					fmt.Fprintf(out, "failed: %s (%v)\n", filepath.Base(path), err)
					continue
				}
				fmt.Fprintf(out, "organized: %s -> %s\n", filepath.Base(path), finalPath)
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d document(s) failed to organize", failures, len(paths))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&organize, "organize", false, "Organize the listed documents now")
	return cmd
}
