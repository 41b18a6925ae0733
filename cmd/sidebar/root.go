package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/sidebar/internal/config"
	"github.com/nikbrunner/sidebar/internal/logging"
	"github.com/nikbrunner/sidebar/internal/workspace"
)

var (
	configPath string
	logLevel   string

	cfg     *config.Config
	rootCmd = &cobra.Command{
		Use:   "sidebar",
		Short: "Tabs and bookmarks side by side",
		Long: `sidebar - a keyboard-driven tab and bookmark sidebar.

Running sidebar without a subcommand opens the interactive view: open tabs
and their groups on the left, the bookmark tree on the right. Rows can be
dragged between positions with the keyboard, deletes and closes can be
undone, and opening a bookmark ties the new tab to it.

The subcommands work on the same saved space without the interactive view.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if logLevel != "" {
				cfg.Log.Level = strings.ToLower(logLevel)
			}
			return nil
		},
		RunE: runTUI,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/sidebar/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// commandContext carries a logger writing to stderr.
func commandContext(cmd *cobra.Command, component string) context.Context {
	logger := logging.New(cfg.Logging(), os.Stderr)
	ctx := logging.WithContext(cmd.Context(), logger)
	return logging.WithComponent(ctx, component)
}

// withWorkspace opens the configured space, runs fn and saves when fn
// changed something.
func withWorkspace(ctx context.Context, fn func(ws *workspace.Workspace) (changed bool, err error)) error {
	ws, err := workspace.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := ws.Close(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("close storage")
		}
	}()

	changed, err := fn(ws)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return ws.Save()
}
