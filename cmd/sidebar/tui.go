package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/sidebar/internal/logging"
	"github.com/nikbrunner/sidebar/internal/tui"
	"github.com/nikbrunner/sidebar/internal/workspace"
)

// runTUI runs the interactive view. It owns the terminal, so logs go to
// log.file.
func runTUI(cmd *cobra.Command, _ []string) error {
	logFile, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	ctx := logging.WithContext(cmd.Context(), logging.New(cfg.Logging(), logFile))
	log := logging.FromContext(ctx)

	ws, err := workspace.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := ws.Close(); err != nil {
			log.Warn().Err(err).Msg("close storage")
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := ws.Run(runCtx); err != nil {
			log.Error().Err(err).Msg("space watcher stopped")
		}
	}()

	app := tui.NewApp(tui.AppParams{
		Context:         ctx,
		Bookmarks:       ws.Bookmarks,
		Tabs:            ws.Tabs,
		Coordinator:     ws.Coordinator,
		Registry:        ws.Registry,
		History:         ws.History,
		AutoExpandDelay: cfg.Drag.AutoExpandDelay,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run sidebar: %w", err)
	}

	cancel()
	return ws.Save()
}
