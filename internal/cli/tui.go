// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/agentdesk/internal/config"
	"github.com/jeranaias/agentdesk/internal/ui/app"
)

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the full-screen interface (the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}
}

// runTUI runs the Bubble Tea program until the user quits. Edits to the config
// file are pushed into the running program.
func runTUI(cmd *cobra.Command, flags *rootFlags) error {
	if err := RequiresTTY("start the interface"); err != nil {
		return err
	}

	e, err := openEnv(cmd, flags)
	if err != nil {
		return err
	}
	defer e.Close()

	root := app.New(app.Options{
		Backend:  e.client,
		Session:  e.session,
		Config:   e.cfg,
		Restored: e.snap,
		Lang:     detectLang(),
	})
	p := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if err := os.MkdirAll(filepath.Dir(e.cfgPath), 0700); err == nil {
		w, err := config.Watch(e.cfgPath, config.DefaultWatchDebounce, func(cfg *config.Config, err error) {
			if err != nil {
				slog.Warn("CONFIG_RELOAD", "path", e.cfgPath, "error", err)
			}
			p.Send(app.ConfigReloadedMsg{Config: cfg, Err: err})
		})
		if err != nil {
			slog.Warn("CONFIG_WATCH", "path", e.cfgPath, "error", err)
		} else {
			defer w.Close()
		}
	}

	slog.Info("TUI_START", "api", e.client.BaseURL(), "logged_in", e.snap.User != nil)
	_, err = p.Run()
	return err
}
