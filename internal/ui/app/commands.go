// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/agentdesk/internal/api"
	"github.com/jeranaias/agentdesk/internal/config"
	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/store"
)

// ConfigReloadedMsg is sent by the config watcher when the file changes.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// loadChatMsg asks the router to (re)load the chat data.
type loadChatMsg struct{}

// loadAdminMsg asks the router to (re)load the admin data.
type loadAdminMsg struct{}

// sessionSavedMsg reports a session write. Failures are logged and shown as a
// warning; the app keeps working without persistence.
type sessionSavedMsg struct {
	what string
	err  error
}

// loggedOutMsg reports the backend logout call; the local logout already
// happened.
type loggedOutMsg struct {
	err error
}

func loadChatCmd() tea.Cmd {
	return func() tea.Msg { return loadChatMsg{} }
}

func loadAdminCmd() tea.Cmd {
	return func() tea.Msg { return loadAdminMsg{} }
}

func saveLoginCmd(s SessionStore, user *model.User, cookies []api.SavedCookie) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		return sessionSavedMsg{what: "login", err: s.SaveLogin(context.Background(), user, cookies)}
	}
}

func saveCookiesCmd(s SessionStore, cookies []api.SavedCookie) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		return sessionSavedMsg{what: "cookies", err: s.SaveCookies(context.Background(), cookies)}
	}
}

func savePrefsCmd(s SessionStore, p store.Prefs) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		return sessionSavedMsg{what: "preferences", err: s.SavePrefs(context.Background(), p)}
	}
}

func clearSessionCmd(s SessionStore) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		return sessionSavedMsg{what: "logout", err: s.Clear(context.Background())}
	}
}

func logoutCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		err := b.Logout(context.Background())
		if err != nil {
			slog.Warn("backend logout failed", "error", err)
		}
		return loggedOutMsg{err: err}
	}
}
