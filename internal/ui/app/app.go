// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/jeranaias/agentdesk/internal/api"
	"github.com/jeranaias/agentdesk/internal/config"
	"github.com/jeranaias/agentdesk/internal/guard"
	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/store"
	"github.com/jeranaias/agentdesk/internal/ui/admin"
	"github.com/jeranaias/agentdesk/internal/ui/auth"
	"github.com/jeranaias/agentdesk/internal/ui/chat"
	"github.com/jeranaias/agentdesk/internal/ui/components"
	"github.com/jeranaias/agentdesk/internal/ui/styles"
)

// Backend is everything the screens need from the API client, plus logout and
// the cookie jar snapshot persisted with the session.
type Backend interface {
	auth.Backend
	chat.Backend
	admin.Backend
	Logout(ctx context.Context) error
	Cookies() []api.SavedCookie
}

// SessionStore persists the signed-in user and UI preferences.
type SessionStore interface {
	SaveLogin(ctx context.Context, user *model.User, cookies []api.SavedCookie) error
	SaveCookies(ctx context.Context, cookies []api.SavedCookie) error
	SavePrefs(ctx context.Context, p store.Prefs) error
	Clear(ctx context.Context) error
}

// Options configures the root model.
type Options struct {
	Backend Backend
	Session SessionStore
	Config  *config.Config
	// Restored is the session snapshot loaded at startup, if any.
	Restored store.Snapshot
	Lang     language.Tag
	Now      func() time.Time
}

// Model is the root model.
type Model struct {
	backend Backend
	session SessionStore
	cfg     *config.Config
	theme   *styles.Theme
	now     func() time.Time

	st    store.State
	route guard.Route
	prev  guard.Route

	login    auth.Login
	register auth.Register
	chat     chat.Model
	admin    admin.Model

	alert  components.Alert
	toasts components.Toasts

	width  int
	height int
}

// New builds the root model. A restored user starts on the chat route.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	theme := styles.NewTheme(cfg.UI.Theme)

	st := store.New()
	st.SidebarOpen = cfg.UI.SidebarOpen
	st = opts.Restored.Apply(st)

	m := Model{
		backend:  opts.Backend,
		session:  opts.Session,
		cfg:      cfg,
		theme:    theme,
		now:      now,
		st:       st,
		route:    guard.RouteChat,
		prev:     guard.RouteChat,
		login:    auth.NewLogin(opts.Backend),
		register: auth.NewRegister(opts.Backend),
		chat: chat.New(chat.Options{
			Backend:        opts.Backend,
			Theme:          theme,
			RenderMarkdown: cfg.UI.RenderMarkdown,
			Lang:           opts.Lang,
			Now:            now,
		}),
		admin: admin.New(opts.Backend, theme),
	}
	m.route, _ = guard.Resolve(m.route, m.st.User)
	return m
}

// Init loads the chat data for a restored session and starts the toast clock.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.login.Init(), components.ToastTickCmd()}
	if m.st.LoggedIn() {
		cmds = append(cmds, m.chat.Init())
		cmds = append(cmds, loadChatCmd())
	}
	return tea.Batch(cmds...)
}

// State returns the client state.
func (m Model) State() store.State {
	return m.st
}

// Route returns the current route.
func (m Model) Route() guard.Route {
	return m.route
}

// Alert returns the blocking alert.
func (m Model) Alert() components.Alert {
	return m.alert
}

// Toasts returns the visible notices.
func (m Model) Toasts() components.Toasts {
	return m.toasts
}
