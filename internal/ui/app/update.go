// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/agentdesk/internal/api"
	"github.com/jeranaias/agentdesk/internal/guard"
	"github.com/jeranaias/agentdesk/internal/store"
	"github.com/jeranaias/agentdesk/internal/ui/admin"
	"github.com/jeranaias/agentdesk/internal/ui/auth"
	"github.com/jeranaias/agentdesk/internal/ui/components"
	"github.com/jeranaias/agentdesk/internal/ui/styles"
)

// SessionExpired is the notice shown when the backend rejects the session.
const SessionExpired = "Your session has expired. Please sign in again."

const headerHeight = 1

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	sidebarBefore := m.st.SidebarOpen

	m, cmd := m.update(msg)

	// The guards run after every message: logging out on a protected route
	// lands on login, signing in on login lands on chat.
	if resolved, _ := guard.Resolve(m.route, m.st.User); resolved != m.route {
		m = m.setRoute(resolved)
	}

	if m.st.SidebarOpen != sidebarBefore && m.st.LoggedIn() {
		cmd = tea.Batch(cmd, savePrefsCmd(m.session, store.Prefs{SidebarOpen: m.st.SidebarOpen}))
	}
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		return m.forward(tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - headerHeight})

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.ToastTickMsg:
		m.toasts = m.toasts.Tick(msg.Time)
		return m, components.ToastTickCmd()

	case components.FailureMsg:
		return m.handleFailure(msg)

	case components.NoticeMsg:
		m.toasts = m.toasts.Add(msg.Kind, msg.Text, m.now())
		return m, nil

	case components.NavigateMsg:
		return m.navigate(msg.Route)

	case auth.LoggedInMsg:
		m.st = m.st.WithUser(msg.User)
		m.toasts = m.toasts.Success("Signed in as "+msg.User.DisplayName(), m.now())
		slog.Info("signed in", "user", msg.User.Username, "admin", msg.User.IsAdmin())
		m = m.setRoute(guard.RouteChat)
		return m, tea.Batch(
			saveLoginCmd(m.session, m.st.User, m.backend.Cookies()),
			loadChatCmd(),
		)

	case auth.RegisteredMsg:
		m.login = m.login.Reset(msg.Username, auth.RegistrationSuccessful)
		m = m.setRoute(guard.RouteLogin)
		return m, m.login.Init()

	case loadChatMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Load()
		return m, cmd

	case loadAdminMsg:
		var cmd tea.Cmd
		m.admin, cmd = m.admin.Load()
		return m, cmd

	case admin.AutoChatStartedMsg:
		m, cmd := m.forward(msg)
		if msg.Err == nil {
			cmd = tea.Batch(cmd, loadChatCmd())
		}
		return m, cmd

	case sessionSavedMsg:
		if msg.err != nil {
			slog.Error("session persistence failed", "what", msg.what, "error", msg.err)
			m.toasts = m.toasts.Add(components.ToastKindWarning, "Could not save "+msg.what+" locally", m.now())
		}
		return m, nil

	case loggedOutMsg:
		return m, nil

	case ConfigReloadedMsg:
		return m.applyConfig(msg)
	}

	return m.forward(msg)
}

// forward hands a non-key message to every screen. Results of backend calls
// must reach their screen even when another one is visible.
func (m Model) forward(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.login, cmd = m.login.Update(msg)
	cmds = append(cmds, cmd)
	m.register, cmd = m.register.Update(msg)
	cmds = append(cmds, cmd)
	m.chat, m.st, cmd = m.chat.Update(msg, m.st)
	cmds = append(cmds, cmd)
	m.admin, m.st, cmd = m.admin.Update(msg, m.st)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		if m.st.LoggedIn() && m.session != nil {
			return m, tea.Sequence(saveCookiesCmd(m.session, m.backend.Cookies()), tea.Quit)
		}
		return m, tea.Quit
	}

	if m.alert.Visible() {
		m.alert, _ = m.alert.Update(msg)
		return m, nil
	}

	if m.st.LoggedIn() && !m.screenEditing() {
		switch msg.String() {
		case "f1":
			return m.navigate(guard.RouteChat)
		case "f2":
			return m.openAdmin(admin.ViewAgents)
		case "f3":
			return m.openAdmin(admin.ViewAutoChat)
		case "f10":
			return m.logout("Signed out")
		}
	}

	d := guard.Evaluate(m.route, m.st.User)
	if d.Outcome == guard.Denied {
		if msg.String() == "esc" {
			back := m.prev
			if back == m.route || back.AdminOnly() {
				back = guard.RouteChat
			}
			return m.navigate(back)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.route {
	case guard.RouteLogin:
		m.login, cmd = m.login.Update(msg)
	case guard.RouteRegister:
		m.register, cmd = m.register.Update(msg)
	case guard.RouteChat:
		m.chat, m.st, cmd = m.chat.Update(msg, m.st)
	case guard.RouteAdmin:
		m.admin, m.st, cmd = m.admin.Update(msg, m.st)
	}
	return m, cmd
}

// screenEditing reports whether the visible screen holds the keyboard for a
// modal, so function keys do not navigate away from it.
func (m Model) screenEditing() bool {
	switch m.route {
	case guard.RouteChat:
		return m.chat.Modal()
	case guard.RouteAdmin:
		return m.admin.Editing() && m.admin.Current() == admin.ViewAgents
	}
	return false
}

func (m Model) openAdmin(v admin.View) (Model, tea.Cmd) {
	m, cmd := m.navigate(guard.RouteAdmin)
	if m.route != guard.RouteAdmin || !m.st.User.IsAdmin() {
		return m, cmd
	}
	var show tea.Cmd
	m.admin, show = m.admin.Show(v, m.st)
	return m, tea.Batch(cmd, show)
}

// navigate switches route. Entering the admin route reloads its data.
func (m Model) navigate(r guard.Route) (Model, tea.Cmd) {
	if r == m.route {
		return m, nil
	}
	m = m.setRoute(r)
	if m.route == guard.RouteAdmin && m.st.User.IsAdmin() {
		return m, loadAdminCmd()
	}
	if m.route == guard.RouteRegister {
		return m, m.register.Init()
	}
	return m, nil
}

func (m Model) setRoute(r guard.Route) Model {
	if r == m.route {
		return m
	}
	m.prev = m.route
	m.route = r
	slog.Debug("route", "from", m.prev, "to", m.route)
	return m
}

func (m Model) handleFailure(msg components.FailureMsg) (Model, tea.Cmd) {
	var apiErr *api.Error
	if errors.Is(msg.Err, api.ErrUnauthorized) && !(errors.As(msg.Err, &apiErr) && apiErr.Forbidden()) {
		slog.Warn("session rejected by backend", "action", msg.Action)
		return m.logout(SessionExpired)
	}
	slog.Error("action failed", "action", msg.Action, "error", msg.Err)
	m.alert = components.NewAlert(msg.Action, components.ErrorText(msg.Err))
	return m, nil
}

// logout drops the local session first; the backend call is best effort.
func (m Model) logout(notice string) (Model, tea.Cmd) {
	wasLoggedIn := m.st.LoggedIn()
	m.st = m.st.Logout()
	m.alert = components.Alert{}
	m.login = m.login.Reset("", notice)
	m = m.setRoute(guard.RouteLogin)
	if !wasLoggedIn {
		return m, nil
	}
	return m, tea.Batch(logoutCmd(m.backend), clearSessionCmd(m.session), m.login.Init())
}

func (m Model) applyConfig(msg ConfigReloadedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		slog.Warn("config reload failed", "error", msg.Err)
		m.toasts = m.toasts.Add(components.ToastKindWarning, "Config reload failed: "+msg.Err.Error(), m.now())
		return m, nil
	}
	m.cfg = msg.Config
	if mode := msg.Config.UI.Theme; mode != "" {
		// Screens share the theme pointer; replace it in place.
		next := styles.NewTheme(mode)
		next.SetSize(m.width, m.height)
		*m.theme = *next
	}
	m.toasts = m.toasts.Status("Configuration reloaded", m.now())
	return m, nil
}
