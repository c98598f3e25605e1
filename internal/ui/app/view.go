// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/agentdesk/internal/guard"
	"github.com/jeranaias/agentdesk/internal/ui/admin"
	"github.com/jeranaias/agentdesk/internal/ui/components"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	bodyHeight := m.height - headerHeight

	body := m.body(bodyHeight)
	if m.alert.Visible() {
		body = m.alert.View(m.theme, m.width, bodyHeight)
	}
	if m.toasts.Len() > 0 {
		body = overlayTop(body, m.toasts.View(m.width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header().View(m.theme, m.width), body)
}

// body renders the route through the guards: redirects render their target,
// denials render the access-denied view in place.
func (m Model) body(height int) string {
	route := m.route
	d := guard.Evaluate(route, m.st.User)
	switch d.Outcome {
	case guard.Denied:
		return components.AccessDenied(m.theme, m.width, height)
	case guard.Redirect:
		route = d.Target
	}

	switch route {
	case guard.RouteLogin:
		return m.login.View(m.theme, m.width, height)
	case guard.RouteRegister:
		return m.register.View(m.theme, m.width, height)
	case guard.RouteAdmin:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.admin.View(m.st, m.width, height-1),
			m.admin.StatusBar().View(m.theme, m.width),
		)
	default:
		return m.chat.View(m.st)
	}
}

func (m Model) header() components.Header {
	h := components.Header{Title: "agentdesk"}
	user := m.st.User
	if user == nil {
		return h
	}
	h.Username = user.DisplayName()
	h.Nav = append(h.Nav, components.NavItem{Key: "F1", Label: "Chat", Active: m.route == guard.RouteChat})
	if user.IsAdmin() {
		onAdmin := m.route == guard.RouteAdmin
		h.Nav = append(h.Nav,
			components.NavItem{Key: "F2", Label: "Agents", Active: onAdmin && m.admin.Current() != admin.ViewAutoChat},
			components.NavItem{Key: "F3", Label: "Auto-chat", Active: onAdmin && m.admin.Current() == admin.ViewAutoChat},
		)
	}
	h.Nav = append(h.Nav, components.NavItem{Key: "F10", Label: "Logout"})
	return h
}

// overlayTop replaces the first lines of base with the overlay lines.
func overlayTop(base, overlay string) string {
	lines := strings.Split(base, "\n")
	for i, l := range strings.Split(overlay, "\n") {
		if i >= len(lines) {
			lines = append(lines, l)
			continue
		}
		lines[i] = l
	}
	return strings.Join(lines, "\n")
}
