// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/agentdesk/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// NavItem is one entry of the header navigation.
type NavItem struct {
	Key    string // shortcut shown next to the label
	Label  string
	Active bool
}

// Header is the title bar: brand, navigation, signed-in user.
type Header struct {
	Title    string
	Username string
	Nav      []NavItem
}

// View renders the header across width.
func (h Header) View(theme *styles.Theme, width int) string {
	title := h.Title
	if title == "" {
		title = "agentdesk"
	}
	left := theme.HeaderBrand.Render(title)

	nav := make([]string, 0, len(h.Nav))
	for _, item := range h.Nav {
		label := item.Label
		if item.Key != "" {
			label = item.Key + " " + label
		}
		if item.Active {
			nav = append(nav, theme.HeaderNavActive.Render(label))
		} else {
			nav = append(nav, theme.HeaderNav.Render(label))
		}
	}
	middle := strings.Join(nav, " ")

	right := ""
	if h.Username != "" {
		right = theme.HeaderUser.Render(h.Username)
	}

	inner := width - theme.Header.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right) - 2
	if gap < 1 {
		// Drop the navigation before the user name on narrow terminals.
		middle = ""
		gap = inner - lipgloss.Width(left) - lipgloss.Width(right) - 1
		if gap < 1 {
			gap = 1
		}
		return theme.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
	}
	return theme.Header.Width(width).Render(left + " " + middle + strings.Repeat(" ", gap) + " " + right)
}
