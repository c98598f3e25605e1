// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/agentdesk/internal/ui/styles"
)

// AccessDeniedTitle heads the access-denied view.
const AccessDeniedTitle = "Access denied"

// AccessDenied renders the view shown in place of an admin-only screen.
func AccessDenied(theme *styles.Theme, width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.AlertTitle.Render(styles.StatusIndicators.Error+" "+AccessDeniedTitle),
		"",
		theme.AlertMessage.Render("You need administrator rights to open this page."),
		"",
		theme.AlertHint.Render("esc to go back"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.DeniedBox.Render(body))
}
