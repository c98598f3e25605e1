// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/agentdesk/internal/ui/styles"
)

// =============================================================================
// CONFIRM PROMPT
// =============================================================================

// ConfirmResult is what a key did to a Confirm.
type ConfirmResult int

const (
	// ConfirmPending means no decision yet.
	ConfirmPending ConfirmResult = iota
	// ConfirmAccepted means the user chose yes.
	ConfirmAccepted
	// ConfirmRejected means the user chose no or cancelled.
	ConfirmRejected
)

// Confirm is a yes/no modal. Kind and TargetID tell the owner what was being
// confirmed when it resolves.
type Confirm struct {
	Prompt   string
	Kind     string
	TargetID int64

	visible bool
	yes     bool
}

// NewConfirm returns a visible prompt with "No" preselected.
func NewConfirm(prompt, kind string, targetID int64) Confirm {
	return Confirm{Prompt: prompt, Kind: kind, TargetID: targetID, visible: true}
}

// Visible reports whether the prompt is showing.
func (c Confirm) Visible() bool {
	return c.visible
}

// Update handles keys: y/n answer directly, left/right/tab move the
// selection, enter answers with the selection, esc rejects.
func (c Confirm) Update(msg tea.Msg) (Confirm, ConfirmResult) {
	if !c.visible {
		return c, ConfirmPending
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, ConfirmPending
	}

	switch key.String() {
	case "y", "Y":
		c.visible = false
		return c, ConfirmAccepted
	case "n", "N", "esc":
		c.visible = false
		return c, ConfirmRejected
	case "left", "right", "tab", "shift+tab", "h", "l":
		c.yes = !c.yes
	case "enter":
		c.visible = false
		if c.yes {
			return c, ConfirmAccepted
		}
		return c, ConfirmRejected
	}
	return c, ConfirmPending
}

// View renders the prompt centered in width x height.
func (c Confirm) View(theme *styles.Theme, width, height int) string {
	if !c.visible {
		return ""
	}
	yes, no := theme.Button, theme.ButtonActive
	if c.yes {
		yes, no = theme.ButtonActive, theme.Button
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yes.Render("Yes"), no.Render("No"))
	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.AlertMessage.Render(c.Prompt),
		"",
		buttons,
	)
	box := theme.ConfirmBox.Width(modalWidth(width)).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
