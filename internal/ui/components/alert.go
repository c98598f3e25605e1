// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/agentdesk/internal/api"
	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/ui/styles"
)

// =============================================================================
// ALERT
// =============================================================================

// Alert is a blocking error dialog. While visible it swallows all keys; enter
// or esc dismisses it.
type Alert struct {
	Action  string
	Message string
	visible bool
}

// NewAlert builds a visible alert for a failed action.
func NewAlert(action, message string) Alert {
	return Alert{Action: action, Message: message, visible: true}
}

// AlertFromError builds an alert from an error. The action comes from the
// api.Error in the chain when there is one, else from fallback.
func AlertFromError(fallback string, err error) Alert {
	action := api.ActionOf(err)
	if action == "" {
		action = fallback
	}
	return NewAlert(action, ErrorText(err))
}

// ErrorText is the user-facing text of err: the backend message for API
// errors, the field messages for validation errors.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, v := range verrs {
			msgs = append(msgs, v.Message)
		}
		return strings.Join(msgs, "; ")
	}
	var verr model.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

// Visible reports whether the alert is showing.
func (a Alert) Visible() bool {
	return a.visible
}

// Title is the first line of the alert.
func (a Alert) Title() string {
	if a.Action == "" {
		return "Something went wrong"
	}
	return "Could not " + a.Action
}

// Update handles keys. handled is true whenever the alert is visible.
func (a Alert) Update(msg tea.Msg) (Alert, bool) {
	if !a.visible {
		return a, false
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", "esc", " ":
			a.visible = false
		}
	}
	return a, true
}

// View renders the alert centered in width x height.
func (a Alert) View(theme *styles.Theme, width, height int) string {
	if !a.visible {
		return ""
	}
	var b strings.Builder
	b.WriteString(theme.AlertTitle.Render(styles.StatusIndicators.Error + " " + a.Title()))
	if a.Message != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.AlertMessage.Render(a.Message))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.AlertHint.Render("enter to dismiss"))

	box := theme.AlertBox.Width(modalWidth(width)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func modalWidth(width int) int {
	w := 56
	if width > 0 && width-6 < w {
		w = width - 6
	}
	if w < 24 {
		w = 24
	}
	return w
}
