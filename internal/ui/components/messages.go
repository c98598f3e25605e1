// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/agentdesk/internal/guard"
)

// =============================================================================
// SCREEN TO ROOT MESSAGES
// =============================================================================

// FailureMsg reports a failed backend call. The root model turns it into an
// Alert, or into a logout when the session is gone.
type FailureMsg struct {
	Action string
	Err    error
}

// NoticeMsg asks the root model for a toast.
type NoticeMsg struct {
	Text string
	Kind ToastKind
}

// NavigateMsg asks the root model to switch screens.
type NavigateMsg struct {
	Route guard.Route
}

// Fail returns a command producing a FailureMsg.
func Fail(action string, err error) tea.Cmd {
	return func() tea.Msg {
		return FailureMsg{Action: action, Err: err}
	}
}

// Notify returns a command producing a success NoticeMsg.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Text: text, Kind: ToastKindSuccess}
	}
}

// Navigate returns a command producing a NavigateMsg.
func Navigate(r guard.Route) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Route: r}
	}
}
