// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/agentdesk/internal/ui/styles"
	"github.com/jeranaias/agentdesk/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents what the current screen is doing.
type Status int

const (
	StatusReady Status = iota
	StatusLoading
	StatusSending
	StatusGrabbing
)

// String returns the display string for the status
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusLoading:
		return "Loading..."
	case StatusSending:
		return "Waiting for agent..."
	case StatusGrabbing:
		return "Moving conversation"
	default:
		return ""
	}
}

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line: status on the left, key hints on the right.
type StatusBar struct {
	Status    Status
	Detail    string
	Shortcuts []Shortcut
}

// View renders the bar across width. Hints that do not fit are dropped from
// the end.
func (s StatusBar) View(theme *styles.Theme, width int) string {
	left := s.Status.String()
	if s.Detail != "" {
		left += " | " + s.Detail
	}

	inner := width - theme.StatusBar.GetHorizontalFrameSize()
	budget := inner - util.StringWidth(left) - 2

	hints := make([]string, 0, len(s.Shortcuts))
	used := 0
	for _, sc := range s.Shortcuts {
		hint := theme.ShortcutKey.Render(sc.Key) + " " + theme.ShortcutDesc.Render(sc.Desc)
		w := lipgloss.Width(hint) + 2
		if used+w > budget {
			break
		}
		hints = append(hints, hint)
		used += w
	}
	right := strings.Join(hints, "  ")

	if inner > 0 && util.StringWidth(left) > inner {
		left = util.TruncateWidth(left, inner)
	}
	gap := inner - util.StringWidth(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return theme.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
