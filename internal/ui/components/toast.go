// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/agentdesk/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast (cyan color)
	ToastKindStatus ToastKind = iota
	// ToastKindSuccess is a success toast (emerald color)
	ToastKindSuccess
	// ToastKindWarning is a warning toast (amber color)
	ToastKindWarning
)

// DefaultToastDuration is the auto-dismiss duration for status toasts.
const DefaultToastDuration = 4 * time.Second

// WarningToastDuration is the auto-dismiss duration for warning toasts.
const WarningToastDuration = 6 * time.Second

// MaxToasts caps how many toasts are visible at once.
const MaxToasts = 3

// Toast is a non-blocking notice. Failures use Alert instead.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// Expired reports whether the toast should be dismissed at now.
func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST LIST
// =============================================================================

// Toasts is the list of visible toasts, newest first.
type Toasts struct {
	items  []Toast
	nextID int
}

// Add pushes a toast created at now.
func (ts Toasts) Add(kind ToastKind, message string, now time.Time) Toasts {
	ts.nextID++
	d := DefaultToastDuration
	if kind == ToastKindWarning {
		d = WarningToastDuration
	}
	t := Toast{ID: ts.nextID, Message: message, Kind: kind, CreatedAt: now, Duration: d}

	items := make([]Toast, 0, len(ts.items)+1)
	items = append(items, t)
	items = append(items, ts.items...)
	if len(items) > MaxToasts {
		items = items[:MaxToasts]
	}
	ts.items = items
	return ts
}

// Success pushes a success toast.
func (ts Toasts) Success(message string, now time.Time) Toasts {
	return ts.Add(ToastKindSuccess, message, now)
}

// Status pushes a status toast.
func (ts Toasts) Status(message string, now time.Time) Toasts {
	return ts.Add(ToastKindStatus, message, now)
}

// Tick drops toasts expired at now.
func (ts Toasts) Tick(now time.Time) Toasts {
	active := make([]Toast, 0, len(ts.items))
	for _, t := range ts.items {
		if !t.Expired(now) {
			active = append(active, t)
		}
	}
	ts.items = active
	return ts
}

// Items returns a copy of the visible toasts.
func (ts Toasts) Items() []Toast {
	return append([]Toast(nil), ts.items...)
}

// Len returns the number of visible toasts.
func (ts Toasts) Len() int {
	return len(ts.items)
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically to expire toasts.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd returns a command that ticks toasts every 250ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// View renders the toasts stacked, right-aligned in width.
func (ts Toasts) View(width int) string {
	if len(ts.items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(ts.items))
	for _, t := range ts.items {
		lines = append(lines, renderToast(t))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, strings.Join(lines, "\n"))
}

func renderToast(t Toast) string {
	color := styles.Cyan
	icon := styles.StatusIndicators.Info
	switch t.Kind {
	case ToastKindSuccess:
		color = styles.Emerald
		icon = styles.StatusIndicators.Success
	case ToastKindWarning:
		color = styles.Amber
		icon = styles.StatusIndicators.Warning
	}
	return lipgloss.NewStyle().
		Foreground(color).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(icon + " " + t.Message)
}
