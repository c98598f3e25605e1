// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/agentdesk/internal/api"
	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/ui/styles"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// =============================================================================
// ALERT TESTS
// =============================================================================

func TestAlertFromError(t *testing.T) {
	err := errors.Wrap(&api.Error{Action: "send message", Status: 500, Message: "LLM unavailable"}, "send")
	a := AlertFromError("do something", err)

	assert.True(t, a.Visible())
	assert.Equal(t, "send message", a.Action)
	assert.Equal(t, "LLM unavailable", a.Message)
	assert.Equal(t, "Could not send message", a.Title())

	plain := AlertFromError("load agents", errors.New("boom"))
	assert.Equal(t, "load agents", plain.Action)
	assert.Equal(t, "boom", plain.Message)
}

func TestAlertBlocksUntilDismissed(t *testing.T) {
	a := NewAlert("load folders", "HTTP 500")

	a, handled := a.Update(runes("x"))
	assert.True(t, handled)
	assert.True(t, a.Visible())

	a, handled = a.Update(key(tea.KeyEnter))
	assert.True(t, handled)
	assert.False(t, a.Visible())

	_, handled = a.Update(runes("x"))
	assert.False(t, handled)
}

func TestAlertView(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	view := NewAlert("delete agent", "not allowed").View(theme, 80, 20)
	assert.Contains(t, view, "Could not delete agent")
	assert.Contains(t, view, "not allowed")
	assert.Empty(t, Alert{}.View(theme, 80, 20))
}

// =============================================================================
// CONFIRM TESTS
// =============================================================================

func TestConfirm(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want ConfirmResult
	}{
		{"y accepts", []tea.KeyMsg{runes("y")}, ConfirmAccepted},
		{"n rejects", []tea.KeyMsg{runes("n")}, ConfirmRejected},
		{"esc rejects", []tea.KeyMsg{key(tea.KeyEsc)}, ConfirmRejected},
		{"enter defaults to no", []tea.KeyMsg{key(tea.KeyEnter)}, ConfirmRejected},
		{"tab then enter accepts", []tea.KeyMsg{key(tea.KeyTab), key(tea.KeyEnter)}, ConfirmAccepted},
		{"unrelated key pends", []tea.KeyMsg{runes("q")}, ConfirmPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfirm("Delete?", "agent", 4)
			var res ConfirmResult
			for _, k := range tt.keys {
				c, res = c.Update(k)
			}
			assert.Equal(t, tt.want, res)
			assert.Equal(t, tt.want == ConfirmPending, c.Visible())
			assert.Equal(t, int64(4), c.TargetID)
		})
	}
}

// =============================================================================
// TOAST TESTS
// =============================================================================

func TestToastsExpire(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	ts := Toasts{}.Success("saved", now).Add(ToastKindWarning, "careful", now)
	require.Equal(t, 2, ts.Len())
	assert.Equal(t, "careful", ts.Items()[0].Message, "newest first")

	ts = ts.Tick(now.Add(DefaultToastDuration))
	require.Equal(t, 1, ts.Len())
	assert.Equal(t, ToastKindWarning, ts.Items()[0].Kind)

	ts = ts.Tick(now.Add(WarningToastDuration))
	assert.Zero(t, ts.Len())
}

func TestToastsCap(t *testing.T) {
	now := time.Now()
	var ts Toasts
	for i := 0; i < MaxToasts+2; i++ {
		ts = ts.Status("n", now)
	}
	assert.Equal(t, MaxToasts, ts.Len())
	assert.Contains(t, ts.View(80), "n")
}

// =============================================================================
// HEADER AND STATUS BAR TESTS
// =============================================================================

func TestHeaderView(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	h := Header{
		Username: "ana",
		Nav:      []NavItem{{Key: "F1", Label: "Chat", Active: true}, {Key: "F2", Label: "Admin"}},
	}

	wide := h.View(theme, 120)
	assert.Contains(t, wide, "agentdesk")
	assert.Contains(t, wide, "Admin")
	assert.Contains(t, wide, "ana")

	narrow := h.View(theme, 24)
	assert.NotContains(t, narrow, "Admin")
	assert.Contains(t, narrow, "ana")
}

func TestStatusBarDropsHints(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	sb := StatusBar{
		Status:    StatusSending,
		Shortcuts: []Shortcut{{"enter", "send"}, {"ctrl+r", "retry"}, {"ctrl+y", "copy last reply"}},
	}

	wide := sb.View(theme, 120)
	assert.Contains(t, wide, "Waiting for agent")
	assert.Contains(t, wide, "copy last reply")

	narrow := sb.View(theme, 40)
	assert.NotContains(t, narrow, "copy last reply")
}

func TestAccessDenied(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	assert.Contains(t, AccessDenied(theme, 80, 20), AccessDeniedTitle)
}

// =============================================================================
// FORM TESTS
// =============================================================================

func typeInto(f Form, s string) Form {
	for _, r := range s {
		f, _, _ = f.Update(runes(string(r)))
	}
	return f
}

func TestFormTypingAndFocus(t *testing.T) {
	f := NewForm("Sign in",
		TextField("username", "Username", ""),
		PasswordField("password", "Password"),
	)
	assert.Equal(t, "username", f.Focused())

	f = typeInto(f, "ana")
	f, _, act := f.Update(key(tea.KeyTab))
	assert.Equal(t, FormNone, act)
	assert.Equal(t, "password", f.Focused())
	f = typeInto(f, "secret")

	assert.Equal(t, "ana", f.Value("username"))
	assert.Equal(t, "secret", f.Value("password"))
	assert.NotContains(t, f.View(styles.NewTheme(styles.ModeDark)), "secret")

	f, _, _ = f.Update(key(tea.KeyShiftTab))
	assert.Equal(t, "username", f.Focused())

	_, _, act = f.Update(key(tea.KeyEnter))
	assert.Equal(t, FormSubmit, act)
	_, _, act = f.Update(key(tea.KeyEsc))
	assert.Equal(t, FormCancel, act)
}

func TestFormMixedFieldsResize(t *testing.T) {
	var f Form
	require.NotPanics(t, func() {
		f = NewForm("Agent",
			TextField("name", "Name", ""),
			PasswordField("secret", "Secret"),
			AreaField("prompt", "Prompt"),
			ChoiceField("type", "Type", []Choice{{Value: "client"}}),
			ToggleField("active", "Active", true),
		)
		f = f.SetWidth(60)
	})
	f = f.SetValue("prompt", "hello")
	assert.Equal(t, "hello", f.Value("prompt"))
	assert.Contains(t, f.View(styles.NewTheme(styles.ModeDark)), "Active")
}

func TestFormAreaKeepsEnter(t *testing.T) {
	f := NewForm("", AreaField("prompt", "System prompt"))
	f = typeInto(f, "a")
	f, _, act := f.Update(key(tea.KeyEnter))
	assert.Equal(t, FormNone, act)
	f = typeInto(f, "b")
	assert.Equal(t, "a\nb", f.Value("prompt"))

	_, _, act = f.Update(key(tea.KeyCtrlS))
	assert.Equal(t, FormSubmit, act)
}

func TestFormChoiceAndToggle(t *testing.T) {
	f := NewForm("",
		ChoiceField("type", "Type", []Choice{{"client", "Client"}, {"metier", "Metier"}}),
		ToggleField("active", "Active", true),
	)
	assert.Equal(t, "client", f.Value("type"))

	f, _, _ = f.Update(key(tea.KeyRight))
	assert.Equal(t, "metier", f.Value("type"))
	f, _, _ = f.Update(key(tea.KeyRight))
	assert.Equal(t, "client", f.Value("type"))
	f, _, _ = f.Update(key(tea.KeyLeft))
	assert.Equal(t, "metier", f.Value("type"))

	f, _, _ = f.Update(key(tea.KeyDown))
	assert.True(t, f.Bool("active"))
	f, _, _ = f.Update(key(tea.KeySpace))
	assert.False(t, f.Bool("active"))
}

func TestFormSetters(t *testing.T) {
	f := NewForm("",
		TextField("name", "Name", ""),
		ChoiceField("model", "Model", nil),
	)
	f = f.SetValue("name", "Helper").SetValue("missing", "x")
	assert.Equal(t, "Helper", f.Value("name"))
	assert.Empty(t, f.Value("model"))

	f = f.SetChoices("model", []Choice{{Value: "gpt-4o"}, {Value: "mistral"}})
	f = f.SetValue("model", "mistral")
	assert.Equal(t, "mistral", f.Value("model"))

	// still offered: kept
	f = f.SetChoices("model", []Choice{{Value: "mistral"}, {Value: "claude"}})
	assert.Equal(t, "mistral", f.Value("model"))
	// gone: first option
	f = f.SetChoices("model", []Choice{{Value: "claude"}})
	assert.Equal(t, "claude", f.Value("model"))

	f, _ = f.FocusField("model")
	assert.Equal(t, "model", f.Focused())
	assert.True(t, strings.Contains(f.View(styles.NewTheme(styles.ModeDark)), "claude"))
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"api", errors.Wrap(&api.Error{Action: "log in", Status: 401, Message: "Invalid credentials"}, "login"), "Invalid credentials"},
		{"validation list", model.ValidationErrors{{Field: "username", Message: "username is required"}, {Field: "password", Message: "password is required"}}, "username is required; password is required"},
		{"single validation", model.ValidationError{Field: "name", Message: "name is required"}, "name is required"},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorText(tt.err))
		})
	}
}
