// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/agentdesk/internal/guard"
	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/ui/components"
	"github.com/jeranaias/agentdesk/internal/ui/styles"
)

type loginResultMsg struct {
	user *model.User
	err  error
}

// Login is the sign-in screen.
type Login struct {
	backend    Backend
	form       components.Form
	submitting bool
}

// NewLogin builds an empty login screen.
func NewLogin(backend Backend) Login {
	return Login{
		backend: backend,
		form: components.NewForm("Sign in",
			components.TextField("username", "Username", ""),
			components.PasswordField("password", "Password"),
		),
	}
}

// Init starts the cursor blink.
func (m Login) Init() tea.Cmd {
	return m.form.Init()
}

// Reset clears the form, optionally prefilling the username and a notice.
func (m Login) Reset(username, notice string) Login {
	m = NewLogin(m.backend)
	if username != "" {
		m.form = m.form.SetValue("username", username)
		m.form, _ = m.form.FocusField("password")
	}
	m.form.Notice = notice
	return m
}

// Submitting reports whether a login call is outstanding.
func (m Login) Submitting() bool {
	return m.submitting
}

// Err returns the inline error.
func (m Login) Err() string {
	return m.form.Err
}

// Notice returns the inline notice.
func (m Login) Notice() string {
	return m.form.Notice
}

// Update handles form keys and the login result.
func (m Login) Update(msg tea.Msg) (Login, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.form.Err = components.ErrorText(msg.err)
			m.form = m.form.SetValue("password", "")
			return m, nil
		}
		user := msg.user
		return m.Reset("", ""), func() tea.Msg { return LoggedInMsg{User: user} }

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		if msg.String() == "ctrl+r" {
			return m, components.Navigate(guard.RouteRegister)
		}
	}

	var (
		cmd    tea.Cmd
		action components.FormAction
	)
	m.form, cmd, action = m.form.Update(msg)
	if action == components.FormSubmit {
		return m.submit()
	}
	return m, cmd
}

func (m Login) submit() (Login, tea.Cmd) {
	creds := model.Credentials{
		Username: strings.TrimSpace(m.form.Value("username")),
		Password: m.form.Value("password"),
	}
	if err := creds.Validate(); err != nil {
		m.form.Err = components.ErrorText(err)
		return m, nil
	}
	m.form.Err = ""
	m.form.Notice = ""
	m.submitting = true

	backend := m.backend
	return m, func() tea.Msg {
		user, err := backend.Login(context.Background(), creds)
		return loginResultMsg{user: user, err: err}
	}
}

// View renders the screen centered.
func (m Login) View(theme *styles.Theme, width, height int) string {
	hint := "enter sign in  ctrl+r create an account"
	if m.submitting {
		hint = "Signing in..."
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.form.View(theme),
		theme.Muted.Render(hint),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
