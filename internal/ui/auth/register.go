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

type registerResultMsg struct {
	username string
	message  string
	err      error
}

// Register is the sign-up screen.
type Register struct {
	backend    Backend
	form       components.Form
	submitting bool
}

// NewRegister builds an empty registration screen.
func NewRegister(backend Backend) Register {
	return Register{
		backend: backend,
		form: components.NewForm("Create an account",
			components.TextField("username", "Username", ""),
			components.PasswordField("password", "Password"),
			components.TextField("first_name", "First name", ""),
			components.TextField("last_name", "Last name", ""),
			components.TextField("email", "Email", "name@example.com"),
		),
	}
}

// Init starts the cursor blink.
func (m Register) Init() tea.Cmd {
	return m.form.Init()
}

// Submitting reports whether a registration call is outstanding.
func (m Register) Submitting() bool {
	return m.submitting
}

// Err returns the inline error.
func (m Register) Err() string {
	return m.form.Err
}

// Registration returns the payload the form would submit.
func (m Register) Registration() model.Registration {
	return model.Registration{
		Username:  strings.TrimSpace(m.form.Value("username")),
		Password:  m.form.Value("password"),
		FirstName: strings.TrimSpace(m.form.Value("first_name")),
		LastName:  strings.TrimSpace(m.form.Value("last_name")),
		Email:     strings.TrimSpace(m.form.Value("email")),
	}
}

// Update handles form keys and the registration result. esc returns to the
// login screen.
func (m Register) Update(msg tea.Msg) (Register, tea.Cmd) {
	switch msg := msg.(type) {
	case registerResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.form.Err = components.ErrorText(msg.err)
			return m, nil
		}
		done := RegisteredMsg{Username: msg.username, Message: msg.message}
		return NewRegister(m.backend), func() tea.Msg { return done }

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
	}

	var (
		cmd    tea.Cmd
		action components.FormAction
	)
	m.form, cmd, action = m.form.Update(msg)
	switch action {
	case components.FormSubmit:
		return m.submit()
	case components.FormCancel:
		return m, components.Navigate(guard.RouteLogin)
	}
	return m, cmd
}

func (m Register) submit() (Register, tea.Cmd) {
	reg := m.Registration()
	if err := reg.Validate(); err != nil {
		m.form.Err = components.ErrorText(err)
		return m, nil
	}
	m.form.Err = ""
	m.submitting = true

	backend := m.backend
	return m, func() tea.Msg {
		message, err := backend.Register(context.Background(), reg)
		return registerResultMsg{username: reg.Username, message: message, err: err}
	}
}

// View renders the screen centered.
func (m Register) View(theme *styles.Theme, width, height int) string {
	hint := "enter create account  esc back to sign in"
	if m.submitting {
		hint = "Creating account..."
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.form.View(theme),
		theme.Muted.Render(hint),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
