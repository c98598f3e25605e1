// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/agentdesk/internal/api"
	"github.com/jeranaias/agentdesk/internal/guard"
	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/ui/components"
)

type fakeBackend struct {
	logins    []model.Credentials
	regs      []model.Registration
	loginErr  error
	regErr    error
	regResult string
}

func (f *fakeBackend) Login(_ context.Context, creds model.Credentials) (*model.User, error) {
	f.logins = append(f.logins, creds)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &model.User{ID: 1, Username: creds.Username}, nil
}

func (f *fakeBackend) Register(_ context.Context, reg model.Registration) (string, error) {
	f.regs = append(f.regs, reg)
	return f.regResult, f.regErr
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func fillLogin(m Login, user, pass string) Login {
	m, _ = m.Update(typeText(user))
	m, _ = m.Update(press(tea.KeyTab))
	m, _ = m.Update(typeText(pass))
	return m
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestLoginSuccess(t *testing.T) {
	be := &fakeBackend{}
	m := fillLogin(NewLogin(be), "ana", "secret123")

	m, cmd := m.Update(press(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, m.Submitting())

	// keys are ignored while submitting
	m, none := m.Update(press(tea.KeyEnter))
	assert.Nil(t, none)

	m, cmd = m.Update(cmd())
	require.NotNil(t, cmd)
	assert.False(t, m.Submitting())

	done, ok := cmd().(LoggedInMsg)
	require.True(t, ok)
	assert.Equal(t, "ana", done.User.Username)
	require.Len(t, be.logins, 1)
	assert.Equal(t, model.Credentials{Username: "ana", Password: "secret123"}, be.logins[0])
}

func TestLoginValidationBlocksRequest(t *testing.T) {
	be := &fakeBackend{}
	m, cmd := NewLogin(be).Update(press(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Contains(t, m.Err(), "username is required")
	assert.Empty(t, be.logins)
}

func TestLoginFailureShowsBackendMessage(t *testing.T) {
	be := &fakeBackend{loginErr: &api.Error{Action: "log in", Status: 400, Message: "Invalid credentials"}}
	m := fillLogin(NewLogin(be), "ana", "wrong")

	m, cmd := m.Update(press(tea.KeyEnter))
	m, cmd = m.Update(cmd())
	assert.Nil(t, cmd)
	assert.Equal(t, "Invalid credentials", m.Err())
	assert.False(t, m.Submitting())
}

func TestLoginGoesToRegister(t *testing.T) {
	_, cmd := NewLogin(&fakeBackend{}).Update(press(tea.KeyCtrlR))
	require.NotNil(t, cmd)
	assert.Equal(t, components.NavigateMsg{Route: guard.RouteRegister}, cmd())
}

func TestLoginReset(t *testing.T) {
	m := NewLogin(&fakeBackend{}).Reset("ana", RegistrationSuccessful)
	assert.Equal(t, RegistrationSuccessful, m.Notice())
	assert.Equal(t, "ana", m.form.Value("username"))
	assert.Equal(t, "password", m.form.Focused())
}

// =============================================================================
// REGISTER TESTS
// =============================================================================

func fillRegister(m Register, values ...string) Register {
	for i, v := range values {
		if i > 0 {
			m, _ = m.Update(press(tea.KeyTab))
		}
		m, _ = m.Update(typeText(v))
	}
	return m
}

func TestRegisterSuccess(t *testing.T) {
	be := &fakeBackend{regResult: "User created successfully"}
	m := fillRegister(NewRegister(be), "ana", "longenough", "Ana", "Lopez", "ana@example.com")

	m, cmd := m.Update(press(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, m.Submitting())

	m, cmd = m.Update(cmd())
	require.NotNil(t, cmd)
	done, ok := cmd().(RegisteredMsg)
	require.True(t, ok)
	assert.Equal(t, "ana", done.Username)
	assert.Equal(t, "User created successfully", done.Message)

	require.Len(t, be.regs, 1)
	assert.Equal(t, model.Registration{
		Username: "ana", Password: "longenough", FirstName: "Ana", LastName: "Lopez", Email: "ana@example.com",
	}, be.regs[0])
	assert.Empty(t, m.Registration().Username, "form cleared after success")
}

func TestRegisterShortPassword(t *testing.T) {
	be := &fakeBackend{}
	m := fillRegister(NewRegister(be), "ana", "short")

	m, cmd := m.Update(press(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Contains(t, m.Err(), "at least 8")
	assert.Empty(t, be.regs)
}

func TestRegisterSurfacesBackendError(t *testing.T) {
	be := &fakeBackend{regErr: &api.Error{Action: "register", Status: 400, Message: "Username already exists"}}
	m := fillRegister(NewRegister(be), "ana", "longenough")

	m, cmd := m.Update(press(tea.KeyEnter))
	m, _ = m.Update(cmd())
	assert.Equal(t, "Username already exists", m.Err())
}

func TestRegisterEscGoesBack(t *testing.T) {
	_, cmd := NewRegister(&fakeBackend{}).Update(press(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.Equal(t, components.NavigateMsg{Route: guard.RouteLogin}, cmd())
}
