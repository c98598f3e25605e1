// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the login and registration screens.
package auth

import (
	"context"

	"github.com/jeranaias/agentdesk/internal/model"
)

// Backend is the part of the API client the auth screens use.
type Backend interface {
	Login(ctx context.Context, creds model.Credentials) (*model.User, error)
	Register(ctx context.Context, reg model.Registration) (string, error)
}

// LoggedInMsg is emitted after a successful login.
type LoggedInMsg struct {
	User *model.User
}

// RegisteredMsg is emitted after a successful registration.
type RegisteredMsg struct {
	Username string
	Message  string
}

// RegistrationSuccessful is shown on the login screen after sign-up.
const RegistrationSuccessful = "Registration successful. Please sign in."
