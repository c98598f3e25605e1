// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/jeranaias/agentdesk/internal/model"
)

type userEnvelope struct {
	User    *model.User `json:"user"`
	Message string      `json:"message,omitempty"`
}

// Login authenticates and stores the session cookie in the jar.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.User, error) {
	const action = "log in"
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var env userEnvelope
	if err := c.do(ctx, action, http.MethodPost, "/auth/login/", creds, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &Error{Action: action, Message: "response carried no user"}
	}
	return env.User, nil
}

// Logout ends the server session and drops local cookies even if the call
// fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, "log out", http.MethodPost, "/auth/logout/", nil, nil)
	c.ClearCookies()
	return err
}

// Me returns the user bound to the current session cookie.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	const action = "load session"
	var env userEnvelope
	if err := c.do(ctx, action, http.MethodGet, "/auth/me/", nil, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &Error{Action: action, Status: http.StatusUnauthorized, Message: "not authenticated"}
	}
	return env.User, nil
}

// Register creates an account. It does not sign the user in.
func (c *Client) Register(ctx context.Context, reg model.Registration) (string, error) {
	if err := reg.Validate(); err != nil {
		return "", err
	}
	var env userEnvelope
	if err := c.do(ctx, "register", http.MethodPost, "/register/", reg, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}
