// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the agent backend's REST API.
//
// Every call carries the cookie session (and the CSRF header on unsafe
// methods), is bounded by the configured timeout, and passes through a
// client-side rate limiter. Failures are normalized to *Error, which names the
// user action that failed.
//
// # Key Types
//
//   - Client: resource-oriented calls for agents, conversations, folders, auth
//   - Error: normalized backend failure (action, status, message)
//   - SavedCookie: persisted session cookie
//
// # Usage
//
//	client, err := api.New(api.Options{BaseURL: cfg.API.BaseURL})
//	if err != nil {
//	    return err
//	}
//	agents, err := client.ListAgents(ctx)
//	if errors.Is(err, api.ErrUnauthorized) {
//	    // session expired, back to login
//	}
package api
