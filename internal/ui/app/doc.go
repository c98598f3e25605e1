// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model. It owns the client state, routes
// between the auth, chat and admin screens through the route guards, and turns
// screen failures into alerts and notices into toasts.
package app
