// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the domain types mirrored from the agent backend.
//
// These types decode directly from the backend's JSON and are shared by the
// API client, the state store, and the views.
//
// # Key Types
//
//   - User: the authenticated account and its role flags
//   - Agent: an LLM persona configuration (prompt, model, sampling)
//   - Conversation: ordered messages plus folder and agent references
//   - Folder: a named grouping of conversations
//   - Message: a chat message, either pending (local id) or confirmed (server id)
//   - ModelOption: a selectable LLM identifier from the backend
//
// # Usage
//
// Check admin rights with the single predicate used everywhere:
//
//	if user.IsAdmin() {
//	    // show admin entry points
//	}
//
// Synthesize an optimistic message:
//
//	msg := model.NewPendingMessage("Hello", time.Now())
//	msg.ID.IsPending() // true
package model
