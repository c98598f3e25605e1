// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the client-side application state.
//
// State is an immutable value: every action is a method returning a new State,
// and slices are copied on write, so a State handed to a view never changes
// underneath it. The root Bubble Tea model owns the current State and replaces
// it from Update; nothing else mutates it.
//
// Session persists the parts of the state that survive restarts (the user
// record, session cookies, UI preferences) through localstore.
//
// # Usage
//
//	st := store.New().WithUser(user).WithAgents(agents)
//	st = st.SelectAgent(3)
//	st, err := st.MoveConversation(10, nil) // unfile
package store
