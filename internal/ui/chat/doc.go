// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat screen: the folder sidebar, the message
// window, the input line and the agent picker.
//
// The screen does not own application state. Update receives the current
// store.State and returns the next one alongside the usual command:
//
//	m, st, cmd = m.Update(msg, st)
//
// Sends go through optimistic.Pipeline. The pending message is added to the
// state before the send command is returned, so its position never depends on
// network timing.
package chat
