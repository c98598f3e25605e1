// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/jeranaias/agentdesk/internal/model"

// =============================================================================
// BACKEND RESULT MESSAGES
// =============================================================================

// AgentsLoadedMsg carries the agent list.
type AgentsLoadedMsg struct {
	Agents []model.Agent
	Err    error
}

// ConversationsLoadedMsg carries the conversation list.
type ConversationsLoadedMsg struct {
	Conversations []model.Conversation
	Err           error
}

// FoldersLoadedMsg carries the folder list.
type FoldersLoadedMsg struct {
	Folders []model.Folder
	Err     error
}

// ConversationLoadedMsg carries one conversation with its messages.
type ConversationLoadedMsg struct {
	Conversation *model.Conversation
	Err          error
}

// SendResultMsg settles or fails an optimistic send.
type SendResultMsg struct {
	LocalID         string
	NewConversation bool
	Response        *model.SendMessageResponse
	Err             error
}

// ConversationDeletedMsg reports a conversation deletion.
type ConversationDeletedMsg struct {
	ID  int64
	Err error
}

// ConversationMovedMsg reports a move into a folder (nil FolderID = unfiled).
type ConversationMovedMsg struct {
	ID       int64
	FolderID *int64
	Err      error
}

// FolderSavedMsg reports a folder creation or rename.
type FolderSavedMsg struct {
	Folder  *model.Folder
	Renamed bool
	Err     error
}

// FolderDeletedMsg reports a folder deletion.
type FolderDeletedMsg struct {
	ID  int64
	Err error
}

// ClipboardMsg reports a copy to the clipboard.
type ClipboardMsg struct {
	Err error
}
