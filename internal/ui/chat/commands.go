// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/optimistic"
)

// Backend is the part of the API client the chat screen uses.
type Backend interface {
	ListAgents(ctx context.Context) ([]model.Agent, error)
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	GetConversation(ctx context.Context, id int64) (*model.Conversation, error)
	DeleteConversation(ctx context.Context, id int64) error
	SendMessage(ctx context.Context, req model.SendMessageRequest) (*model.SendMessageResponse, error)
	MoveConversation(ctx context.Context, id int64, folderID *int64) error
	ListFolders(ctx context.Context) ([]model.Folder, error)
	CreateFolder(ctx context.Context, name string) (*model.Folder, error)
	RenameFolder(ctx context.Context, folder model.Folder, name string) (*model.Folder, error)
	DeleteFolder(ctx context.Context, id int64) error
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// Every command uses a fresh background context; the API client applies the
// configured request timeout.

func loadAgentsCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		agents, err := b.ListAgents(context.Background())
		return AgentsLoadedMsg{Agents: agents, Err: err}
	}
}

func loadConversationsCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		convs, err := b.ListConversations(context.Background())
		return ConversationsLoadedMsg{Conversations: convs, Err: err}
	}
}

func loadFoldersCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		folders, err := b.ListFolders(context.Background())
		return FoldersLoadedMsg{Folders: folders, Err: err}
	}
}

func loadConversationCmd(b Backend, id int64) tea.Cmd {
	return func() tea.Msg {
		conv, err := b.GetConversation(context.Background(), id)
		return ConversationLoadedMsg{Conversation: conv, Err: err}
	}
}

func sendCmd(b Backend, send optimistic.Send) tea.Cmd {
	return func() tea.Msg {
		resp, err := b.SendMessage(context.Background(), send.Request)
		return SendResultMsg{
			LocalID:         send.LocalID,
			NewConversation: send.NewConversation(),
			Response:        resp,
			Err:             err,
		}
	}
}

func deleteConversationCmd(b Backend, id int64) tea.Cmd {
	return func() tea.Msg {
		return ConversationDeletedMsg{ID: id, Err: b.DeleteConversation(context.Background(), id)}
	}
}

func moveConversationCmd(b Backend, id int64, folderID *int64) tea.Cmd {
	return func() tea.Msg {
		return ConversationMovedMsg{ID: id, FolderID: folderID, Err: b.MoveConversation(context.Background(), id, folderID)}
	}
}

func createFolderCmd(b Backend, name string) tea.Cmd {
	return func() tea.Msg {
		f, err := b.CreateFolder(context.Background(), name)
		return FolderSavedMsg{Folder: f, Err: err}
	}
}

func renameFolderCmd(b Backend, folder model.Folder, name string) tea.Cmd {
	return func() tea.Msg {
		f, err := b.RenameFolder(context.Background(), folder, name)
		return FolderSavedMsg{Folder: f, Renamed: true, Err: err}
	}
}

func deleteFolderCmd(b Backend, id int64) tea.Cmd {
	return func() tea.Msg {
		return FolderDeletedMsg{ID: id, Err: b.DeleteFolder(context.Background(), id)}
	}
}

// copyFunc is swapped in tests; the system clipboard is not available there.
var copyFunc = clipboard.WriteAll

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardMsg{Err: copyFunc(text)}
	}
}
