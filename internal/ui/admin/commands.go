// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/agentdesk/internal/model"
)

// Backend is the part of the API client the admin screens use.
type Backend interface {
	ListAgents(ctx context.Context) ([]model.Agent, error)
	CreateAgent(ctx context.Context, in model.AgentInput) (*model.Agent, error)
	UpdateAgent(ctx context.Context, id int64, in model.AgentInput) (*model.Agent, error)
	DeleteAgent(ctx context.Context, id int64) error
	DuplicateAgent(ctx context.Context, id int64) (*model.Agent, error)
	AvailableModels(ctx context.Context) ([]model.ModelOption, error)
	AutoChat(ctx context.Context, req model.AutoChatRequest) (*model.AutoChatStarted, error)
}

// =============================================================================
// RESULT MESSAGES
// =============================================================================

// AgentsLoadedMsg carries the refreshed agent list.
type AgentsLoadedMsg struct {
	Agents []model.Agent
	Err    error
}

// ModelsLoadedMsg carries the selectable LLM identifiers.
type ModelsLoadedMsg struct {
	Models []model.ModelOption
	Err    error
}

// AgentSavedMsg reports a create or update. ID is 0 for a create.
type AgentSavedMsg struct {
	ID    int64
	Agent *model.Agent
	Err   error
}

// AgentDeletedMsg reports a deletion.
type AgentDeletedMsg struct {
	ID  int64
	Err error
}

// AgentDuplicatedMsg reports a duplication.
type AgentDuplicatedMsg struct {
	SourceID int64
	Agent    *model.Agent
	Err      error
}

// AutoChatStartedMsg reports an auto-chat launch. The router reloads the
// conversation list when it sees one without an error.
type AutoChatStartedMsg struct {
	Started *model.AutoChatStarted
	Err     error
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

func loadAgentsCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		agents, err := b.ListAgents(context.Background())
		return AgentsLoadedMsg{Agents: agents, Err: err}
	}
}

func loadModelsCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		models, err := b.AvailableModels(context.Background())
		return ModelsLoadedMsg{Models: models, Err: err}
	}
}

func saveAgentCmd(b Backend, id int64, in model.AgentInput) tea.Cmd {
	return func() tea.Msg {
		var (
			agent *model.Agent
			err   error
		)
		if id == 0 {
			agent, err = b.CreateAgent(context.Background(), in)
		} else {
			agent, err = b.UpdateAgent(context.Background(), id, in)
		}
		return AgentSavedMsg{ID: id, Agent: agent, Err: err}
	}
}

func deleteAgentCmd(b Backend, id int64) tea.Cmd {
	return func() tea.Msg {
		return AgentDeletedMsg{ID: id, Err: b.DeleteAgent(context.Background(), id)}
	}
}

func duplicateAgentCmd(b Backend, id int64) tea.Cmd {
	return func() tea.Msg {
		agent, err := b.DuplicateAgent(context.Background(), id)
		return AgentDuplicatedMsg{SourceID: id, Agent: agent, Err: err}
	}
}

func autoChatCmd(b Backend, req model.AutoChatRequest) tea.Cmd {
	return func() tea.Msg {
		started, err := b.AutoChat(context.Background(), req)
		return AutoChatStartedMsg{Started: started, Err: err}
	}
}
