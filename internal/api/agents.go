// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jeranaias/agentdesk/internal/model"
)

// ListAgents returns every agent visible to the session.
func (c *Client) ListAgents(ctx context.Context) ([]model.Agent, error) {
	var agents []model.Agent
	if err := c.getList(ctx, "load agents", "/agents/", &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// GetAgent fetches one agent with its full configuration.
func (c *Client) GetAgent(ctx context.Context, id int64) (*model.Agent, error) {
	var agent model.Agent
	if err := c.do(ctx, "load agent", http.MethodGet, fmt.Sprintf("/agents/%d/", id), nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// CreateAgent validates and creates an agent.
func (c *Client) CreateAgent(ctx context.Context, in model.AgentInput) (*model.Agent, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var agent model.Agent
	if err := c.do(ctx, "create agent", http.MethodPost, "/agents/", in, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// UpdateAgent validates and replaces an agent's configuration.
func (c *Client) UpdateAgent(ctx context.Context, id int64, in model.AgentInput) (*model.Agent, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var agent model.Agent
	if err := c.do(ctx, "update agent", http.MethodPut, fmt.Sprintf("/agents/%d/", id), in, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// DeleteAgent removes an agent.
func (c *Client) DeleteAgent(ctx context.Context, id int64) error {
	return c.do(ctx, "delete agent", http.MethodDelete, fmt.Sprintf("/agents/%d/", id), nil, nil)
}

// DuplicateAgent clones an agent server side and returns the copy.
func (c *Client) DuplicateAgent(ctx context.Context, id int64) (*model.Agent, error) {
	var agent model.Agent
	if err := c.do(ctx, "duplicate agent", http.MethodPost, fmt.Sprintf("/agents/%d/duplicate/", id), nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// AvailableModels lists selectable LLM identifiers, decoded with the
// configured contract.
func (c *Client) AvailableModels(ctx context.Context) ([]model.ModelOption, error) {
	const action = "load models"
	data, err := c.doRaw(ctx, action, http.MethodGet, "/agents/available-models/", nil)
	if err != nil {
		return nil, err
	}

	var models []model.ModelOption
	switch c.modelsContract {
	case ModelsArray:
		models, err = decodeModelsArray(data)
	default:
		models, err = decodeModelsMapping(data)
	}
	if err != nil {
		return nil, &Error{Action: action, Message: fmt.Sprintf("unexpected %s payload: %v", c.modelsContract, err)}
	}
	return models, nil
}
