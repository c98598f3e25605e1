// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jeranaias/agentdesk/internal/model"
)

// ListConversations returns the session user's conversations.
func (c *Client) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	var convs []model.Conversation
	if err := c.getList(ctx, "load conversations", "/chat/conversations/", &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

// GetConversation fetches a conversation with its messages and agent details.
func (c *Client) GetConversation(ctx context.Context, id int64) (*model.Conversation, error) {
	var conv model.Conversation
	if err := c.do(ctx, "load conversation", http.MethodGet, fmt.Sprintf("/chat/conversations/%d/", id), nil, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// DeleteConversation removes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, id int64) error {
	return c.do(ctx, "delete conversation", http.MethodDelete, fmt.Sprintf("/chat/conversations/%d/", id), nil, nil)
}

// SendMessage posts a human message and waits for the agent's reply.
func (c *Client) SendMessage(ctx context.Context, req model.SendMessageRequest) (*model.SendMessageResponse, error) {
	var resp model.SendMessageResponse
	if err := c.do(ctx, "send message", http.MethodPost, "/chat/conversations/send_message/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AutoChat launches an agent-to-agent exchange. The backend runs it
// asynchronously and answers 202 with a task id.
func (c *Client) AutoChat(ctx context.Context, req model.AutoChatRequest) (*model.AutoChatStarted, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var started model.AutoChatStarted
	if err := c.do(ctx, "launch auto-chat", http.MethodPost, "/chat/conversations/auto_chat/", req, &started); err != nil {
		return nil, err
	}
	return &started, nil
}

type moveRequest struct {
	FolderID *int64 `json:"folder_id"`
}

// MoveConversation files a conversation into folderID, or unfiles it when
// folderID is nil.
func (c *Client) MoveConversation(ctx context.Context, id int64, folderID *int64) error {
	return c.do(ctx, "move conversation", http.MethodPost,
		fmt.Sprintf("/chat/conversations/%d/move_to_folder/", id), moveRequest{FolderID: folderID}, nil)
}
