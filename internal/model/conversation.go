// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// UntitledConversation is shown for conversations without a title.
const UntitledConversation = "Untitled"

// ConversationType distinguishes user chats from agent-to-agent runs.
type ConversationType string

const (
	ConversationTypeUser ConversationType = "user"
	ConversationTypeAuto ConversationType = "auto"
)

// LastMessage is the list-view preview of a conversation's newest message.
type LastMessage struct {
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is both the list entry and the detail record. Messages is only
// populated by the detail endpoint.
type Conversation struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	Type         ConversationType `json:"conversation_type,omitempty"`
	FolderID     *int64           `json:"folder"`
	FolderName   string           `json:"folder_name,omitempty"`
	AgentIDs     []int64          `json:"agents,omitempty"`
	Agents       []Agent          `json:"agents_details,omitempty"`
	Messages     []Message        `json:"messages,omitempty"`
	MessageCount int              `json:"message_count"`
	LastMessage  *LastMessage     `json:"last_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// DisplayTitle returns the title or the untitled placeholder.
func (c Conversation) DisplayTitle() string {
	if c.Title == "" {
		return UntitledConversation
	}
	return c.Title
}

// IsUnfiled reports whether the conversation has no folder.
func (c Conversation) IsUnfiled() bool {
	return c.FolderID == nil
}

// InFolder reports whether the conversation belongs to the folder id.
func (c Conversation) InFolder(id int64) bool {
	return c.FolderID != nil && *c.FolderID == id
}

// PrimaryAgent returns the first associated agent, if any.
func (c Conversation) PrimaryAgent() (Agent, bool) {
	if len(c.Agents) == 0 {
		return Agent{}, false
	}
	return c.Agents[0], true
}

// FolderRef returns a pointer to a copy of id, for nullable folder fields.
func FolderRef(id int64) *int64 {
	return &id
}

// SameFolder compares two nullable folder references.
func SameFolder(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// AutoChatRequest launches a scripted exchange between two agents.
type AutoChatRequest struct {
	AgentAID       int64  `json:"agent_a_id"`
	AgentBID       int64  `json:"agent_b_id"`
	InitialMessage string `json:"initial_message"`
	Iterations     int    `json:"iterations"`
}

// Auto-chat iteration bounds offered by the form.
const (
	MinAutoChatIterations     = 1
	MaxAutoChatIterations     = 20
	DefaultAutoChatIterations = 5
)

// Validate checks the form before it is sent.
func (r AutoChatRequest) Validate() error {
	var errs ValidationErrors
	if r.AgentAID == 0 {
		errs = append(errs, ValidationError{Field: "agent_a_id", Message: "select a metier agent"})
	}
	if r.AgentBID == 0 {
		errs = append(errs, ValidationError{Field: "agent_b_id", Message: "select a client agent"})
	}
	if r.InitialMessage == "" {
		errs = append(errs, ValidationError{Field: "initial_message", Message: "initial message is required"})
	}
	if r.Iterations < MinAutoChatIterations || r.Iterations > MaxAutoChatIterations {
		errs = append(errs, ValidationError{Field: "iterations", Message: "iterations must be between 1 and 20"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AutoChatStarted is the backend acknowledgement of an auto-chat launch.
type AutoChatStarted struct {
	Status  string `json:"status"`
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}
