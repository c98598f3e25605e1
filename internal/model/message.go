// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE
// =============================================================================

// Role identifies the author of a message.
type Role string

const (
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
)

// DisplayName returns the label shown above a message.
func (r Role) DisplayName() string {
	switch r {
	case RoleHuman:
		return "You"
	case RoleAI:
		return "Agent"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE ID
// =============================================================================

// PendingIDPrefix marks locally generated message ids. Server ids are integers,
// so a prefixed id can never collide with one.
const PendingIDPrefix = "pending-"

// MessageID is either Pending (Local set) or Confirmed (Server set).
type MessageID struct {
	Local  string
	Server int64
}

// PendingID wraps a local id.
func PendingID(local string) MessageID {
	return MessageID{Local: local}
}

// ConfirmedID wraps a server id.
func ConfirmedID(id int64) MessageID {
	return MessageID{Server: id}
}

// NewLocalID returns a fresh pending id.
func NewLocalID() string {
	return PendingIDPrefix + uuid.NewString()
}

// IsPending reports whether the id was generated locally.
func (id MessageID) IsPending() bool {
	return id.Local != ""
}

// IsZero reports whether the id is unset.
func (id MessageID) IsZero() bool {
	return id.Local == "" && id.Server == 0
}

func (id MessageID) String() string {
	if id.IsPending() {
		return id.Local
	}
	return strconv.FormatInt(id.Server, 10)
}

// MarshalJSON encodes confirmed ids as numbers and pending ids as strings.
func (id MessageID) MarshalJSON() ([]byte, error) {
	if id.IsPending() {
		return json.Marshal(id.Local)
	}
	return []byte(strconv.FormatInt(id.Server, 10)), nil
}

// UnmarshalJSON accepts a number, a numeric string, or a pending string.
func (id *MessageID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = MessageID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.HasPrefix(s, PendingIDPrefix) {
			*id = PendingID(s)
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid message id %q", s)
		}
		*id = ConfirmedID(n)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid message id %s", data)
	}
	*id = ConfirmedID(n)
	return nil
}

// =============================================================================
// MESSAGE
// =============================================================================

// Message is a single chat message.
type Message struct {
	ID             MessageID       `json:"id"`
	ConversationID int64           `json:"conversation,omitempty"`
	Role           Role            `json:"role"`
	Content        string          `json:"content"`
	AgentID        *int64          `json:"agent,omitempty"`
	AgentName      string          `json:"agent_name,omitempty"`
	IsAutoChat     bool            `json:"is_auto_chat,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`

	// Failed is set locally when the send carrying this pending message failed.
	Failed bool `json:"-"`
}

// NewPendingMessage synthesizes an optimistic human message.
func NewPendingMessage(content string, now time.Time) Message {
	return Message{
		ID:        PendingID(NewLocalID()),
		Role:      RoleHuman,
		Content:   content,
		CreatedAt: now,
	}
}

// IsPending reports whether the message awaits confirmation.
func (m Message) IsPending() bool {
	return m.ID.IsPending()
}

// Author returns the label for the message header.
func (m Message) Author() string {
	if m.Role == RoleAI && m.AgentName != "" {
		return m.AgentName
	}
	return m.Role.DisplayName()
}

// SendMessageRequest is the body of the send-message call. ConversationID is
// omitted when a new conversation should be created.
type SendMessageRequest struct {
	Message        string `json:"message"`
	AgentID        int64  `json:"agent_id"`
	ConversationID *int64 `json:"conversation_id,omitempty"`
}

// SendMessageResponse carries the confirmed user message and the agent reply.
type SendMessageResponse struct {
	UserMessage    Message `json:"user_message"`
	AIMessage      Message `json:"ai_message"`
	ConversationID int64   `json:"conversation_id"`
}
