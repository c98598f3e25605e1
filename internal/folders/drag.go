// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package folders

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DragPayload is what a grabbed conversation carries until it is dropped.
type DragPayload struct {
	ConversationID int64 `json:"conversation_id"`
}

// ErrInvalidPayload is returned for payloads that do not name a conversation.
var ErrInvalidPayload = errors.New("invalid drag payload")

// Encode serializes the payload.
func (p DragPayload) Encode() ([]byte, error) {
	if p.ConversationID <= 0 {
		return nil, ErrInvalidPayload
	}
	return json.Marshal(p)
}

// DecodeDragPayload parses a payload produced by Encode.
func DecodeDragPayload(data []byte) (DragPayload, error) {
	var p DragPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return DragPayload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.ConversationID <= 0 {
		return DragPayload{}, ErrInvalidPayload
	}
	return p, nil
}

// Drop is the move a completed drag requests.
type Drop struct {
	ConversationID int64
	// FolderID is nil for a drop on Unfiled.
	FolderID *int64
}

// DropOn resolves a payload dropped on a group.
func DropOn(data []byte, target Group) (Drop, error) {
	p, err := DecodeDragPayload(data)
	if err != nil {
		return Drop{}, err
	}
	return Drop{ConversationID: p.ConversationID, FolderID: target.Target()}, nil
}
