// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package optimistic implements the optimistic send pipeline for chat
// messages.
//
// A send is split into three list transformations keyed on the pending
// message's local id:
//
//   - Begin appends a Pending human message and returns the request to send.
//     It performs no I/O.
//   - Settle replaces the Pending message in place with the confirmed user
//     message and appends the agent reply.
//   - Fail leaves the Pending message in the list, flagged as failed, so it
//     can be retried or discarded.
//
// Pipeline tracks the single in-flight send; a second Begin while one is in
// flight is refused rather than queued.
package optimistic

import (
	"errors"
	"strings"
	"time"

	"github.com/jeranaias/agentdesk/internal/model"
)

var (
	// ErrNoAgent means no agent is selected; nothing is sent.
	ErrNoAgent = errors.New("select an agent before sending")
	// ErrEmptyMessage means the text is blank after trimming.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrInFlight means a send is already outstanding.
	ErrInFlight = errors.New("a message is already being sent")
	// ErrNotFailed means Retry targeted a message that is not a failed pending one.
	ErrNotFailed = errors.New("message is not a failed pending message")
)

// Input is what the user submitted.
type Input struct {
	Text           string
	AgentID        int64
	ConversationID *int64
}

// Send is the network work produced by Begin or Retry.
type Send struct {
	LocalID string
	Request model.SendMessageRequest
}

// NewConversation reports whether the send will create a conversation, in
// which case the caller fetches it and refreshes the list after Settle.
func (s Send) NewConversation() bool {
	return s.Request.ConversationID == nil
}

// Pipeline is a value type; every method returns the updated pipeline.
type Pipeline struct {
	inFlight string
}

// Sending reports whether a send is outstanding.
func (p Pipeline) Sending() bool {
	return p.inFlight != ""
}

// InFlight returns the local id of the outstanding send, or "".
func (p Pipeline) InFlight() string {
	return p.inFlight
}

func (in Input) validate() (string, error) {
	if in.AgentID == 0 {
		return "", ErrNoAgent
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	return text, nil
}

func (in Input) request(text string) model.SendMessageRequest {
	req := model.SendMessageRequest{Message: text, AgentID: in.AgentID}
	if in.ConversationID != nil {
		id := *in.ConversationID
		req.ConversationID = &id
	}
	return req
}

// Begin appends exactly one pending message to messages and returns the send
// to perform. The input slice is not modified.
func (p Pipeline) Begin(messages []model.Message, in Input, now time.Time) (Pipeline, []model.Message, Send, error) {
	if p.Sending() {
		return p, messages, Send{}, ErrInFlight
	}
	text, err := in.validate()
	if err != nil {
		return p, messages, Send{}, err
	}

	pending := model.NewPendingMessage(text, now)
	if in.ConversationID != nil {
		pending.ConversationID = *in.ConversationID
	}

	out := make([]model.Message, len(messages), len(messages)+2)
	copy(out, messages)
	out = append(out, pending)

	send := Send{LocalID: pending.ID.Local, Request: in.request(text)}
	return Pipeline{inFlight: send.LocalID}, out, send, nil
}

// Settle reconciles a successful send. The pending message is replaced at its
// position by the confirmed user message and the agent reply is appended. If
// localID is no longer in the list the messages are returned unchanged.
func (p Pipeline) Settle(messages []model.Message, localID string, resp model.SendMessageResponse) (Pipeline, []model.Message) {
	p = p.release(localID)

	i := indexOf(messages, localID)
	if i < 0 {
		return p, messages
	}

	out := make([]model.Message, len(messages), len(messages)+1)
	copy(out, messages)
	out[i] = resp.UserMessage
	out = append(out, resp.AIMessage)
	return p, out
}

// Fail flags the pending message as failed. A missing localID is a no-op.
func (p Pipeline) Fail(messages []model.Message, localID string) (Pipeline, []model.Message) {
	p = p.release(localID)

	i := indexOf(messages, localID)
	if i < 0 {
		return p, messages
	}
	out := make([]model.Message, len(messages))
	copy(out, messages)
	out[i].Failed = true
	return p, out
}

// Retry re-sends a failed pending message, reusing its slot and local id.
// Agent and conversation come from in; in.Text is ignored.
func (p Pipeline) Retry(messages []model.Message, localID string, in Input) (Pipeline, []model.Message, Send, error) {
	if p.Sending() {
		return p, messages, Send{}, ErrInFlight
	}
	i := indexOf(messages, localID)
	if i < 0 || !messages[i].Failed {
		return p, messages, Send{}, ErrNotFailed
	}
	in.Text = messages[i].Content
	text, err := in.validate()
	if err != nil {
		return p, messages, Send{}, err
	}

	out := make([]model.Message, len(messages))
	copy(out, messages)
	out[i].Failed = false

	send := Send{LocalID: localID, Request: in.request(text)}
	return Pipeline{inFlight: localID}, out, send, nil
}

// Discard removes a pending message. Confirmed messages are never removed.
func Discard(messages []model.Message, localID string) []model.Message {
	i := indexOf(messages, localID)
	if i < 0 {
		return messages
	}
	out := make([]model.Message, 0, len(messages)-1)
	out = append(out, messages[:i]...)
	return append(out, messages[i+1:]...)
}

// LastFailed returns the local id of the most recent failed pending message.
func LastFailed(messages []model.Message) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].ID.IsPending() && messages[i].Failed {
			return messages[i].ID.Local, true
		}
	}
	return "", false
}

// PendingCount returns how many unconfirmed messages the list holds.
func PendingCount(messages []model.Message) int {
	n := 0
	for _, m := range messages {
		if m.ID.IsPending() {
			n++
		}
	}
	return n
}

func (p Pipeline) release(localID string) Pipeline {
	if p.inFlight == localID {
		return Pipeline{}
	}
	return p
}

func indexOf(messages []model.Message, localID string) int {
	if localID == "" {
		return -1
	}
	for i, m := range messages {
		if m.ID.Local == localID {
			return i
		}
	}
	return -1
}
