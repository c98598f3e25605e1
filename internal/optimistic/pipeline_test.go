// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package optimistic

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/agentdesk/internal/model"
)

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func history() []model.Message {
	return []model.Message{
		{ID: model.ConfirmedID(1), Role: model.RoleHuman, Content: "first"},
		{ID: model.ConfirmedID(2), Role: model.RoleAI, Content: "reply"},
	}
}

func response(text string) model.SendMessageResponse {
	return model.SendMessageResponse{
		ConversationID: 11,
		UserMessage:    model.Message{ID: model.ConfirmedID(100), Role: model.RoleHuman, Content: text},
		AIMessage:      model.Message{ID: model.ConfirmedID(101), Role: model.RoleAI, Content: "answer"},
	}
}

func containsID(messages []model.Message, localID string) bool {
	for _, m := range messages {
		if m.ID.Local == localID {
			return true
		}
	}
	return false
}

func TestBegin_AppendsExactlyOnePending(t *testing.T) {
	inputs := []string{"Hello", "  padded  ", "multi\nline", "日本語"}
	for _, text := range inputs {
		t.Run(text, func(t *testing.T) {
			before := history()
			p, after, send, err := Pipeline{}.Begin(before, Input{Text: text, AgentID: 3}, now)
			require.NoError(t, err)

			require.Len(t, after, len(before)+1)
			assert.Len(t, before, 2, "input slice must not grow")
			last := after[len(after)-1]
			assert.True(t, last.ID.IsPending())
			assert.Equal(t, send.LocalID, last.ID.Local)
			assert.Equal(t, model.RoleHuman, last.Role)
			assert.Equal(t, now, last.CreatedAt)
			assert.Equal(t, 1, PendingCount(after))
			assert.True(t, p.Sending())
		})
	}
}

func TestBegin_RequestWithoutConversation(t *testing.T) {
	_, _, send, err := Pipeline{}.Begin(nil, Input{Text: "Hello", AgentID: 3}, now)
	require.NoError(t, err)
	assert.Equal(t, model.SendMessageRequest{Message: "Hello", AgentID: 3}, send.Request)
	assert.Nil(t, send.Request.ConversationID)
	assert.True(t, send.NewConversation())
}

func TestBegin_RequestWithConversation(t *testing.T) {
	conv := int64(11)
	_, msgs, send, err := Pipeline{}.Begin(nil, Input{Text: "Hi", AgentID: 3, ConversationID: &conv}, now)
	require.NoError(t, err)
	require.NotNil(t, send.Request.ConversationID)
	assert.Equal(t, int64(11), *send.Request.ConversationID)
	assert.False(t, send.NewConversation())
	assert.Equal(t, int64(11), msgs[0].ConversationID)

	conv = 99
	assert.Equal(t, int64(11), *send.Request.ConversationID, "request must not alias the caller's id")
}

func TestBegin_Preconditions(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"no agent", Input{Text: "Hello"}, ErrNoAgent},
		{"empty", Input{Text: "", AgentID: 3}, ErrEmptyMessage},
		{"whitespace", Input{Text: " \n\t ", AgentID: 3}, ErrEmptyMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := history()
			p, after, _, err := Pipeline{}.Begin(before, tt.in, now)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, after)
			assert.False(t, p.Sending())
		})
	}
}

func TestBegin_RefusedWhileInFlight(t *testing.T) {
	p, msgs, _, err := Pipeline{}.Begin(nil, Input{Text: "one", AgentID: 3}, now)
	require.NoError(t, err)

	p2, msgs2, _, err := p.Begin(msgs, Input{Text: "two", AgentID: 3}, now)
	assert.ErrorIs(t, err, ErrInFlight)
	assert.Equal(t, msgs, msgs2)
	assert.Equal(t, p, p2)
}

func TestSettle_GrowsByTwoAndRemovesTempID(t *testing.T) {
	for n := 0; n < 4; n++ {
		t.Run(fmt.Sprintf("history_%d", n), func(t *testing.T) {
			before := make([]model.Message, 0, n)
			for i := 0; i < n; i++ {
				before = append(before, model.Message{ID: model.ConfirmedID(int64(i + 1))})
			}

			p, pending, send, err := Pipeline{}.Begin(before, Input{Text: "Hello", AgentID: 3}, now)
			require.NoError(t, err)

			p, settled := p.Settle(pending, send.LocalID, response("Hello"))
			assert.Len(t, settled, len(before)+2)
			assert.False(t, containsID(settled, send.LocalID))
			assert.Equal(t, 0, PendingCount(settled))
			assert.Equal(t, model.ConfirmedID(100), settled[n].ID, "confirmation replaces in place")
			assert.Equal(t, model.ConfirmedID(101), settled[n+1].ID, "reply appends after")
			assert.False(t, p.Sending())
		})
	}
}

func TestSettle_PreservesPositionWithLaterMessages(t *testing.T) {
	p, msgs, send, err := Pipeline{}.Begin(history(), Input{Text: "Hello", AgentID: 3}, now)
	require.NoError(t, err)
	msgs = append(msgs, model.Message{ID: model.ConfirmedID(50), Role: model.RoleSystem})

	_, settled := p.Settle(msgs, send.LocalID, response("Hello"))
	require.Len(t, settled, 5)
	assert.Equal(t, model.ConfirmedID(100), settled[2].ID)
	assert.Equal(t, model.ConfirmedID(50), settled[3].ID)
	assert.Equal(t, model.ConfirmedID(101), settled[4].ID)
}

func TestSettleAndFail_MissingTargetIsNoop(t *testing.T) {
	p, _, send, err := Pipeline{}.Begin(history(), Input{Text: "Hello", AgentID: 3}, now)
	require.NoError(t, err)

	reset := history()
	p1, got := p.Settle(reset, send.LocalID, response("Hello"))
	assert.Equal(t, reset, got)
	assert.False(t, p1.Sending())

	p2, got := p.Fail(reset, send.LocalID)
	assert.Equal(t, reset, got)
	assert.False(t, p2.Sending())
}

func TestFail_FlagsAndKeepsMessage(t *testing.T) {
	p, msgs, send, err := Pipeline{}.Begin(history(), Input{Text: "Hello", AgentID: 3}, now)
	require.NoError(t, err)

	p, failed := p.Fail(msgs, send.LocalID)
	require.Len(t, failed, 3)
	assert.True(t, failed[2].Failed)
	assert.True(t, failed[2].ID.IsPending())
	assert.False(t, msgs[2].Failed, "input slice must not be mutated")
	assert.False(t, p.Sending())

	id, ok := LastFailed(failed)
	require.True(t, ok)
	assert.Equal(t, send.LocalID, id)
}

func TestRetry_ReusesSlot(t *testing.T) {
	conv := int64(11)
	in := Input{Text: "Hello", AgentID: 3, ConversationID: &conv}
	p, msgs, send, err := Pipeline{}.Begin(history(), in, now)
	require.NoError(t, err)
	p, msgs = p.Fail(msgs, send.LocalID)

	p, retried, resend, err := p.Retry(msgs, send.LocalID, Input{AgentID: 3, ConversationID: &conv})
	require.NoError(t, err)
	assert.Equal(t, send.LocalID, resend.LocalID)
	assert.Equal(t, "Hello", resend.Request.Message)
	assert.Len(t, retried, 3)
	assert.False(t, retried[2].Failed)
	assert.True(t, p.Sending())

	_, settled := p.Settle(retried, resend.LocalID, response("Hello"))
	assert.Len(t, settled, 4)
}

func TestRetry_Errors(t *testing.T) {
	p, msgs, send, err := Pipeline{}.Begin(history(), Input{Text: "Hello", AgentID: 3}, now)
	require.NoError(t, err)

	_, _, _, err = p.Retry(msgs, send.LocalID, Input{AgentID: 3})
	assert.ErrorIs(t, err, ErrInFlight)

	_, msgs = p.Fail(msgs, send.LocalID)
	_, _, _, err = Pipeline{}.Retry(msgs, "pending-unknown", Input{AgentID: 3})
	assert.ErrorIs(t, err, ErrNotFailed)

	_, _, _, err = Pipeline{}.Retry(msgs, send.LocalID, Input{})
	assert.ErrorIs(t, err, ErrNoAgent)
}

func TestDiscard(t *testing.T) {
	p, msgs, send, err := Pipeline{}.Begin(history(), Input{Text: "Hello", AgentID: 3}, now)
	require.NoError(t, err)
	_, msgs = p.Fail(msgs, send.LocalID)

	out := Discard(msgs, send.LocalID)
	assert.Equal(t, history(), out)
	assert.Len(t, msgs, 3)

	assert.Equal(t, out, Discard(out, "pending-gone"))
}
