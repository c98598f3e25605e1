// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want bool
	}{
		{"nil user", nil, false},
		{"plain user", &User{Username: "bob"}, false},
		{"admin flag", &User{IsAdminFlag: true}, true},
		{"staff", &User{IsStaff: true}, true},
		{"superuser", &User{IsSuperuser: true}, true},
		{"administrators group", &User{Groups: []string{"Editors", "Administrators"}}, true},
		{"other groups", &User{Groups: []string{"Editors"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.IsAdmin())
		})
	}
}

func TestUserDecodeLoginPayload(t *testing.T) {
	raw := `{"id":7,"username":"ana","email":"a@x.io","is_staff":false,"is_superuser":false,"is_admin":true,"groups":["Administrators"]}`
	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	assert.Equal(t, int64(7), u.ID)
	assert.True(t, u.IsAdminFlag)
	assert.True(t, u.IsAdmin())
	assert.Equal(t, "ana", u.DisplayName())
}

func TestRegistrationValidate(t *testing.T) {
	err := Registration{Username: " ", Password: "short"}.Validate()
	require.Error(t, err)
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.NotEmpty(t, verrs.Field("username"))
	assert.Contains(t, verrs.Field("password"), "8")

	assert.NoError(t, Registration{Username: "ana", Password: "longenough"}.Validate())
}

func TestCredentialsValidate(t *testing.T) {
	assert.Error(t, Credentials{}.Validate())
	assert.NoError(t, Credentials{Username: "a", Password: "b"}.Validate())
}

func TestMessageIDJSON(t *testing.T) {
	var id MessageID
	require.NoError(t, json.Unmarshal([]byte(`42`), &id))
	assert.Equal(t, ConfirmedID(42), id)
	assert.False(t, id.IsPending())

	require.NoError(t, json.Unmarshal([]byte(`"pending-abc"`), &id))
	assert.True(t, id.IsPending())
	assert.Equal(t, "pending-abc", id.String())

	require.NoError(t, json.Unmarshal([]byte(`"17"`), &id))
	assert.Equal(t, ConfirmedID(17), id)

	assert.Error(t, json.Unmarshal([]byte(`"garbage"`), &id))

	out, err := json.Marshal(ConfirmedID(9))
	require.NoError(t, err)
	assert.Equal(t, "9", string(out))
	out, err = json.Marshal(PendingID("pending-x"))
	require.NoError(t, err)
	assert.Equal(t, `"pending-x"`, string(out))
}

func TestNewPendingMessage(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	a := NewPendingMessage("Hello", now)
	b := NewPendingMessage("Hello", now)

	assert.True(t, a.IsPending())
	assert.True(t, strings.HasPrefix(a.ID.Local, PendingIDPrefix))
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, RoleHuman, a.Role)
	assert.Equal(t, now, a.CreatedAt)
	assert.False(t, a.Failed)
}

func TestMessageAuthor(t *testing.T) {
	assert.Equal(t, "You", Message{Role: RoleHuman}.Author())
	assert.Equal(t, "Agent", Message{Role: RoleAI}.Author())
	assert.Equal(t, "Helper", Message{Role: RoleAI, AgentName: "Helper"}.Author())
}

func TestSendMessageRequestOmitsConversation(t *testing.T) {
	out, err := json.Marshal(SendMessageRequest{Message: "Hello", AgentID: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Hello","agent_id":3}`, string(out))

	out, err = json.Marshal(SendMessageRequest{Message: "Hi", AgentID: 3, ConversationID: FolderRef(5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Hi","agent_id":3,"conversation_id":5}`, string(out))
}

func TestAgentInputValidate(t *testing.T) {
	valid := NewAgentInput("gpt-4o")
	valid.Name = "Helper"
	valid.SystemPrompt = "Be helpful."
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		mut   func(*AgentInput)
		field string
	}{
		{"missing name", func(in *AgentInput) { in.Name = "" }, "name"},
		{"missing model", func(in *AgentInput) { in.Model = "" }, "llm_model"},
		{"missing prompt", func(in *AgentInput) { in.SystemPrompt = " " }, "system_prompt"},
		{"temperature too high", func(in *AgentInput) { in.Temperature = 2.5 }, "temperature"},
		{"negative temperature", func(in *AgentInput) { in.Temperature = -0.1 }, "temperature"},
		{"zero tokens", func(in *AgentInput) { in.MaxTokens = 0 }, "max_tokens"},
		{"metier without first prompt", func(in *AgentInput) { in.Type = AgentTypeMetier }, "first_prompt"},
		{"unknown type", func(in *AgentInput) { in.Type = "robot" }, "agent_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mut(&in)
			err := in.Validate()
			require.Error(t, err)
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.NotEmpty(t, verrs.Field(tt.field))
		})
	}
}

func TestNewAgentInputDefaults(t *testing.T) {
	in := NewAgentInput("m")
	assert.Equal(t, 0.7, in.Temperature)
	assert.Equal(t, 2000, in.MaxTokens)
	assert.True(t, in.IsActive)
	assert.Equal(t, AgentTypeClient, in.Type)
}

func TestFilterAgents(t *testing.T) {
	agents := []Agent{
		{ID: 1, Type: AgentTypeMetier},
		{ID: 2},
		{ID: 3, Type: AgentTypeClient},
	}
	metier := FilterAgents(agents, AgentTypeMetier)
	require.Len(t, metier, 1)
	assert.Equal(t, int64(1), metier[0].ID)

	client := FilterAgents(agents, AgentTypeClient)
	require.Len(t, client, 2)
	assert.Equal(t, int64(2), client[0].ID)
}

func TestParseCategories(t *testing.T) {
	assert.Equal(t, []string{"sales", "support"}, ParseCategories(" sales, ,support,sales "))
	assert.Equal(t, []string{}, ParseCategories(""))
}

func TestConversationHelpers(t *testing.T) {
	c := Conversation{}
	assert.Equal(t, UntitledConversation, c.DisplayTitle())
	assert.True(t, c.IsUnfiled())

	c.FolderID = FolderRef(4)
	assert.True(t, c.InFolder(4))
	assert.False(t, c.InFolder(5))

	assert.True(t, SameFolder(nil, nil))
	assert.False(t, SameFolder(nil, FolderRef(1)))
	assert.True(t, SameFolder(FolderRef(1), FolderRef(1)))
}

func TestConversationDecodeNullFolder(t *testing.T) {
	var c Conversation
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"title":"","folder":null,"agents_details":[{"id":3,"name":"A"}]}`), &c))
	assert.True(t, c.IsUnfiled())
	a, ok := c.PrimaryAgent()
	require.True(t, ok)
	assert.Equal(t, int64(3), a.ID)
}

func TestAutoChatRequestValidate(t *testing.T) {
	req := AutoChatRequest{AgentAID: 1, AgentBID: 2, InitialMessage: "Bonjour", Iterations: DefaultAutoChatIterations}
	assert.NoError(t, req.Validate())

	req.Iterations = 21
	assert.Error(t, req.Validate())
	req.Iterations = 0
	assert.Error(t, req.Validate())
}

func TestNormalizeFolderName(t *testing.T) {
	name, err := NormalizeFolderName("  Work  ")
	require.NoError(t, err)
	assert.Equal(t, "Work", name)

	_, err = NormalizeFolderName("   ")
	assert.Error(t, err)
}
