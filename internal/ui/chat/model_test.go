// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jeranaias/agentdesk/internal/api"
	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/store"
	"github.com/jeranaias/agentdesk/internal/ui/components"
	"github.com/jeranaias/agentdesk/internal/ui/styles"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

type fakeBackend struct {
	agents        []model.Agent
	conversations []model.Conversation
	folders       []model.Folder
	byID          map[int64]model.Conversation

	sendResp *model.SendMessageResponse
	sendErr  error
	moveErr  error

	sent    []model.SendMessageRequest
	moved   []int64
	deleted []int64
	fetched []int64
	created []string
	renamed []string
}

func (f *fakeBackend) ListAgents(context.Context) ([]model.Agent, error) {
	return f.agents, nil
}

func (f *fakeBackend) ListConversations(context.Context) ([]model.Conversation, error) {
	return f.conversations, nil
}

func (f *fakeBackend) GetConversation(_ context.Context, id int64) (*model.Conversation, error) {
	f.fetched = append(f.fetched, id)
	c, ok := f.byID[id]
	if !ok {
		return nil, &api.Error{Action: "load conversation", Status: 404, Message: "Not found."}
	}
	return &c, nil
}

func (f *fakeBackend) DeleteConversation(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) SendMessage(_ context.Context, req model.SendMessageRequest) (*model.SendMessageResponse, error) {
	f.sent = append(f.sent, req)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return f.sendResp, nil
}

func (f *fakeBackend) MoveConversation(_ context.Context, id int64, _ *int64) error {
	f.moved = append(f.moved, id)
	return f.moveErr
}

func (f *fakeBackend) ListFolders(context.Context) ([]model.Folder, error) {
	return f.folders, nil
}

func (f *fakeBackend) CreateFolder(_ context.Context, name string) (*model.Folder, error) {
	f.created = append(f.created, name)
	return &model.Folder{ID: 99, Name: name}, nil
}

func (f *fakeBackend) RenameFolder(_ context.Context, folder model.Folder, name string) (*model.Folder, error) {
	f.renamed = append(f.renamed, name)
	folder.Name = name
	return &folder, nil
}

func (f *fakeBackend) DeleteFolder(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestModel(b *fakeBackend) Model {
	m := New(Options{
		Backend: b,
		Theme:   styles.NewTheme(styles.ModeDark),
		Lang:    language.English,
		Now:     func() time.Time { return fixedNow },
	})
	m, _, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40}, store.New())
	return m
}

// collect runs cmd and any batched commands, returning the produced messages.
// Spinner ticks are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if _, ok := msg.(spinner.TickMsg); ok {
		return nil
	}
	return []tea.Msg{msg}
}

// feed applies every message produced by cmd and returns the follow-up
// commands' messages.
func feed(t *testing.T, m Model, st store.State, cmd tea.Cmd) (Model, store.State, []tea.Msg) {
	t.Helper()
	var followups []tea.Msg
	for _, msg := range collect(cmd) {
		var next tea.Cmd
		m, st, next = m.Update(msg, st)
		followups = append(followups, collect(next)...)
	}
	return m, st, followups
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func helperAgent() model.Agent {
	return model.Agent{ID: 3, Name: "Helper", Type: model.AgentTypeClient, IsActive: true}
}

// =============================================================================
// SENDING
// =============================================================================

func TestSendCreatesConversation(t *testing.T) {
	b := &fakeBackend{
		sendResp: &model.SendMessageResponse{
			ConversationID: 42,
			UserMessage:    model.Message{ID: model.ConfirmedID(100), Role: model.RoleHuman, Content: "Hello"},
			AIMessage:      model.Message{ID: model.ConfirmedID(101), Role: model.RoleAI, Content: "Hi there", AgentName: "Helper"},
		},
		byID: map[int64]model.Conversation{
			42: {ID: 42, Title: "Hello", Agents: []model.Agent{helperAgent()}},
		},
		conversations: []model.Conversation{{ID: 42, Title: "Hello"}},
	}
	b.byID[42] = model.Conversation{
		ID:     42,
		Title:  "Hello",
		Agents: []model.Agent{helperAgent()},
		Messages: []model.Message{
			b.sendResp.UserMessage, b.sendResp.AIMessage,
		},
	}
	m := newTestModel(b)
	st := store.New().WithAgents([]model.Agent{helperAgent()}).SelectAgent(3)

	m.input.SetValue("Hello")
	m, st, cmd := m.Update(keyEnter, st)

	require.Len(t, st.Messages, 1)
	assert.True(t, st.Messages[0].IsPending())
	assert.Equal(t, "Hello", st.Messages[0].Content)
	assert.True(t, m.Sending())
	assert.Empty(t, m.InputValue())

	m, st, followups := feed(t, m, st, cmd)

	require.Len(t, b.sent, 1)
	assert.Equal(t, int64(3), b.sent[0].AgentID)
	assert.Nil(t, b.sent[0].ConversationID)
	require.Len(t, st.Messages, 2)
	assert.Equal(t, model.ConfirmedID(100), st.Messages[0].ID)
	assert.Equal(t, "Hi there", st.Messages[1].Content)
	assert.False(t, m.Sending())

	// The new conversation is fetched and the list refreshed.
	require.Len(t, followups, 2)
	for _, msg := range followups {
		m, st, _ = m.Update(msg, st)
	}
	assert.Equal(t, []int64{42}, b.fetched)
	require.NotNil(t, st.CurrentConversation)
	assert.Equal(t, int64(42), st.CurrentConversation.ID)
	assert.Len(t, st.Conversations, 1)
	assert.Len(t, st.Messages, 2)
}

func TestSendInExistingConversation(t *testing.T) {
	b := &fakeBackend{
		sendResp: &model.SendMessageResponse{
			ConversationID: 7,
			UserMessage:    model.Message{ID: model.ConfirmedID(5), Role: model.RoleHuman, Content: "more"},
			AIMessage:      model.Message{ID: model.ConfirmedID(6), Role: model.RoleAI, Content: "ok"},
		},
	}
	m := newTestModel(b)
	st := store.New().WithAgents([]model.Agent{helperAgent()})
	st = st.WithCurrentConversation(model.Conversation{ID: 7, Agents: []model.Agent{helperAgent()}})

	m.input.SetValue("more")
	m, st, cmd := m.Update(keyEnter, st)
	_, st, followups := feed(t, m, st, cmd)

	require.Len(t, b.sent, 1)
	require.NotNil(t, b.sent[0].ConversationID)
	assert.Equal(t, int64(7), *b.sent[0].ConversationID)
	assert.Len(t, st.Messages, 2)
	assert.Empty(t, followups)
	assert.Empty(t, b.fetched)
}

func TestSendWithoutAgentOpensPicker(t *testing.T) {
	b := &fakeBackend{}
	m := newTestModel(b)
	st := store.New().WithAgents([]model.Agent{helperAgent()})

	m.input.SetValue("Hi")
	m, st, cmd := m.Update(keyEnter, st)

	assert.Nil(t, cmd)
	assert.Empty(t, st.Messages)
	assert.Equal(t, FocusPicker, m.Focus())
	assert.Equal(t, "Hi", m.InputValue())

	m, st, _ = m.Update(keyEnter, st)
	assert.Equal(t, FocusInput, m.Focus())
	assert.Equal(t, int64(3), st.SelectedAgentID())
	assert.Empty(t, b.sent)
}

func TestSendEmptyIsIgnored(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	st := store.New().WithAgents([]model.Agent{helperAgent()}).SelectAgent(3)

	m.input.SetValue("   ")
	_, st, cmd := m.Update(keyEnter, st)
	assert.Nil(t, cmd)
	assert.Empty(t, st.Messages)
}

func TestSendFailureRetryAndDiscard(t *testing.T) {
	b := &fakeBackend{sendErr: &api.Error{Action: "send message", Status: 500, Message: "boom"}}
	m := newTestModel(b)
	st := store.New().WithAgents([]model.Agent{helperAgent()}).SelectAgent(3)

	m.input.SetValue("Hello")
	m, st, cmd := m.Update(keyEnter, st)
	m, st, followups := feed(t, m, st, cmd)

	require.Len(t, st.Messages, 1)
	assert.True(t, st.Messages[0].Failed)
	assert.False(t, m.Sending())
	require.Len(t, followups, 1)
	failure, ok := followups[0].(components.FailureMsg)
	require.True(t, ok)
	assert.Equal(t, "send message", failure.Action)

	// Retry resends the same local message.
	b.sendErr = nil
	b.sendResp = &model.SendMessageResponse{
		ConversationID: 9,
		UserMessage:    model.Message{ID: model.ConfirmedID(1), Role: model.RoleHuman, Content: "Hello"},
		AIMessage:      model.Message{ID: model.ConfirmedID(2), Role: model.RoleAI, Content: "Hey"},
	}
	m, st, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR}, st)
	require.NotNil(t, cmd)
	assert.False(t, st.Messages[0].Failed)
	assert.True(t, m.Sending())

	// Fail again, then discard.
	b.sendErr = errors.New("offline")
	m, st, _ = feed(t, m, st, cmd)
	require.Len(t, st.Messages, 1)
	assert.True(t, st.Messages[0].Failed)

	_, st, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX}, st)
	assert.Empty(t, st.Messages)
	assert.Len(t, b.sent, 2)
}

func TestSettleAfterConversationSwitchIsIgnored(t *testing.T) {
	b := &fakeBackend{
		sendResp: &model.SendMessageResponse{
			ConversationID: 42,
			UserMessage:    model.Message{ID: model.ConfirmedID(1), Role: model.RoleHuman, Content: "Hello"},
			AIMessage:      model.Message{ID: model.ConfirmedID(2), Role: model.RoleAI, Content: "Hi"},
		},
	}
	m := newTestModel(b)
	st := store.New().WithAgents([]model.Agent{helperAgent()}).SelectAgent(3)

	m.input.SetValue("Hello")
	m, st, cmd := m.Update(keyEnter, st)

	// The user opened another conversation before the reply arrived.
	st = st.WithCurrentConversation(model.Conversation{ID: 8, Title: "Other"})
	m, st, followups := feed(t, m, st, cmd)

	assert.Empty(t, st.Messages)
	assert.Equal(t, int64(8), st.CurrentConversation.ID)
	assert.Empty(t, b.fetched)
	require.Len(t, followups, 1)
	assert.IsType(t, ConversationsLoadedMsg{}, followups[0])
	assert.False(t, m.Sending())
}

func TestNewConversationListedAfterStartingAnother(t *testing.T) {
	b := &fakeBackend{
		sendResp: &model.SendMessageResponse{
			ConversationID: 42,
			UserMessage:    model.Message{ID: model.ConfirmedID(1), Role: model.RoleHuman, Content: "Hello"},
			AIMessage:      model.Message{ID: model.ConfirmedID(2), Role: model.RoleAI, Content: "Hi"},
		},
		conversations: []model.Conversation{{ID: 42, Title: "Hello"}},
	}
	m := newTestModel(b)
	st := store.New().WithAgents([]model.Agent{helperAgent()}).SelectAgent(3)

	m.input.SetValue("Hello")
	m, st, cmd := m.Update(keyEnter, st)
	require.Len(t, st.Messages, 1)

	m, st, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN}, st)
	require.Empty(t, st.Messages)

	m, st, followups := feed(t, m, st, cmd)
	require.Len(t, b.sent, 1)
	assert.Empty(t, b.fetched)
	assert.Nil(t, st.CurrentConversation)
	assert.Empty(t, st.Messages)

	for _, msg := range followups {
		m, st, _ = m.Update(msg, st)
	}
	require.Len(t, st.Conversations, 1)
	assert.Equal(t, int64(42), st.Conversations[0].ID)
	assert.Nil(t, st.CurrentConversation)
}

// =============================================================================
// SIDEBAR
// =============================================================================

func sidebarState() store.State {
	st := store.New().WithAgents([]model.Agent{helperAgent()})
	st = st.WithFolders([]model.Folder{{ID: 1, Name: "Work", ConversationsCount: 1}})
	return st.WithConversations([]model.Conversation{
		{ID: 11, Title: "Filed", FolderID: model.FolderRef(1), FolderName: "Work"},
		{ID: 10, Title: "Loose"},
	})
}

func TestGrabAndDropMovesConversation(t *testing.T) {
	b := &fakeBackend{}
	m := newTestModel(b)
	st := sidebarState()

	m, st, _ = m.Update(keyTab, st)
	require.Equal(t, FocusSidebar, m.Focus())

	// Rows: Work, Filed, Unfiled, Loose.
	for i := 0; i < 3; i++ {
		m, st, _ = m.Update(keyDown, st)
	}
	m, st, _ = m.Update(keyRunes("m"), st)
	require.True(t, m.sidebar.grabbing())

	for i := 0; i < 3; i++ {
		m, st, _ = m.Update(keyUp, st)
	}
	m, st, cmd := m.Update(keyRunes("m"), st)
	require.NotNil(t, cmd)
	assert.False(t, m.sidebar.grabbing())

	_, st, followups := feed(t, m, st, cmd)
	assert.Equal(t, []int64{10}, b.moved)

	conv, ok := st.FindConversation(10)
	require.True(t, ok)
	require.NotNil(t, conv.FolderID)
	assert.Equal(t, int64(1), *conv.FolderID)
	assert.Equal(t, "Work", conv.FolderName)
	assert.Equal(t, 2, st.Folders[0].ConversationsCount)

	require.Len(t, followups, 1)
	notice, ok := followups[0].(components.NoticeMsg)
	require.True(t, ok)
	assert.Equal(t, "Moved to Work", notice.Text)
}

func TestDropOnSameFolderIsNoop(t *testing.T) {
	b := &fakeBackend{}
	m := newTestModel(b)
	st := sidebarState()

	m, st, _ = m.Update(keyTab, st)
	m, st, _ = m.Update(keyDown, st) // Filed
	m, st, _ = m.Update(keyRunes("m"), st)
	m, st, _ = m.Update(keyUp, st) // Work header
	_, _, cmd := m.Update(keyRunes("m"), st)

	assert.Nil(t, cmd)
	assert.Empty(t, b.moved)
}

func TestMoveFailureKeepsState(t *testing.T) {
	b := &fakeBackend{moveErr: errors.New("nope")}
	m := newTestModel(b)
	st := sidebarState()

	_, next, cmd := m.Update(ConversationMovedMsg{ID: 10, FolderID: model.FolderRef(1), Err: b.moveErr}, st)
	conv, _ := next.FindConversation(10)
	assert.Nil(t, conv.FolderID)
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	assert.IsType(t, components.FailureMsg{}, msgs[0])
}

func TestOpenConversationSelectsAgent(t *testing.T) {
	other := model.Agent{ID: 5, Name: "Seller", Type: model.AgentTypeMetier, IsActive: true}
	b := &fakeBackend{byID: map[int64]model.Conversation{
		10: {ID: 10, Title: "Loose", Agents: []model.Agent{other},
			Messages: []model.Message{{ID: model.ConfirmedID(1), Role: model.RoleHuman, Content: "hey"}}},
	}}
	m := newTestModel(b)
	st := sidebarState().WithAgents([]model.Agent{helperAgent(), other}).SelectAgent(3)

	m, st, _ = m.Update(keyTab, st)
	for i := 0; i < 3; i++ {
		m, st, _ = m.Update(keyDown, st)
	}
	m, st, cmd := m.Update(keyEnter, st)
	m, st, _ = feed(t, m, st, cmd)

	require.NotNil(t, st.CurrentConversation)
	assert.Equal(t, int64(10), st.CurrentConversation.ID)
	assert.Equal(t, int64(5), st.SelectedAgentID())
	assert.Len(t, st.Messages, 1)
	assert.Equal(t, FocusInput, m.Focus())
}

func TestDeleteFolderUnfilesConversations(t *testing.T) {
	b := &fakeBackend{}
	m := newTestModel(b)
	st := sidebarState()

	m, st, _ = m.Update(keyTab, st)
	m, st, cmd := m.Update(keyRunes("d"), st)
	assert.Nil(t, cmd)
	require.True(t, m.Modal())

	m, st, cmd = m.Update(keyRunes("y"), st)
	require.NotNil(t, cmd)
	_, st, _ = feed(t, m, st, cmd)

	assert.Equal(t, []int64{1}, b.deleted)
	assert.Empty(t, st.Folders)
	conv, ok := st.FindConversation(11)
	require.True(t, ok)
	assert.Nil(t, conv.FolderID)
	assert.Empty(t, conv.FolderName)
}

func TestDeleteConversationRejected(t *testing.T) {
	b := &fakeBackend{}
	m := newTestModel(b)
	st := sidebarState()

	m, st, _ = m.Update(keyTab, st)
	m, st, _ = m.Update(keyDown, st)
	m, st, _ = m.Update(keyRunes("d"), st)
	m, st, cmd := m.Update(keyRunes("n"), st)

	assert.Nil(t, cmd)
	assert.False(t, m.Modal())
	assert.Len(t, st.Conversations, 2)
	assert.Empty(t, b.deleted)
}

func TestCreateAndRenameFolder(t *testing.T) {
	b := &fakeBackend{}
	m := newTestModel(b)
	st := sidebarState()

	m, st, _ = m.Update(keyTab, st)
	m, st, _ = m.Update(keyRunes("f"), st)
	require.True(t, m.Modal())

	// Blank names are rejected locally.
	m, st, cmd := m.Update(keyEnter, st)
	assert.Nil(t, cmd)
	assert.NotEmpty(t, m.prompt.err)

	m, st, _ = m.Update(keyRunes("  Ideas "), st)
	m, st, cmd = m.Update(keyEnter, st)
	m, st, _ = feed(t, m, st, cmd)
	assert.Equal(t, []string{"Ideas"}, b.created)
	_, ok := model.FindFolder(st.Folders, 99)
	assert.True(t, ok)

	// Rename the first folder, now "Ideas".
	m, st, _ = m.Update(keyRunes("r"), st)
	require.True(t, m.prompt.renaming)
	m.prompt.input.SetValue("Later")
	m, st, cmd = m.Update(keyEnter, st)
	_, st, _ = feed(t, m, st, cmd)
	assert.Equal(t, []string{"Later"}, b.renamed)
	f, _ := model.FindFolder(st.Folders, 99)
	assert.Equal(t, "Later", f.Name)
}

// =============================================================================
// MISC
// =============================================================================

func TestCopyLastReply(t *testing.T) {
	var copied string
	orig := copyFunc
	copyFunc = func(s string) error { copied = s; return nil }
	defer func() { copyFunc = orig }()

	m := newTestModel(&fakeBackend{})
	st := store.New().WithMessages([]model.Message{
		{ID: model.ConfirmedID(1), Role: model.RoleHuman, Content: "q"},
		{ID: model.ConfirmedID(2), Role: model.RoleAI, Content: "answer"},
	})
	_, _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY}, st)
	msgs := collect(cmd)

	assert.Equal(t, "answer", copied)
	require.Len(t, msgs, 1)
	assert.Equal(t, ClipboardMsg{}, msgs[0])
}

func TestToggleSidebarAndNewConversation(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	st := sidebarState().WithCurrentConversation(model.Conversation{ID: 10})

	m, st, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB}, st)
	assert.False(t, st.SidebarOpen)

	_, st, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN}, st)
	assert.Nil(t, st.CurrentConversation)
	assert.Empty(t, st.Messages)
}

func TestLoadPopulatesState(t *testing.T) {
	b := &fakeBackend{
		agents:        []model.Agent{helperAgent()},
		conversations: []model.Conversation{{ID: 1}},
		folders:       []model.Folder{{ID: 2, Name: "A"}},
	}
	m, cmd := newTestModel(b).Load()
	m, st, _ := feed(t, m, store.New(), cmd)

	assert.Len(t, st.Agents, 1)
	assert.Len(t, st.Conversations, 1)
	assert.Len(t, st.Folders, 1)
	assert.Equal(t, components.StatusReady, m.statusBar(st).Status)
}

func TestViewShowsEmptyHint(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	view := m.View(store.New())
	assert.Contains(t, view, EmptyChatHint)
}
