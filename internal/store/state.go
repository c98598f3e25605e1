// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"errors"

	"github.com/jeranaias/agentdesk/internal/model"
)

var (
	// ErrUnknownFolder means a move targeted a folder not in the state.
	ErrUnknownFolder = errors.New("folder does not exist")
	// ErrUnknownConversation means a move targeted a conversation not in the state.
	ErrUnknownConversation = errors.New("conversation does not exist")
)

// State is the single source of truth for the UI.
type State struct {
	User                *model.User
	Agents              []model.Agent
	SelectedAgent       *model.Agent
	Conversations       []model.Conversation
	CurrentConversation *model.Conversation
	Folders             []model.Folder
	Messages            []model.Message
	SidebarOpen         bool
}

// New returns the empty, logged-out state.
func New() State {
	return State{SidebarOpen: true}
}

// =============================================================================
// SESSION
// =============================================================================

// WithUser sets the signed-in user.
func (s State) WithUser(u *model.User) State {
	if u != nil {
		cp := *u
		cp.Groups = append([]string(nil), u.Groups...)
		u = &cp
	}
	s.User = u
	return s
}

// LoggedIn reports whether a user is present.
func (s State) LoggedIn() bool {
	return s.User != nil
}

// Logout clears the user and every server-mirrored collection. UI preferences
// survive.
func (s State) Logout() State {
	return State{SidebarOpen: s.SidebarOpen}
}

// ToggleSidebar flips the sidebar.
func (s State) ToggleSidebar() State {
	s.SidebarOpen = !s.SidebarOpen
	return s
}

// =============================================================================
// AGENTS
// =============================================================================

// WithAgents replaces the agent list. The selection is kept if the agent still
// exists (with refreshed fields) and dropped otherwise.
func (s State) WithAgents(agents []model.Agent) State {
	s.Agents = append([]model.Agent(nil), agents...)
	if s.SelectedAgent != nil {
		if a, ok := model.FindAgent(s.Agents, s.SelectedAgent.ID); ok {
			s.SelectedAgent = &a
		} else {
			s.SelectedAgent = nil
		}
	}
	return s
}

// SelectAgent selects the agent with id. An unknown id clears the selection.
func (s State) SelectAgent(id int64) State {
	if a, ok := model.FindAgent(s.Agents, id); ok {
		s.SelectedAgent = &a
	} else {
		s.SelectedAgent = nil
	}
	return s
}

// SelectedAgentID returns the selected agent id, or 0.
func (s State) SelectedAgentID() int64 {
	if s.SelectedAgent == nil {
		return 0
	}
	return s.SelectedAgent.ID
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// WithConversations replaces the conversation list. The current conversation
// keeps its messages.
func (s State) WithConversations(convs []model.Conversation) State {
	s.Conversations = append([]model.Conversation(nil), convs...)
	return s
}

// WithCurrentConversation adopts conv as current, loads its messages, and
// selects its first agent when it has one.
func (s State) WithCurrentConversation(conv model.Conversation) State {
	cp := conv
	s.CurrentConversation = &cp
	s.Messages = append([]model.Message(nil), conv.Messages...)
	if a, ok := conv.PrimaryAgent(); ok {
		if known, found := model.FindAgent(s.Agents, a.ID); found {
			a = known
		}
		s.SelectedAgent = &a
	}
	return s
}

// ClearCurrentConversation starts a fresh, unsaved conversation.
func (s State) ClearCurrentConversation() State {
	s.CurrentConversation = nil
	s.Messages = nil
	return s
}

// CurrentConversationID returns the current conversation id, or nil.
func (s State) CurrentConversationID() *int64 {
	if s.CurrentConversation == nil {
		return nil
	}
	id := s.CurrentConversation.ID
	return &id
}

// RemoveConversation drops a conversation and clears it as current if it was.
func (s State) RemoveConversation(id int64) State {
	out := make([]model.Conversation, 0, len(s.Conversations))
	for _, c := range s.Conversations {
		if c.ID != id {
			out = append(out, c)
		}
	}
	s.Conversations = out
	if s.CurrentConversation != nil && s.CurrentConversation.ID == id {
		s = s.ClearCurrentConversation()
	}
	return s
}

// FindConversation returns the listed conversation with id.
func (s State) FindConversation(id int64) (model.Conversation, bool) {
	for _, c := range s.Conversations {
		if c.ID == id {
			return c, true
		}
	}
	return model.Conversation{}, false
}

// MoveConversation files conversation id into folderID, or unfiles it when
// folderID is nil. Folder counts are adjusted.
func (s State) MoveConversation(id int64, folderID *int64) (State, error) {
	var folderName string
	if folderID != nil {
		f, ok := model.FindFolder(s.Folders, *folderID)
		if !ok {
			return s, ErrUnknownFolder
		}
		folderName = f.Name
	}

	idx := -1
	for i, c := range s.Conversations {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, ErrUnknownConversation
	}

	old := s.Conversations[idx].FolderID
	if model.SameFolder(old, folderID) {
		return s, nil
	}

	convs := append([]model.Conversation(nil), s.Conversations...)
	convs[idx].FolderID = copyRef(folderID)
	convs[idx].FolderName = folderName
	s.Conversations = convs

	if s.CurrentConversation != nil && s.CurrentConversation.ID == id {
		cur := *s.CurrentConversation
		cur.FolderID = copyRef(folderID)
		cur.FolderName = folderName
		s.CurrentConversation = &cur
	}

	folders := append([]model.Folder(nil), s.Folders...)
	for i := range folders {
		if old != nil && folders[i].ID == *old && folders[i].ConversationsCount > 0 {
			folders[i].ConversationsCount--
		}
		if folderID != nil && folders[i].ID == *folderID {
			folders[i].ConversationsCount++
		}
	}
	s.Folders = folders
	return s, nil
}

// =============================================================================
// FOLDERS
// =============================================================================

// WithFolders replaces the folder list.
func (s State) WithFolders(folders []model.Folder) State {
	s.Folders = append([]model.Folder(nil), folders...)
	return s
}

// AddFolder appends a newly created folder.
func (s State) AddFolder(f model.Folder) State {
	folders := make([]model.Folder, 0, len(s.Folders)+1)
	folders = append(folders, s.Folders...)
	s.Folders = append(folders, f)
	return s
}

// UpdateFolder replaces the folder with f.ID and refreshes the folder name
// shown on its conversations.
func (s State) UpdateFolder(f model.Folder) State {
	folders := append([]model.Folder(nil), s.Folders...)
	for i := range folders {
		if folders[i].ID == f.ID {
			folders[i] = f
		}
	}
	s.Folders = folders

	convs := append([]model.Conversation(nil), s.Conversations...)
	for i := range convs {
		if convs[i].InFolder(f.ID) {
			convs[i].FolderName = f.Name
		}
	}
	s.Conversations = convs
	return s
}

// DeleteFolder removes a folder and unfiles every conversation in it.
func (s State) DeleteFolder(id int64) State {
	folders := make([]model.Folder, 0, len(s.Folders))
	for _, f := range s.Folders {
		if f.ID == id {
			continue
		}
		// Subfolders are promoted to the top level.
		if f.ParentID != nil && *f.ParentID == id {
			f.ParentID = nil
		}
		folders = append(folders, f)
	}
	s.Folders = folders

	convs := append([]model.Conversation(nil), s.Conversations...)
	for i := range convs {
		if convs[i].InFolder(id) {
			convs[i].FolderID = nil
			convs[i].FolderName = ""
		}
	}
	s.Conversations = convs

	if s.CurrentConversation != nil && s.CurrentConversation.InFolder(id) {
		cur := *s.CurrentConversation
		cur.FolderID = nil
		cur.FolderName = ""
		s.CurrentConversation = &cur
	}
	return s
}

// =============================================================================
// MESSAGES
// =============================================================================

// WithMessages replaces the message list.
func (s State) WithMessages(msgs []model.Message) State {
	s.Messages = append([]model.Message(nil), msgs...)
	return s
}

// AddMessage appends a message.
func (s State) AddMessage(m model.Message) State {
	msgs := make([]model.Message, 0, len(s.Messages)+1)
	msgs = append(msgs, s.Messages...)
	s.Messages = append(msgs, m)
	return s
}

// ReplaceMessage swaps the message with id for m, in place. A missing id is a
// no-op.
func (s State) ReplaceMessage(id model.MessageID, m model.Message) State {
	for i := range s.Messages {
		if s.Messages[i].ID == id {
			msgs := append([]model.Message(nil), s.Messages...)
			msgs[i] = m
			s.Messages = msgs
			return s
		}
	}
	return s
}

// RemoveMessage drops the message with id. A missing id is a no-op.
func (s State) RemoveMessage(id model.MessageID) State {
	for i := range s.Messages {
		if s.Messages[i].ID == id {
			msgs := make([]model.Message, 0, len(s.Messages)-1)
			msgs = append(msgs, s.Messages[:i]...)
			s.Messages = append(msgs, s.Messages[i+1:]...)
			return s
		}
	}
	return s
}

// LastReply returns the newest agent message.
func (s State) LastReply() (model.Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == model.RoleAI {
			return s.Messages[i], true
		}
	}
	return model.Message{}, false
}

func copyRef(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
