// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/optimistic"
	"github.com/jeranaias/agentdesk/internal/store"
	"github.com/jeranaias/agentdesk/internal/ui/components"
	"github.com/jeranaias/agentdesk/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// Focus is the part of the screen receiving keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusSidebar
	FocusPicker
)

// Confirm kinds.
const (
	confirmConversation = "conversation"
	confirmFolder       = "folder"
)

// folderPrompt is the inline name input for new and renamed folders.
type folderPrompt struct {
	open     bool
	renaming bool
	folderID int64
	input    textinput.Model
	err      string
}

// Options configures the chat screen.
type Options struct {
	Backend        Backend
	Theme          *styles.Theme
	RenderMarkdown bool
	Lang           language.Tag
	Now            func() time.Time
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	backend Backend
	theme   *styles.Theme
	keys    KeyMap
	now     func() time.Time

	width  int
	height int
	focus  Focus

	sidebar  sidebar
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	md       *markdown

	pipeline optimistic.Pipeline
	picker   picker
	confirm  components.Confirm
	prompt   folderPrompt

	loading int
	hint    string
}

// New creates the chat screen.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	lang := opts.Lang
	if lang == language.Und {
		lang = language.English
	}

	in := textinput.New()
	in.Placeholder = "Write your message..."
	in.Prompt = "> "
	in.CharLimit = 0
	in.Focus()

	sp := spinner.New()
	sp.Spinner = styles.DotsSpinner.Bubble()
	sp.Style = theme.Spinner

	vp := viewport.New(80, 20)

	return Model{
		backend:  opts.Backend,
		theme:    theme,
		keys:     DefaultKeyMap(),
		now:      now,
		sidebar:  newSidebar(lang),
		viewport: vp,
		input:    in,
		spinner:  sp,
		md:       newMarkdown(opts.RenderMarkdown, theme.IsDark),
	}
}

// Load fetches agents, conversations and folders.
func (m Model) Load() (Model, tea.Cmd) {
	m.loading = 3
	return m, tea.Batch(
		loadAgentsCmd(m.backend),
		loadConversationsCmd(m.backend),
		loadFoldersCmd(m.backend),
	)
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Focus returns the focused area.
func (m Model) Focus() Focus {
	return m.focus
}

// Sending reports whether a send is in flight.
func (m Model) Sending() bool {
	return m.pipeline.Sending()
}

// InputValue returns the text in the input line.
func (m Model) InputValue() string {
	return m.input.Value()
}

// Hint returns the transient status hint.
func (m Model) Hint() string {
	return m.hint
}

// Modal reports whether a modal (confirm, prompt, picker) holds the keys.
func (m Model) Modal() bool {
	return m.confirm.Visible() || m.prompt.open || m.focus == FocusPicker
}

// =============================================================================
// UPDATE
// =============================================================================

// Update applies msg to the screen and to st.
func (m Model) Update(msg tea.Msg, st store.State) (Model, store.State, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.resize(msg.Width, msg.Height, st)
		return m.refresh(st), st, nil

	case tea.KeyMsg:
		return m.handleKey(msg, st)

	case spinner.TickMsg:
		if !m.pipeline.Sending() {
			return m, st, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, st, cmd

	case AgentsLoadedMsg:
		m = m.doneLoading()
		if msg.Err != nil {
			return m, st, components.Fail("load agents", msg.Err)
		}
		return m, st.WithAgents(msg.Agents), nil

	case ConversationsLoadedMsg:
		m = m.doneLoading()
		if msg.Err != nil {
			return m, st, components.Fail("load conversations", msg.Err)
		}
		st = st.WithConversations(msg.Conversations)
		return m.refresh(st), st, nil

	case FoldersLoadedMsg:
		m = m.doneLoading()
		if msg.Err != nil {
			return m, st, components.Fail("load folders", msg.Err)
		}
		return m, st.WithFolders(msg.Folders), nil

	case ConversationLoadedMsg:
		if msg.Err != nil {
			return m, st, components.Fail("load conversation", msg.Err)
		}
		if msg.Conversation == nil {
			return m, st, nil
		}
		st = st.WithCurrentConversation(*msg.Conversation)
		m.focus = FocusInput
		m.input.Focus()
		m = m.refresh(st)
		m.viewport.GotoBottom()
		return m, st, nil

	case SendResultMsg:
		return m.handleSendResult(msg, st)

	case ConversationDeletedMsg:
		if msg.Err != nil {
			return m, st, components.Fail("delete conversation", msg.Err)
		}
		st = st.RemoveConversation(msg.ID)
		return m.refresh(st), st, components.Notify("Conversation deleted")

	case ConversationMovedMsg:
		return m.handleMoved(msg, st)

	case FolderSavedMsg:
		if msg.Err != nil {
			action := "create folder"
			if msg.Renamed {
				action = "rename folder"
			}
			return m, st, components.Fail(action, msg.Err)
		}
		if msg.Renamed {
			return m, st.UpdateFolder(*msg.Folder), components.Notify("Folder renamed")
		}
		return m, st.AddFolder(*msg.Folder), components.Notify("Folder created")

	case FolderDeletedMsg:
		if msg.Err != nil {
			return m, st, components.Fail("delete folder", msg.Err)
		}
		st = st.DeleteFolder(msg.ID)
		m.sidebar = m.sidebar.move(0, st)
		return m, st, components.Notify("Folder deleted")

	case ClipboardMsg:
		if msg.Err != nil {
			return m, st, components.Fail("copy reply", msg.Err)
		}
		return m, st, components.Notify("Copied reply to clipboard")
	}

	if m.focus == FocusInput && !m.Modal() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, st, cmd
	}
	return m, st, nil
}

func (m Model) doneLoading() Model {
	if m.loading > 0 {
		m.loading--
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg, st store.State) (Model, store.State, tea.Cmd) {
	// Modals first.
	if m.confirm.Visible() {
		return m.handleConfirm(msg, st)
	}
	if m.prompt.open {
		return m.handlePrompt(msg, st)
	}
	if m.focus == FocusPicker {
		var id int64
		m.picker, id = m.picker.update(msg, st.Agents)
		if id != 0 {
			st = st.SelectAgent(id)
			m.hint = ""
		}
		if !m.picker.open {
			m.focus = FocusInput
			m.input.Focus()
		}
		return m, st, nil
	}

	switch {
	case key.Matches(msg, m.keys.ToggleSidebar):
		st = st.ToggleSidebar()
		if !st.SidebarOpen && m.focus == FocusSidebar {
			m.focus = FocusInput
			m.input.Focus()
		}
		return m.resize(m.width, m.height, st).refresh(st), st, nil

	case key.Matches(msg, m.keys.NewConversation):
		st = st.ClearCurrentConversation()
		m.focus = FocusInput
		m.input.Focus()
		return m.refresh(st), st, nil

	case key.Matches(msg, m.keys.PickAgent):
		m.picker = m.picker.show(st.Agents, st.SelectedAgentID())
		m.focus = FocusPicker
		m.input.Blur()
		return m, st, nil

	case key.Matches(msg, m.keys.Retry):
		return m.retry(st)

	case key.Matches(msg, m.keys.Discard):
		if id, ok := optimistic.LastFailed(st.Messages); ok {
			st = st.WithMessages(optimistic.Discard(st.Messages, id))
			return m.refresh(st), st, nil
		}
		return m, st, nil

	case key.Matches(msg, m.keys.CopyReply):
		reply, ok := st.LastReply()
		if !ok {
			m.hint = "No reply to copy"
			return m, st, nil
		}
		return m, st, copyCmd(reply.Content)

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, st, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, st, nil

	case key.Matches(msg, m.keys.SwitchFocus):
		if m.focus == FocusInput && st.SidebarOpen {
			m.focus = FocusSidebar
			m.input.Blur()
		} else {
			m.focus = FocusInput
			m.input.Focus()
		}
		return m, st, nil
	}

	if m.focus == FocusSidebar {
		return m.handleSidebarKey(msg, st)
	}
	return m.handleInputKey(msg, st)
}

// =============================================================================
// INPUT AND SENDING
// =============================================================================

func (m Model) handleInputKey(msg tea.KeyMsg, st store.State) (Model, store.State, tea.Cmd) {
	if !key.Matches(msg, m.keys.Send) {
		if m.pipeline.Sending() {
			// Input is disabled while a send is in flight.
			return m, st, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, st, cmd
	}

	in := optimistic.Input{
		Text:           m.input.Value(),
		AgentID:        st.SelectedAgentID(),
		ConversationID: st.CurrentConversationID(),
	}
	p, msgs, send, err := m.pipeline.Begin(st.Messages, in, m.now())
	switch {
	case errors.Is(err, optimistic.ErrNoAgent):
		m.hint = "Select an agent first"
		m.picker = m.picker.show(st.Agents, 0)
		m.focus = FocusPicker
		m.input.Blur()
		return m, st, nil
	case err != nil:
		// Empty text or a send already in flight: ignored.
		return m, st, nil
	}

	m.pipeline = p
	m.hint = ""
	m.input.Reset()
	st = st.WithMessages(msgs)
	m = m.refresh(st)
	m.viewport.GotoBottom()

	slog.Debug("chat send", "local_id", send.LocalID, "agent_id", in.AgentID, "new_conversation", send.NewConversation())
	return m, st, tea.Batch(sendCmd(m.backend, send), m.spinner.Tick)
}

func (m Model) retry(st store.State) (Model, store.State, tea.Cmd) {
	id, ok := optimistic.LastFailed(st.Messages)
	if !ok {
		return m, st, nil
	}
	in := optimistic.Input{AgentID: st.SelectedAgentID(), ConversationID: st.CurrentConversationID()}
	p, msgs, send, err := m.pipeline.Retry(st.Messages, id, in)
	if errors.Is(err, optimistic.ErrNoAgent) {
		m.hint = "Select an agent first"
		return m, st, nil
	}
	if err != nil {
		return m, st, nil
	}
	m.pipeline = p
	st = st.WithMessages(msgs)
	return m.refresh(st), st, tea.Batch(sendCmd(m.backend, send), m.spinner.Tick)
}

func (m Model) handleSendResult(msg SendResultMsg, st store.State) (Model, store.State, tea.Cmd) {
	if msg.Err != nil || msg.Response == nil {
		err := msg.Err
		if err == nil {
			err = errors.New("empty response")
		}
		p, msgs := m.pipeline.Fail(st.Messages, msg.LocalID)
		m.pipeline = p
		st = st.WithMessages(msgs)
		return m.refresh(st), st, components.Fail("send message", err)
	}

	stillShown := false
	for _, existing := range st.Messages {
		if existing.ID.Local == msg.LocalID {
			stillShown = true
			break
		}
	}

	p, msgs := m.pipeline.Settle(st.Messages, msg.LocalID, *msg.Response)
	m.pipeline = p
	st = st.WithMessages(msgs)
	m = m.refresh(st)
	m.viewport.GotoBottom()

	if !msg.NewConversation {
		return m, st, nil
	}
	// The server created a conversation either way; it is only adopted while
	// its first message is still the one on screen.
	if stillShown && st.CurrentConversation == nil {
		return m, st, tea.Batch(
			loadConversationCmd(m.backend, msg.Response.ConversationID),
			loadConversationsCmd(m.backend),
		)
	}
	return m, st, loadConversationsCmd(m.backend)
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m Model) handleSidebarKey(msg tea.KeyMsg, st store.State) (Model, store.State, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebar = m.sidebar.move(-1, st)
		return m, st, nil

	case key.Matches(msg, m.keys.Down):
		m.sidebar = m.sidebar.move(1, st)
		return m, st, nil

	case key.Matches(msg, m.keys.Cancel):
		m.sidebar = m.sidebar.cancelGrab()
		return m, st, nil

	case key.Matches(msg, m.keys.Grab):
		if m.sidebar.grabbing() {
			return m.dropGrabbed(st)
		}
		_, r, ok := m.sidebar.current(st)
		if !ok || r.kind != rowConversation {
			return m, st, nil
		}
		sb, err := m.sidebar.startGrab(r.conv.ID)
		if err != nil {
			return m, st, nil
		}
		m.sidebar = sb
		return m, st, nil

	case key.Matches(msg, m.keys.Open):
		if m.sidebar.grabbing() {
			return m.dropGrabbed(st)
		}
		_, r, ok := m.sidebar.current(st)
		if !ok || r.kind != rowConversation {
			return m, st, nil
		}
		return m, st, loadConversationCmd(m.backend, r.conv.ID)

	case key.Matches(msg, m.keys.NewFolder):
		return m.openPrompt(false, 0, ""), st, textinput.Blink

	case key.Matches(msg, m.keys.Rename):
		g, r, ok := m.sidebar.current(st)
		if !ok || r.kind != rowGroup || g.IsUnfiled() {
			return m, st, nil
		}
		return m.openPrompt(true, g.Folder.ID, g.Folder.Name), st, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		g, r, ok := m.sidebar.current(st)
		if !ok {
			return m, st, nil
		}
		if r.kind == rowConversation {
			m.confirm = components.NewConfirm(
				fmt.Sprintf("Delete conversation %q?", r.conv.DisplayTitle()),
				confirmConversation, r.conv.ID)
			return m, st, nil
		}
		if !g.IsUnfiled() {
			m.confirm = components.NewConfirm(
				fmt.Sprintf("Delete folder %q? Its conversations will be unfiled.", g.Folder.Name),
				confirmFolder, g.Folder.ID)
		}
		return m, st, nil
	}
	return m, st, nil
}

func (m Model) dropGrabbed(st store.State) (Model, store.State, tea.Cmd) {
	grabbed := m.sidebar.grabbedID
	sb, drop, err := m.sidebar.drop(st)
	m.sidebar = sb
	if err != nil {
		return m, st, nil
	}
	if conv, ok := st.FindConversation(grabbed); ok && model.SameFolder(conv.FolderID, drop.FolderID) {
		return m, st, nil
	}
	return m, st, moveConversationCmd(m.backend, drop.ConversationID, drop.FolderID)
}

func (m Model) handleMoved(msg ConversationMovedMsg, st store.State) (Model, store.State, tea.Cmd) {
	if msg.Err != nil {
		return m, st, components.Fail("move conversation", msg.Err)
	}
	next, err := st.MoveConversation(msg.ID, msg.FolderID)
	if err != nil {
		// The list changed under the move; reload it from the server.
		return m, st, tea.Batch(loadConversationsCmd(m.backend), loadFoldersCmd(m.backend))
	}
	where := "Unfiled"
	if msg.FolderID != nil {
		if f, ok := model.FindFolder(next.Folders, *msg.FolderID); ok {
			where = f.Name
		}
	}
	return m, next, components.Notify("Moved to " + where)
}

func (m Model) handleConfirm(msg tea.KeyMsg, st store.State) (Model, store.State, tea.Cmd) {
	var res components.ConfirmResult
	m.confirm, res = m.confirm.Update(msg)
	if res != components.ConfirmAccepted {
		return m, st, nil
	}
	switch m.confirm.Kind {
	case confirmConversation:
		return m, st, deleteConversationCmd(m.backend, m.confirm.TargetID)
	case confirmFolder:
		return m, st, deleteFolderCmd(m.backend, m.confirm.TargetID)
	}
	return m, st, nil
}

func (m Model) openPrompt(renaming bool, folderID int64, value string) Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "Folder name"
	in.CharLimit = 100
	in.SetValue(value)
	in.Focus()
	m.prompt = folderPrompt{open: true, renaming: renaming, folderID: folderID, input: in}
	return m
}

func (m Model) handlePrompt(msg tea.KeyMsg, st store.State) (Model, store.State, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = folderPrompt{}
		return m, st, nil
	case "enter":
		name, err := model.NormalizeFolderName(m.prompt.input.Value())
		if err != nil {
			m.prompt.err = components.ErrorText(err)
			return m, st, nil
		}
		p := m.prompt
		m.prompt = folderPrompt{}
		if p.renaming {
			f, ok := model.FindFolder(st.Folders, p.folderID)
			if !ok {
				return m, st, nil
			}
			return m, st, renameFolderCmd(m.backend, f, name)
		}
		return m, st, createFolderCmd(m.backend, name)
	}
	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	m.prompt.err = ""
	return m, st, cmd
}

// =============================================================================
// LAYOUT
// =============================================================================

const (
	inputHeight  = 2 // separator + input line
	statusHeight = 1
)

func (m Model) sidebarWidth(st store.State) int {
	if !st.SidebarOpen {
		return 0
	}
	return m.theme.SidebarWidth()
}

func (m Model) resize(width, height int, st store.State) Model {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	mainWidth := width - m.sidebarWidth(st)
	if mainWidth < 20 {
		mainWidth = 20
	}
	vpHeight := height - inputHeight - statusHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = mainWidth
	m.viewport.Height = vpHeight
	m.input.Width = mainWidth - 6
	return m
}

// refresh re-renders the message window from st.
func (m Model) refresh(st store.State) Model {
	m.viewport.SetContent(renderMessages(m.theme, m.md, st.Messages, m.viewport.Width))
	return m
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the screen for st in the area given by the last resize.
func (m Model) View(st store.State) string {
	// Messages may have changed since the last refresh (for example after a
	// logout cleared them), so the window is always re-rendered.
	m = m.refresh(st)

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.inputView(st),
		m.statusBar(st).View(m.theme, m.viewport.Width),
	)

	view := main
	if w := m.sidebarWidth(st); w > 0 {
		side := m.sidebar.view(m.theme, st, w, m.height, m.focus == FocusSidebar, m.now())
		view = lipgloss.JoinHorizontal(lipgloss.Top, side, main)
	}

	switch {
	case m.confirm.Visible():
		return m.confirm.View(m.theme, m.width, m.height)
	case m.prompt.open:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.promptView())
	case m.focus == FocusPicker:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.picker.view(m.theme, st.Agents, m.width))
	}
	return view
}

func (m Model) inputView(st store.State) string {
	var line string
	switch {
	case m.pipeline.Sending():
		line = m.spinner.View() + " " + m.theme.InputDisabled.Render("Waiting for the agent...")
	case st.SelectedAgent == nil:
		line = m.theme.InputDisabled.Render("Select an agent (ctrl+a) to start chatting")
	default:
		line = m.input.View()
	}
	return m.theme.InputContainer.Width(m.viewport.Width).Render(line)
}

func (m Model) promptView() string {
	title := "New folder"
	if m.prompt.renaming {
		title = "Rename folder"
	}
	parts := []string{m.theme.FormTitle.Render(title), m.prompt.input.View()}
	if m.prompt.err != "" {
		parts = append(parts, m.theme.FormError.Render(m.prompt.err))
	}
	parts = append(parts, m.theme.Muted.Render("enter save  esc cancel"))
	return m.theme.FormBox.Render(strings.Join(parts, "\n"))
}

func (m Model) statusBar(st store.State) components.StatusBar {
	sb := components.StatusBar{Status: components.StatusReady}
	switch {
	case m.pipeline.Sending():
		sb.Status = components.StatusSending
	case m.sidebar.grabbing():
		sb.Status = components.StatusGrabbing
	case m.loading > 0:
		sb.Status = components.StatusLoading
	}

	details := []string{}
	if st.SelectedAgent != nil {
		details = append(details, "agent: "+st.SelectedAgent.Name)
	}
	if n := optimistic.PendingCount(st.Messages); n > 0 && !m.pipeline.Sending() {
		details = append(details, fmt.Sprintf("%d unsent", n))
	}
	if m.hint != "" {
		details = append(details, m.hint)
	}
	sb.Detail = strings.Join(details, " | ")

	k := m.keys
	if m.focus == FocusSidebar {
		if m.sidebar.grabbing() {
			sb.Shortcuts = shortcuts(k.Up, k.Down, k.Grab, k.Cancel)
		} else {
			sb.Shortcuts = shortcuts(k.Open, k.Grab, k.NewFolder, k.Rename, k.Delete, k.SwitchFocus)
		}
		return sb
	}
	sb.Shortcuts = shortcuts(k.Send, k.PickAgent, k.NewConversation, k.Retry, k.Discard, k.CopyReply, k.ToggleSidebar)
	return sb
}
