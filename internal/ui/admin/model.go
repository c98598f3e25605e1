// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/store"
	"github.com/jeranaias/agentdesk/internal/ui/components"
	"github.com/jeranaias/agentdesk/internal/ui/styles"
	"github.com/jeranaias/agentdesk/internal/util"
)

// View selects which admin screen is shown.
type View int

const (
	ViewAgents View = iota
	ViewAgentForm
	ViewAutoChat
)

// Model is the admin screen. Agents live in the shared state so the chat
// screen sees edits immediately.
type Model struct {
	backend Backend
	theme   *styles.Theme
	keys    KeyMap

	view    View
	cursor  int
	models  []model.ModelOption
	loading bool
	saving  bool

	agentForm agentForm
	autoChat  autoChatForm
	confirm   components.Confirm

	width  int
	height int
}

// New creates the admin screen.
func New(backend Backend, theme *styles.Theme) Model {
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	return Model{backend: backend, theme: theme, keys: DefaultKeyMap()}
}

// Load refreshes the agents and the available models.
func (m Model) Load() (Model, tea.Cmd) {
	m.loading = true
	return m, tea.Batch(loadAgentsCmd(m.backend), loadModelsCmd(m.backend))
}

// Show switches to the agent list or the auto-chat form.
func (m Model) Show(v View, st store.State) (Model, tea.Cmd) {
	switch v {
	case ViewAutoChat:
		m.autoChat = newAutoChatForm(st.Agents).resize(m.width)
		m.view = ViewAutoChat
		return m, m.autoChat.form.Init()
	default:
		m.view = ViewAgents
		return m, nil
	}
}

// Current returns the visible admin view.
func (m Model) Current() View {
	return m.view
}

// Models returns the available LLM identifiers.
func (m Model) Models() []model.ModelOption {
	return m.models
}

// Editing reports whether a form or modal holds the keyboard.
func (m Model) Editing() bool {
	return m.view != ViewAgents || m.confirm.Visible()
}

func (a autoChatForm) resize(width int) autoChatForm {
	a.form = a.form.SetWidth(formWidth(width))
	return a
}

func formWidth(width int) int {
	w := width - 20
	if w > 72 {
		w = 72
	}
	return w
}

func (m Model) selected(st store.State) (model.Agent, bool) {
	if m.cursor < 0 || m.cursor >= len(st.Agents) {
		return model.Agent{}, false
	}
	return st.Agents[m.cursor], true
}

func (m Model) clamp(st store.State) Model {
	if m.cursor >= len(st.Agents) {
		m.cursor = len(st.Agents) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

// =============================================================================
// UPDATE
// =============================================================================

// Update applies msg to the screen and to st.
func (m Model) Update(msg tea.Msg, st store.State) (Model, store.State, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.agentForm.form = m.agentForm.form.SetWidth(formWidth(msg.Width))
		m.autoChat = m.autoChat.resize(msg.Width)
		return m, st, nil

	case AgentsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			return m, st, components.Fail("load agents", msg.Err)
		}
		st = st.WithAgents(msg.Agents)
		if m.view == ViewAutoChat {
			m.autoChat = m.autoChat.withAgents(st.Agents)
		}
		return m.clamp(st), st, nil

	case ModelsLoadedMsg:
		if msg.Err != nil {
			return m, st, components.Fail("load models", msg.Err)
		}
		m.models = msg.Models
		if m.view == ViewAgentForm {
			m.agentForm = m.agentForm.withModels(m.models)
		}
		return m, st, nil

	case AgentSavedMsg:
		m.saving = false
		if msg.Err != nil {
			// Field errors stay on the form; the user fixes and resubmits.
			m.agentForm.form.Err = components.ErrorText(msg.Err)
			return m, st, nil
		}
		st = st.WithAgents(upsertAgent(st.Agents, *msg.Agent))
		m.view = ViewAgents
		verb := "updated"
		if msg.ID == 0 {
			verb = "created"
			m.cursor = len(st.Agents) - 1
		}
		return m, st, components.Notify(fmt.Sprintf("Agent %q %s", msg.Agent.Name, verb))

	case AgentDeletedMsg:
		if msg.Err != nil {
			return m, st, components.Fail("delete agent", msg.Err)
		}
		st = st.WithAgents(removeAgent(st.Agents, msg.ID))
		return m.clamp(st), st, components.Notify("Agent deleted")

	case AgentDuplicatedMsg:
		if msg.Err != nil {
			return m, st, components.Fail("duplicate agent", msg.Err)
		}
		st = st.WithAgents(upsertAgent(st.Agents, *msg.Agent))
		m.cursor = len(st.Agents) - 1
		return m, st, components.Notify(fmt.Sprintf("Duplicated as %q", msg.Agent.Name))

	case AutoChatStartedMsg:
		m.saving = false
		if msg.Err != nil {
			m.autoChat.form.Err = components.ErrorText(msg.Err)
			return m, st, nil
		}
		m.view = ViewAgents
		text := "Auto-chat started"
		if msg.Started != nil && msg.Started.Message != "" {
			text = msg.Started.Message
		}
		return m, st, components.Notify(text)

	case tea.KeyMsg:
		return m.handleKey(msg, st)
	}

	// Cursor blinks and other non-key messages go to the active form.
	var cmd tea.Cmd
	switch m.view {
	case ViewAgentForm:
		m.agentForm.form, cmd, _ = m.agentForm.form.Update(msg)
	case ViewAutoChat:
		m.autoChat, cmd, _ = m.autoChat.update(msg, st.Agents)
	}
	return m, st, cmd
}

func (m Model) handleKey(msg tea.KeyMsg, st store.State) (Model, store.State, tea.Cmd) {
	if m.confirm.Visible() {
		var res components.ConfirmResult
		m.confirm, res = m.confirm.Update(msg)
		if res == components.ConfirmAccepted {
			return m, st, deleteAgentCmd(m.backend, m.confirm.TargetID)
		}
		return m, st, nil
	}

	switch m.view {
	case ViewAgentForm:
		return m.updateAgentForm(msg, st)
	case ViewAutoChat:
		return m.updateAutoChat(msg, st)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		return m.clamp(st), st, nil
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		return m.clamp(st), st, nil
	case key.Matches(msg, m.keys.New):
		m.agentForm = newAgentForm(0, model.NewAgentInput(defaultModel(m.models)), m.models)
		m.agentForm.form = m.agentForm.form.SetWidth(formWidth(m.width))
		m.view = ViewAgentForm
		return m, st, m.agentForm.form.Init()
	case key.Matches(msg, m.keys.Edit):
		a, ok := m.selected(st)
		if !ok {
			return m, st, nil
		}
		m.agentForm = newAgentForm(a.ID, a.Input(), m.models)
		m.agentForm.form = m.agentForm.form.SetWidth(formWidth(m.width))
		m.view = ViewAgentForm
		return m, st, m.agentForm.form.Init()
	case key.Matches(msg, m.keys.Duplicate):
		if a, ok := m.selected(st); ok {
			return m, st, duplicateAgentCmd(m.backend, a.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if a, ok := m.selected(st); ok {
			m.confirm = components.NewConfirm(fmt.Sprintf("Delete agent %q?", a.Name), "agent", a.ID)
		}
	case key.Matches(msg, m.keys.AutoChat):
		m, cmd := m.Show(ViewAutoChat, st)
		return m, st, cmd
	case key.Matches(msg, m.keys.Refresh):
		m, cmd := m.Load()
		return m, st, cmd
	}
	return m, st, nil
}

func (m Model) updateAgentForm(msg tea.KeyMsg, st store.State) (Model, store.State, tea.Cmd) {
	if m.saving {
		return m, st, nil
	}
	var (
		cmd    tea.Cmd
		action components.FormAction
	)
	m.agentForm.form, cmd, action = m.agentForm.form.Update(msg)
	switch action {
	case components.FormCancel:
		m.view = ViewAgents
		return m, st, nil
	case components.FormSubmit:
		in, err := m.agentForm.input()
		if err != nil {
			m.agentForm.form.Err = components.ErrorText(err)
			return m, st, nil
		}
		m.agentForm.form.Err = ""
		m.saving = true
		slog.Debug("saving agent", "id", m.agentForm.id, "name", in.Name)
		return m, st, saveAgentCmd(m.backend, m.agentForm.id, in)
	}
	return m, st, cmd
}

func (m Model) updateAutoChat(msg tea.KeyMsg, st store.State) (Model, store.State, tea.Cmd) {
	if m.saving {
		return m, st, nil
	}
	var (
		cmd    tea.Cmd
		action components.FormAction
	)
	m.autoChat, cmd, action = m.autoChat.update(msg, st.Agents)
	switch action {
	case components.FormCancel:
		m.view = ViewAgents
		return m, st, nil
	case components.FormSubmit:
		req, err := m.autoChat.request()
		if err != nil {
			m.autoChat.form.Err = components.ErrorText(err)
			return m, st, nil
		}
		m.autoChat.form.Err = ""
		m.saving = true
		return m, st, autoChatCmd(m.backend, req)
	}
	return m, st, cmd
}

func upsertAgent(agents []model.Agent, a model.Agent) []model.Agent {
	out := append([]model.Agent(nil), agents...)
	for i := range out {
		if out[i].ID == a.ID {
			out[i] = a
			return out
		}
	}
	return append(out, a)
}

func removeAgent(agents []model.Agent, id int64) []model.Agent {
	out := make([]model.Agent, 0, len(agents))
	for _, a := range agents {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the active admin view in width x height.
func (m Model) View(st store.State, width, height int) string {
	if m.confirm.Visible() {
		return m.confirm.View(m.theme, width, height)
	}
	switch m.view {
	case ViewAgentForm:
		hint := "tab next  ←/→ choose  space toggle  ctrl+s save  esc cancel"
		if m.saving {
			hint = "Saving..."
		}
		return m.formView(m.agentForm.form, hint, width, height)
	case ViewAutoChat:
		hint := "tab next  ←/→ choose  ctrl+s launch  esc cancel"
		if m.saving {
			hint = "Launching..."
		}
		return m.formView(m.autoChat.form, hint, width, height)
	}
	return m.listView(st, width, height)
}

func (m Model) formView(f components.Form, hint string, width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Left, f.View(m.theme), m.theme.Muted.Render(hint))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, body)
}

func (m Model) listView(st store.State, width, height int) string {
	var b strings.Builder
	b.WriteString(m.theme.FormTitle.Render(fmt.Sprintf("Agents (%d)", len(st.Agents))))
	b.WriteString("\n\n")

	if len(st.Agents) == 0 {
		msg := "No agents yet. Press n to create one."
		if m.loading {
			msg = "Loading agents..."
		}
		b.WriteString(m.theme.EmptyState.Render(msg))
		return lipgloss.NewStyle().Width(width).Height(height).Padding(0, 2).Render(b.String())
	}

	inner := width - 4
	for i, a := range st.Agents {
		style := m.theme.ListItem
		if i == m.cursor {
			style = m.theme.ListItemSelected
		}
		status := "active"
		if !a.IsActive {
			status = "inactive"
		}
		line := strings.Join([]string{
			util.PadWidth(util.TruncateWidth(a.Name, 24), 24),
			util.PadWidth(a.EffectiveType().DisplayName(), 8),
			util.PadWidth(util.TruncateWidth(a.Model, 20), 20),
			status,
		}, " ")
		b.WriteString(style.Render(util.TruncateWidth(line, inner)))
		b.WriteString("\n")

		meta := []string{}
		if len(a.Categories) > 0 {
			meta = append(meta, strings.Join(a.Categories, ", "))
		}
		if !a.UpdatedAt.IsZero() {
			meta = append(meta, "updated "+humanize.Time(a.UpdatedAt))
		}
		if len(meta) > 0 {
			b.WriteString(m.theme.ListMeta.Render(util.TruncateWidth("  "+strings.Join(meta, " · "), inner)))
			b.WriteString("\n")
		}
	}
	return lipgloss.NewStyle().Width(width).Height(height).Padding(0, 2).Render(b.String())
}

// StatusBar describes the admin status line.
func (m Model) StatusBar() components.StatusBar {
	sb := components.StatusBar{Status: components.StatusReady}
	if m.loading || m.saving {
		sb.Status = components.StatusLoading
	}
	k := m.keys
	switch m.view {
	case ViewAgents:
		sb.Shortcuts = shortcuts(k.New, k.Edit, k.Duplicate, k.Delete, k.AutoChat, k.Refresh)
	default:
		sb.Shortcuts = []components.Shortcut{{Key: "ctrl+s", Desc: "submit"}, {Key: "esc", Desc: "cancel"}}
	}
	return sb
}
