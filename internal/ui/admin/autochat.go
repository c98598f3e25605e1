// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/ui/components"
)

const (
	fieldAgentA     = "agent_a_id"
	fieldAgentB     = "agent_b_id"
	fieldInitial    = "initial_message"
	fieldIterations = "iterations"
)

// autoChatForm launches an exchange between a metier agent (A) and a client
// agent (B). Choosing A prefills the initial message with its first prompt.
type autoChatForm struct {
	form       components.Form
	lastAgentA string
}

func agentChoices(agents []model.Agent) []components.Choice {
	out := make([]components.Choice, 0, len(agents))
	for _, a := range agents {
		label := a.Name
		if !a.IsActive {
			label += " [inactive]"
		}
		out = append(out, components.Choice{Value: strconv.FormatInt(a.ID, 10), Label: label})
	}
	return out
}

func iterationChoices() []components.Choice {
	out := make([]components.Choice, 0, model.MaxAutoChatIterations)
	for i := model.MinAutoChatIterations; i <= model.MaxAutoChatIterations; i++ {
		s := strconv.Itoa(i)
		out = append(out, components.Choice{Value: s, Label: s})
	}
	return out
}

func newAutoChatForm(agents []model.Agent) autoChatForm {
	f := components.NewForm("Launch auto-chat",
		components.ChoiceField(fieldAgentA, "Agent A (metier)", nil),
		components.AreaField(fieldInitial, "Initial message"),
		components.ChoiceField(fieldAgentB, "Agent B (client)", nil),
		components.ChoiceField(fieldIterations, "Iterations", iterationChoices()),
	)
	f = f.SetValue(fieldIterations, strconv.Itoa(model.DefaultAutoChatIterations))
	a := autoChatForm{form: f}
	return a.withAgents(agents)
}

// withAgents refreshes the agent choices and reapplies the prefill rule.
func (a autoChatForm) withAgents(agents []model.Agent) autoChatForm {
	a.form = a.form.SetChoices(fieldAgentA, agentChoices(model.FilterAgents(agents, model.AgentTypeMetier)))
	a.form = a.form.SetChoices(fieldAgentB, agentChoices(model.FilterAgents(agents, model.AgentTypeClient)))
	return a.prefill(agents)
}

// prefill copies agent A's first prompt into the initial message whenever the
// selected agent A changes. An agent without a first prompt leaves the message
// as it was.
func (a autoChatForm) prefill(agents []model.Agent) autoChatForm {
	cur := a.form.Value(fieldAgentA)
	if cur == a.lastAgentA {
		return a
	}
	a.lastAgentA = cur
	id, err := strconv.ParseInt(cur, 10, 64)
	if err != nil {
		return a
	}
	if agent, ok := model.FindAgent(agents, id); ok && agent.FirstPrompt != "" {
		a.form = a.form.SetValue(fieldInitial, agent.FirstPrompt)
	}
	return a
}

func (a autoChatForm) update(msg tea.Msg, agents []model.Agent) (autoChatForm, tea.Cmd, components.FormAction) {
	var (
		cmd    tea.Cmd
		action components.FormAction
	)
	a.form, cmd, action = a.form.Update(msg)
	return a.prefill(agents), cmd, action
}

func (a autoChatForm) request() (model.AutoChatRequest, error) {
	agentA, _ := strconv.ParseInt(a.form.Value(fieldAgentA), 10, 64)
	agentB, _ := strconv.ParseInt(a.form.Value(fieldAgentB), 10, 64)
	iterations, _ := strconv.Atoi(a.form.Value(fieldIterations))
	req := model.AutoChatRequest{
		AgentAID:       agentA,
		AgentBID:       agentB,
		InitialMessage: strings.TrimSpace(a.form.Value(fieldInitial)),
		Iterations:     iterations,
	}
	return req, req.Validate()
}
