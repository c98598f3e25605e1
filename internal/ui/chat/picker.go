// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/ui/styles"
	"github.com/jeranaias/agentdesk/internal/util"
)

// picker is the agent selection overlay.
type picker struct {
	open   bool
	cursor int
}

func (p picker) show(agents []model.Agent, selected int64) picker {
	p.open = true
	p.cursor = 0
	for i, a := range agents {
		if a.ID == selected {
			p.cursor = i
		}
	}
	return p
}

// update returns the chosen agent id (0 for none) once enter is pressed.
func (p picker) update(msg tea.KeyMsg, agents []model.Agent) (picker, int64) {
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(agents)-1 {
			p.cursor++
		}
	case "esc":
		p.open = false
	case "enter":
		p.open = false
		if p.cursor >= 0 && p.cursor < len(agents) {
			return p, agents[p.cursor].ID
		}
	}
	return p, 0
}

func (p picker) view(theme *styles.Theme, agents []model.Agent, width int) string {
	var b strings.Builder
	b.WriteString(theme.FormTitle.Render("Choose an agent"))
	b.WriteString("\n")
	if len(agents) == 0 {
		b.WriteString(theme.Muted.Render("No agents available."))
	}
	for i, a := range agents {
		label := a.Label()
		if !a.IsActive {
			label += " [inactive]"
		}
		line := util.TruncateWidth(label, width-8)
		if i == p.cursor {
			b.WriteString(theme.ListItemSelected.Render(line))
		} else {
			b.WriteString(theme.ListItem.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(theme.Muted.Render("enter select  esc close"))
	return theme.FormBox.Render(b.String())
}
