// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/ui/styles"
)

// EmptyChatHint is shown when the window has no messages.
const EmptyChatHint = "Select an agent and start a conversation"

// renderMessages renders the whole message list for the viewport.
func renderMessages(theme *styles.Theme, md *markdown, msgs []model.Message, width int) string {
	if len(msgs) == 0 {
		return lipgloss.Place(width, 3, lipgloss.Center, lipgloss.Center, theme.EmptyState.Render(EmptyChatHint))
	}
	blocks := make([]string, 0, len(msgs))
	for _, m := range msgs {
		blocks = append(blocks, renderMessage(theme, md, m, width))
	}
	return strings.Join(blocks, "\n\n")
}

func renderMessage(theme *styles.Theme, md *markdown, m model.Message, width int) string {
	label, body := theme.AgentLabel, theme.AgentMessage
	switch m.Role {
	case model.RoleHuman:
		label, body = theme.UserLabel, theme.UserMessage
	case model.RoleSystem:
		label, body = theme.SystemLabel, theme.SystemMessage
	}

	head := []string{label.Render(m.Author())}
	if !m.CreatedAt.IsZero() {
		head = append(head, theme.Timestamp.Render(m.CreatedAt.Local().Format("15:04")))
	}
	if m.IsAutoChat {
		head = append(head, theme.AutoBadge.Render("AUTO"))
	}
	switch {
	case m.Failed:
		head = append(head, theme.FailedMark.Render(styles.StatusIndicators.Error+" not sent, ctrl+r retry, ctrl+x discard"))
	case m.IsPending():
		head = append(head, theme.PendingMark.Render("sending..."))
	}

	textWidth := width - body.GetHorizontalFrameSize()
	if textWidth < 10 {
		textWidth = 10
	}
	content := m.Content
	if m.Role == model.RoleAI {
		content = md.Render(content, textWidth)
	} else {
		content = lipgloss.NewStyle().Width(textWidth).Render(content)
	}

	return strings.Join(head, " ") + "\n" + body.Render(content)
}
