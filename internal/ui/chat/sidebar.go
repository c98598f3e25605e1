// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"

	"github.com/jeranaias/agentdesk/internal/folders"
	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/store"
	"github.com/jeranaias/agentdesk/internal/ui/styles"
	"github.com/jeranaias/agentdesk/internal/util"
)

// =============================================================================
// SIDEBAR ROWS
// =============================================================================

type rowKind int

const (
	rowGroup rowKind = iota
	rowConversation
)

// row is one line of the sidebar: a folder header (or the Unfiled header) or
// a conversation under it.
type row struct {
	kind  rowKind
	group int
	conv  model.Conversation
}

func buildRows(groups []folders.Group) []row {
	rows := make([]row, 0, len(groups)*2)
	for gi, g := range groups {
		rows = append(rows, row{kind: rowGroup, group: gi})
		for _, c := range g.Conversations {
			rows = append(rows, row{kind: rowConversation, group: gi, conv: c})
		}
	}
	return rows
}

// =============================================================================
// SIDEBAR MODEL
// =============================================================================

// sidebar tracks the cursor and an in-progress move. The rows themselves are
// derived from the state on every use.
type sidebar struct {
	cursor int
	lang   language.Tag

	// grab holds the encoded drag payload while a conversation is being moved.
	grab      []byte
	grabbedID int64
}

func newSidebar(lang language.Tag) sidebar {
	return sidebar{lang: lang}
}

func (s sidebar) groups(st store.State) []folders.Group {
	return folders.Partition(st.Folders, st.Conversations, s.lang)
}

func (s sidebar) rows(st store.State) ([]folders.Group, []row) {
	g := s.groups(st)
	return g, buildRows(g)
}

func (s sidebar) clamp(n int) sidebar {
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	return s
}

func (s sidebar) move(delta int, st store.State) sidebar {
	_, rows := s.rows(st)
	s.cursor += delta
	return s.clamp(len(rows))
}

// current returns the row under the cursor.
func (s sidebar) current(st store.State) (folders.Group, row, bool) {
	groups, rows := s.rows(st)
	if len(rows) == 0 {
		return folders.Group{}, row{}, false
	}
	s = s.clamp(len(rows))
	r := rows[s.cursor]
	return groups[r.group], r, true
}

// grabbing reports whether a move is in progress.
func (s sidebar) grabbing() bool {
	return len(s.grab) > 0
}

func (s sidebar) startGrab(conversationID int64) (sidebar, error) {
	data, err := folders.DragPayload{ConversationID: conversationID}.Encode()
	if err != nil {
		return s, err
	}
	s.grab = data
	s.grabbedID = conversationID
	return s, nil
}

func (s sidebar) cancelGrab() sidebar {
	s.grab = nil
	s.grabbedID = 0
	return s
}

// drop resolves the held payload against the group under the cursor.
func (s sidebar) drop(st store.State) (sidebar, folders.Drop, error) {
	g, _, ok := s.current(st)
	data := s.grab
	s = s.cancelGrab()
	if !ok {
		return s, folders.Drop{}, folders.ErrInvalidPayload
	}
	d, err := folders.DropOn(data, g)
	return s, d, err
}

// =============================================================================
// SIDEBAR RENDERING
// =============================================================================

func (s sidebar) view(theme *styles.Theme, st store.State, width, height int, focused bool, now time.Time) string {
	groups, rows := s.rows(st)
	s = s.clamp(len(rows))
	inner := width - theme.Sidebar.GetHorizontalFrameSize()
	if inner < 8 {
		inner = 8
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, theme.SidebarTitle.Render("Conversations"))

	for i, r := range rows {
		selected := focused && i == s.cursor
		switch r.kind {
		case rowGroup:
			g := groups[r.group]
			label := util.TruncateWidth(fmt.Sprintf("%s (%d)", g.Name(), len(g.Conversations)), inner)
			style := theme.FolderHeader
			switch {
			case selected && s.grabbing():
				style = theme.FolderDropTarget
			case selected:
				style = theme.FolderHeaderSelected
			}
			lines = append(lines, style.Render(label))

		case rowConversation:
			when := ""
			if !r.conv.UpdatedAt.IsZero() {
				when = humanize.RelTime(r.conv.UpdatedAt, now, "ago", "from now")
			}
			title := r.conv.DisplayTitle()
			if r.conv.Type == model.ConversationTypeAuto {
				title = "[AUTO] " + title
			}
			title = util.TruncateWidth(title, inner-2)

			style := theme.ConversationItem
			switch {
			case r.conv.ID == s.grabbedID && s.grabbing():
				style = theme.ConversationGrabbed
			case selected:
				style = theme.ConversationSelected
			case st.CurrentConversation != nil && st.CurrentConversation.ID == r.conv.ID:
				style = theme.ConversationCurrent
			}
			lines = append(lines, style.Render(title))
			if when != "" {
				lines = append(lines, theme.ConversationItem.Render(theme.ConversationMeta.Render(util.TruncateWidth(when, inner-2))))
			}
		}
	}

	if len(st.Conversations) == 0 {
		lines = append(lines, theme.Muted.Render("No conversations yet"))
	}

	// Keep the cursor visible by scrolling whole lines.
	if height > 0 && len(lines) > height {
		start := cursorLine(rows, s.cursor) - height/2
		if start < 0 {
			start = 0
		}
		if start > len(lines)-height {
			start = len(lines) - height
		}
		lines = lines[start : start+height]
	}

	return theme.Sidebar.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

// cursorLine is the rendered line index of row cursor (conversations take two
// lines when they carry a timestamp).
func cursorLine(rows []row, cursor int) int {
	line := 1 // title
	for i := 0; i < cursor && i < len(rows); i++ {
		line++
		if rows[i].kind == rowConversation && !rows[i].conv.UpdatedAt.IsZero() {
			line++
		}
	}
	return line
}
