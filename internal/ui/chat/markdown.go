// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdown renders agent replies. The glamour renderer is rebuilt only when
// the wrap width changes. Shared by pointer between model copies.
type markdown struct {
	enabled  bool
	dark     bool
	width    int
	renderer *glamour.TermRenderer
}

func newMarkdown(enabled, dark bool) *markdown {
	return &markdown{enabled: enabled, dark: dark}
}

// Render returns content rendered for width, or content unchanged when
// rendering is disabled or fails.
func (md *markdown) Render(content string, width int) string {
	if md == nil || !md.enabled {
		return content
	}
	if width < 20 {
		width = 20
	}
	if md.renderer == nil || md.width != width {
		style := "light"
		if md.dark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			md.enabled = false
			return content
		}
		md.renderer = r
		md.width = width
	}
	out, err := md.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
