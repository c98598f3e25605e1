// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the agentdesk TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. The configured ui.theme ("dark", "light", "auto") can pin the
background instead of relying on detection.

# Color System (colors.go)

  - Purple - Primary accent, agent messages, selections
  - Cyan - Brand color, user messages, focus
  - Emerald - Success notices
  - Amber - Warnings, auto-chat badge, pending messages
  - Rose - Errors, failed messages, access denied

# Theme System (theme.go)

	theme := styles.NewTheme("auto")
	header := theme.Header.Render("agentdesk")

# Spinners (animations.go)

LineSpinner and DotsSpinner convert to bubbles spinners with Bubble().
*/
package styles
