// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// SpinnerConfig holds the frames of a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// LineSpinner - Simple line rotation, used while loading lists
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// DotsSpinner - Three-dot animation, used while an agent is replying
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// Interval returns the delay between frames.
func (c SpinnerConfig) Interval() time.Duration {
	if c.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(c.FPS)
}

// Frame returns the frame for a given tick count.
func (c SpinnerConfig) Frame(tick int) string {
	if len(c.Frames) == 0 {
		return ""
	}
	if tick < 0 {
		tick = -tick
	}
	return c.Frames[tick%len(c.Frames)]
}

// Bubble converts the config to a bubbles spinner.
func (c SpinnerConfig) Bubble() spinner.Spinner {
	return spinner.Spinner{Frames: append([]string(nil), c.Frames...), FPS: c.Interval()}
}
