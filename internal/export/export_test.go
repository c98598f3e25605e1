// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/agentdesk/internal/model"
)

var exportTime = time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)

func testOptions(dir string) *Options {
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.Now = func() time.Time { return exportTime }
	return opts
}

func sampleConversation() *model.Conversation {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return &model.Conversation{
		ID:         42,
		Title:      "Hiring plan",
		Type:       model.ConversationTypeUser,
		FolderID:   model.FolderRef(7),
		FolderName: "Work",
		Agents:     []model.Agent{{ID: 2, Name: "Recruiter", Model: "gpt-4o"}},
		Messages: []model.Message{
			{ID: model.ConfirmedID(1), Role: model.RoleHuman, Content: "Who should we hire?", CreatedAt: created},
			{ID: model.ConfirmedID(2), Role: model.RoleAI, AgentName: "Recruiter", Content: "A **Go** engineer.", CreatedAt: created.Add(time.Minute)},
			{ID: model.ConfirmedID(3), Role: model.RoleAI, AgentName: "Recruiter", Content: "Follow-up", IsAutoChat: true, CreatedAt: created.Add(2 * time.Minute)},
			model.NewPendingMessage("still sending", created.Add(3*time.Minute)),
		},
		CreatedAt: created,
		UpdatedAt: created.Add(3 * time.Minute),
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"markdown", ".md"},
		{"md", ".md"},
		{"MD", ".md"},
		{"json", ".json"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exp, err := ForFormat(tt.format, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.ext, exp.FileExtension())
		})
	}

	_, err := ForFormat("html", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(testOptions("")).Export(sampleConversation())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\ntitle: Hiring plan\nid: 42\n"))
	assert.Contains(t, md, "folder: Work\n")
	assert.Contains(t, md, "agents:\n  - \"Recruiter (gpt-4o)\"\n")
	assert.Contains(t, md, "messages: 3\n")
	assert.Contains(t, md, "exported: 2025-03-04T10:30:00Z\n")
	assert.Contains(t, md, "generator: agentdesk\n")
	assert.Contains(t, md, "# Hiring plan\n")
	assert.Contains(t, md, "### [You] <sub>09:00:00</sub>\n\nWho should we hire?")
	assert.Contains(t, md, "### [Recruiter] <sub>09:01:00</sub>\n\nA **Go** engineer.")
	assert.Contains(t, md, "### [Recruiter] [AUTO] <sub>09:02:00</sub>")
	assert.NotContains(t, md, "still sending")
	assert.Contains(t, md, "*Exported from agentdesk on March 4, 2025 at 10:30 AM*")
}

func TestMarkdownExportWithoutMetadata(t *testing.T) {
	opts := testOptions("")
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	out, err := NewMarkdownExporter(opts).Export(sampleConversation())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "# Hiring plan\n"))
	assert.NotContains(t, md, "generator:")
	assert.NotContains(t, md, "Conversation Information")
	assert.Contains(t, md, "### [You]\n\n")
}

func TestMarkdownExportEmptyConversation(t *testing.T) {
	out, err := NewMarkdownExporter(testOptions("")).Export(&model.Conversation{ID: 5})
	require.NoError(t, err)
	md := string(out)

	assert.Contains(t, md, "title: "+model.UntitledConversation)
	assert.Contains(t, md, "messages: 0\n")
	assert.Contains(t, md, "_No messages._")
}

func TestExportNilConversation(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(nil)
	assert.Error(t, err)
	_, err = NewJSONExporter(nil).Export(nil)
	assert.Error(t, err)
}

func TestMarkdownTitleCannotBreakFrontmatter(t *testing.T) {
	conv := sampleConversation()
	conv.Title = "evil\n---\ninjected: true"

	out, err := NewMarkdownExporter(testOptions("")).Export(conv)
	require.NoError(t, err)
	md := string(out)

	assert.Contains(t, md, `title: "evil\n---\ninjected: true"`)
	assert.NotContains(t, md, "\ninjected: true\n")
	assert.Contains(t, md, "# evil --- injected: true\n")
}

func TestEscapeYAML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", `""`},
		{"key: value", `"key: value"`},
		{`say "hi"`, `"say \"hi\""`},
		{`C:\path`, `"C:\\path"`},
		{" padded", `" padded"`},
		{"- list", `"- list"`},
		{"line\nbreak", `"line\nbreak"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeYAML(tt.in), "escapeYAML(%q)", tt.in)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `\# not \*a\* \[link\]`, escapeMarkdown("# not *a* [link]"))
	assert.Equal(t, `snake\_case`, escapeMarkdown("snake_case"))
}

func TestJSONExport(t *testing.T) {
	out, err := NewJSONExporter(testOptions("")).Export(sampleConversation())
	require.NoError(t, err)

	var doc struct {
		Generator    string             `json:"generator"`
		ExportedAt   time.Time          `json:"exported_at"`
		Conversation model.Conversation `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))

	assert.Equal(t, "agentdesk", doc.Generator)
	assert.True(t, exportTime.Equal(doc.ExportedAt))
	assert.Equal(t, int64(42), doc.Conversation.ID)
	require.Len(t, doc.Conversation.Messages, 3)
	assert.True(t, doc.Conversation.Messages[2].IsAutoChat)
}

func TestJSONExportWithoutMetadata(t *testing.T) {
	opts := testOptions("")
	opts.IncludeMetadata = false

	out, err := NewJSONExporter(opts).Export(sampleConversation())
	require.NoError(t, err)

	var conv model.Conversation
	require.NoError(t, json.Unmarshal(out, &conv))
	assert.Equal(t, "Hiring plan", conv.Title)
	assert.NotContains(t, string(out), "generator")
}

func TestExportDoesNotMutateConversation(t *testing.T) {
	conv := sampleConversation()
	_, err := NewJSONExporter(nil).Export(conv)
	require.NoError(t, err)
	assert.Len(t, conv.Messages, 4)
}

func TestExportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	opts := testOptions(dir)
	conv := sampleConversation()
	conv.Title = `Q1/Q2: "plans"?`

	path, err := ExportToFile(conv, NewMarkdownExporter(opts), opts)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, "conversation_42_Q1-Q2-_-plans--_20250304_103000.md", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "generator: agentdesk")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "notes", "notes"},
		{"spaces", "team sync", "team_sync"},
		{"separators", `a/b\c`, "a-b-c"},
		{"traversal", "../../etc/passwd", "..-..-etc-passwd"},
		{"control", "bell\x07", "bell-"},
		{"empty", "", "conversation"},
		{"unicode", "réunion", "réunion"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFilename(tt.in))
		})
	}

	long := strings.Repeat("x", 80)
	assert.Equal(t, 50, len([]rune(sanitizeFilename(long))))
}
