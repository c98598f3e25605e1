// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/agentdesk/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports conversations to JSON format.
// The conversation keeps the backend's field names so exports can be diffed
// against API responses.
type JSONExporter struct {
	options *Options
}

// jsonDocument wraps the conversation with export metadata.
type jsonDocument struct {
	Generator    string              `json:"generator"`
	ExportedAt   time.Time           `json:"exported_at"`
	Conversation *model.Conversation `json:"conversation"`
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts a conversation to JSON format. Unconfirmed messages are
// left out.
func (e *JSONExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}

	c := *conv
	c.Messages = exportable(conv.Messages)

	if !e.options.IncludeMetadata {
		return json.MarshalIndent(&c, "", "  ")
	}
	return json.MarshalIndent(jsonDocument{
		Generator:    "agentdesk",
		ExportedAt:   e.options.now().UTC(),
		Conversation: &c,
	}, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
