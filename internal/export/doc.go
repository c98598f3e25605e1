// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders conversations to files.
//
// # Supported Formats
//
//   - Markdown: human-readable, with YAML frontmatter
//   - JSON: the conversation as the backend returned it
//
// # Usage
//
//	exporter, err := export.ForFormat("markdown", export.DefaultOptions())
//	data, err := exporter.Export(conv)
//
// Or write a timestamped file into a directory:
//
//	path, err := export.ExportToFile(conv, exporter, opts)
package export
