// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// Folder groups conversations. Conversations reference at most one folder.
type Folder struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	ParentID           *int64    `json:"parent"`
	Order              int       `json:"order"`
	ConversationsCount int       `json:"conversations_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// FolderInput is the create/rename payload.
type FolderInput struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent,omitempty"`
}

// NormalizeFolderName trims the name and rejects blanks.
func NormalizeFolderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ValidationError{Field: "name", Message: "folder name is required"}
	}
	return name, nil
}

// FindFolder returns the folder with the given id.
func FindFolder(folders []Folder, id int64) (Folder, bool) {
	for _, f := range folders {
		if f.ID == id {
			return f, true
		}
	}
	return Folder{}, false
}
