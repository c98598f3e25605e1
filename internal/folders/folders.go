// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package folders organizes conversations into folder groups for the sidebar
// and carries the typed drag payload used to move them.
package folders

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jeranaias/agentdesk/internal/model"
)

// UnfiledName labels the group of conversations without a folder.
const UnfiledName = "Unfiled"

// Group is one sidebar section. Folder is nil for the Unfiled group.
type Group struct {
	Folder        *model.Folder
	Conversations []model.Conversation
}

// Name returns the folder name, or UnfiledName.
func (g Group) Name() string {
	if g.Folder == nil {
		return UnfiledName
	}
	return g.Folder.Name
}

// IsUnfiled reports whether this is the Unfiled group.
func (g Group) IsUnfiled() bool {
	return g.Folder == nil
}

// Target returns the folder id a drop on this group moves to (nil = unfiled).
func (g Group) Target() *int64 {
	if g.Folder == nil {
		return nil
	}
	return model.FolderRef(g.Folder.ID)
}

// SortFolders orders folders by their order field, then by name using
// locale-aware collation, then by id. The input is not modified.
func SortFolders(folders []model.Folder, tag language.Tag) []model.Folder {
	out := make([]model.Folder, len(folders))
	copy(out, folders)

	col := collate.New(tag, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		if c := col.CompareString(out[i].Name, out[j].Name); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Partition splits conversations into one group per folder, in SortFolders
// order, followed by the Unfiled group. Each conversation lands in exactly
// one group; a conversation whose folder is unknown lands in Unfiled.
// Conversation order within a group is preserved.
func Partition(folders []model.Folder, conversations []model.Conversation, tag language.Tag) []Group {
	sorted := SortFolders(folders, tag)

	index := make(map[int64]int, len(sorted))
	groups := make([]Group, 0, len(sorted)+1)
	for i := range sorted {
		f := sorted[i]
		index[f.ID] = i
		groups = append(groups, Group{Folder: &f})
	}
	groups = append(groups, Group{})
	unfiled := len(groups) - 1

	for _, c := range conversations {
		slot := unfiled
		if c.FolderID != nil {
			if i, ok := index[*c.FolderID]; ok {
				slot = i
			}
		}
		groups[slot].Conversations = append(groups[slot].Conversations, c)
	}
	return groups
}
