// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jeranaias/agentdesk/internal/model"
)

// ListFolders returns the session user's folders.
func (c *Client) ListFolders(ctx context.Context) ([]model.Folder, error) {
	var folders []model.Folder
	if err := c.getList(ctx, "load folders", "/chat/folders/", &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// CreateFolder creates a top-level folder. The name is trimmed and must not be
// blank.
func (c *Client) CreateFolder(ctx context.Context, name string) (*model.Folder, error) {
	name, err := model.NormalizeFolderName(name)
	if err != nil {
		return nil, err
	}
	var folder model.Folder
	if err := c.do(ctx, "create folder", http.MethodPost, "/chat/folders/", model.FolderInput{Name: name}, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// RenameFolder changes a folder's name, keeping its parent.
func (c *Client) RenameFolder(ctx context.Context, folder model.Folder, name string) (*model.Folder, error) {
	name, err := model.NormalizeFolderName(name)
	if err != nil {
		return nil, err
	}
	in := model.FolderInput{Name: name, ParentID: folder.ParentID}
	var updated model.Folder
	if err := c.do(ctx, "rename folder", http.MethodPut, fmt.Sprintf("/chat/folders/%d/", folder.ID), in, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteFolder removes a folder. The backend unfiles its conversations.
func (c *Client) DeleteFolder(ctx context.Context, id int64) error {
	return c.do(ctx, "delete folder", http.MethodDelete, fmt.Sprintf("/chat/folders/%d/", id), nil, nil)
}
