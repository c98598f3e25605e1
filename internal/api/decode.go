// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/pkg/errors"

	"github.com/jeranaias/agentdesk/internal/model"
)

// decodeList accepts a bare JSON array or a paginated {"results": [...]} page.
func decodeList(data []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var page struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return err
		}
		if page.Results == nil {
			return errors.New("object response without results")
		}
		trimmed = page.Results
	}
	return json.Unmarshal(trimmed, out)
}

// getList fetches a list endpoint into out.
func (c *Client) getList(ctx context.Context, action, path string, out interface{}) error {
	data, err := c.doRaw(ctx, action, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := decodeList(data, out); err != nil {
		return &Error{Action: action, Message: "unexpected response: " + err.Error()}
	}
	return nil
}

// =============================================================================
// AVAILABLE MODELS
// =============================================================================

// modelEntry is one value of the keyed models mapping.
type modelEntry struct {
	DisplayName       string `json:"display_name"`
	Provider          string `json:"provider"`
	ModelName         string `json:"model_name"`
	MaxTokensLimit    int    `json:"max_tokens_limit"`
	SupportsStreaming bool   `json:"supports_streaming"`
}

// decodeModelsMapping decodes {"gpt-4o": {"display_name": ...}, ...}.
// Keys become ids; the result is sorted by provider, then id.
func decodeModelsMapping(data []byte) ([]model.ModelOption, error) {
	var m map[string]modelEntry
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "models mapping")
	}
	out := make([]model.ModelOption, 0, len(m))
	for id, e := range m {
		out = append(out, model.ModelOption{
			ID:                id,
			DisplayName:       e.DisplayName,
			Provider:          e.Provider,
			ModelName:         e.ModelName,
			MaxTokensLimit:    e.MaxTokensLimit,
			SupportsStreaming: e.SupportsStreaming,
		})
	}
	sortModels(out)
	return out, nil
}

// decodeModelsArray decodes the legacy list contract: objects with an "id" or
// bare id strings. Order is preserved.
func decodeModelsArray(data []byte) ([]model.ModelOption, error) {
	var raw []json.RawMessage
	if err := decodeList(data, &raw); err != nil {
		return nil, errors.Wrap(err, "models array")
	}
	out := make([]model.ModelOption, 0, len(raw))
	for i, item := range raw {
		var id string
		if err := json.Unmarshal(item, &id); err == nil {
			out = append(out, model.ModelOption{ID: id, DisplayName: id})
			continue
		}
		var opt model.ModelOption
		if err := json.Unmarshal(item, &opt); err != nil {
			return nil, errors.Wrapf(err, "models array item %d", i)
		}
		if opt.ID == "" {
			return nil, errors.Errorf("models array item %d has no id", i)
		}
		out = append(out, opt)
	}
	return out, nil
}

func sortModels(models []model.ModelOption) {
	sort.Slice(models, func(i, j int) bool {
		if models[i].Provider != models[j].Provider {
			return models[i].Provider < models[j].Provider
		}
		return models[i].ID < models[j].ID
	})
}
