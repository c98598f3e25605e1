// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors matched with errors.Is against *Error.
var (
	// ErrUnauthorized matches 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("not found")
)

// Error is a failed backend call. Action names what the user was doing
// ("send message", "load agents") so the alert can say what failed.
type Error struct {
	Action  string
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s failed: %s", e.Action, e.Message)
	}
	return fmt.Sprintf("%s failed (HTTP %d): %s", e.Action, e.Status, e.Message)
}

// Is maps status codes to the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Forbidden reports a 403, where the user is known but lacks rights.
func (e *Error) Forbidden() bool {
	return e.Status == http.StatusForbidden
}

// ActionOf returns the action named by an *Error in err's chain, or "".
func ActionOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Action
	}
	return ""
}

// errorMessage extracts the human message from an error body. The backend puts
// it in "error", DRF in "detail"; field validation errors arrive as
// {"field": ["msg"]}. Falls back to the status text.
func errorMessage(status int, body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			if raw, ok := payload[key]; ok {
				if msg := flattenMessage(raw); msg != "" {
					return msg
				}
			}
		}

		fields := make([]string, 0, len(payload))
		for k := range payload {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		var parts []string
		for _, field := range fields {
			if msg := flattenMessage(payload[field]); msg != "" {
				if field == "non_field_errors" {
					parts = append(parts, msg)
				} else {
					parts = append(parts, field+": "+msg)
				}
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}

	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

// flattenMessage accepts a string or a list of strings.
func flattenMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.TrimSpace(strings.Join(list, " "))
	}
	return ""
}
