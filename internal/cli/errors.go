// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit codes for CLI commands.
//
// Commands always return errors; Execute prints them once and maps them to an
// exit code.

package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jeranaias/agentdesk/internal/api"
	"github.com/jeranaias/agentdesk/internal/model"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates authentication or authorization failure
	ExitAuthError = 4
	// ExitNetworkError indicates the backend could not be reached
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrNotLoggedIn is returned by commands that need a stored session.
var ErrNotLoggedIn = errors.New("not logged in; run 'agentdesk login'")

// ErrSessionExpired wraps a 401 from the backend after the stored session was cleared.
var ErrSessionExpired = errors.New("session expired; run 'agentdesk login'")

// ErrCancelled is returned when the user declines a confirmation.
var ErrCancelled = errors.New("cancelled")

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NotFoundError represents a resource that does not exist locally or remotely.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConfigError wraps a configuration load or validation failure.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// usageError marks bad flags or arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

// =============================================================================
// HELPERS
// =============================================================================

// parseID parses a positional id argument.
func parseID(resource, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Field: resource + " id", Value: arg, Reason: "must be a positive integer"}
	}
	return id, nil
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		validation *ValidationError
		notFound   *NotFoundError
		cfgErr     *ConfigError
		modelErrs  model.ValidationErrors
		modelErr   model.ValidationError
		apiErr     *api.Error
		usage      *usageError
	)
	switch {
	case errors.Is(err, ErrNotLoggedIn), errors.Is(err, ErrSessionExpired), errors.Is(err, api.ErrUnauthorized):
		return ExitAuthError
	case errors.As(err, &notFound), errors.Is(err, api.ErrNotFound):
		return ExitNotFoundError
	case errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.As(err, &usage), errors.As(err, &validation), errors.As(err, &modelErrs), errors.As(err, &modelErr):
		return ExitUsageError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.As(err, &apiErr) && apiErr.Status == 0:
		return ExitNetworkError
	}
	return ExitGeneralError
}
