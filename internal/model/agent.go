// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// =============================================================================
// AGENT TYPE
// =============================================================================

// AgentType distinguishes responding agents from conversation-opening ones.
type AgentType string

const (
	// AgentTypeClient answers user input.
	AgentTypeClient AgentType = "client"
	// AgentTypeMetier opens a conversation with a fixed first message.
	AgentTypeMetier AgentType = "metier"
)

// DisplayName returns a human-readable label for the type.
func (t AgentType) DisplayName() string {
	switch t {
	case AgentTypeMetier:
		return "Metier"
	case AgentTypeClient, "":
		return "Client"
	default:
		return string(t)
	}
}

// Valid reports whether t is a known agent type.
func (t AgentType) Valid() bool {
	return t == AgentTypeClient || t == AgentTypeMetier
}

// Defaults applied by the admin form and the backend.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
	MaxTemperature     = 2.0
)

// =============================================================================
// AGENT
// =============================================================================

// Agent is an LLM persona configured by administrators.
type Agent struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Type         AgentType `json:"agent_type,omitempty"`
	FirstPrompt  string    `json:"first_prompt,omitempty"`
	Model        string    `json:"llm_model"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Temperature  float64   `json:"temperature,omitempty"`
	MaxTokens    int       `json:"max_tokens,omitempty"`
	Categories   []string  `json:"categories"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EffectiveType treats a missing type as client, which is the backend default.
func (a Agent) EffectiveType() AgentType {
	if a.Type == "" {
		return AgentTypeClient
	}
	return a.Type
}

// Label renders "name (model)" as used in agent pickers.
func (a Agent) Label() string {
	if a.Model == "" {
		return a.Name
	}
	return a.Name + " (" + a.Model + ")"
}

// Input converts the agent into an editable form payload.
func (a Agent) Input() AgentInput {
	cats := make([]string, len(a.Categories))
	copy(cats, a.Categories)
	return AgentInput{
		Name:         a.Name,
		Description:  a.Description,
		Type:         a.EffectiveType(),
		FirstPrompt:  a.FirstPrompt,
		Model:        a.Model,
		SystemPrompt: a.SystemPrompt,
		Temperature:  a.Temperature,
		MaxTokens:    a.MaxTokens,
		Categories:   cats,
		IsActive:     a.IsActive,
	}
}

// FilterAgents returns the agents of the given type, preserving order.
func FilterAgents(agents []Agent, t AgentType) []Agent {
	out := make([]Agent, 0, len(agents))
	for _, a := range agents {
		if a.EffectiveType() == t {
			out = append(out, a)
		}
	}
	return out
}

// FindAgent returns the agent with the given id.
func FindAgent(agents []Agent, id int64) (Agent, bool) {
	for _, a := range agents {
		if a.ID == id {
			return a, true
		}
	}
	return Agent{}, false
}

// =============================================================================
// AGENT INPUT
// =============================================================================

// AgentInput is the create/update payload for an agent.
type AgentInput struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Type         AgentType `json:"agent_type"`
	FirstPrompt  string    `json:"first_prompt"`
	Model        string    `json:"llm_model"`
	SystemPrompt string    `json:"system_prompt"`
	Temperature  float64   `json:"temperature"`
	MaxTokens    int       `json:"max_tokens"`
	Categories   []string  `json:"categories"`
	IsActive     bool      `json:"is_active"`
}

// NewAgentInput returns the blank form with backend defaults.
func NewAgentInput(defaultModel string) AgentInput {
	return AgentInput{
		Type:        AgentTypeClient,
		Model:       defaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Categories:  []string{},
		IsActive:    true,
	}
}

// Validate checks required fields and ranges.
func (in AgentInput) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(in.Model) == "" {
		errs = append(errs, ValidationError{Field: "llm_model", Message: "model is required"})
	}
	if strings.TrimSpace(in.SystemPrompt) == "" {
		errs = append(errs, ValidationError{Field: "system_prompt", Message: "system prompt is required"})
	}
	if in.Temperature < 0 || in.Temperature > MaxTemperature {
		errs = append(errs, ValidationError{Field: "temperature", Message: "temperature must be between 0.0 and 2.0"})
	}
	if in.MaxTokens <= 0 {
		errs = append(errs, ValidationError{Field: "max_tokens", Message: "max tokens must be positive"})
	}
	if in.Type != "" && !in.Type.Valid() {
		errs = append(errs, ValidationError{Field: "agent_type", Message: "type must be client or metier"})
	}
	if in.Type == AgentTypeMetier && strings.TrimSpace(in.FirstPrompt) == "" {
		errs = append(errs, ValidationError{Field: "first_prompt", Message: "metier agents need a first prompt"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParseCategories splits a comma separated list, dropping blanks and duplicates.
func ParseCategories(s string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		c := strings.TrimSpace(part)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// =============================================================================
// MODEL OPTIONS
// =============================================================================

// ModelOption is a selectable LLM identifier exposed by the backend.
type ModelOption struct {
	ID                string `json:"id"`
	DisplayName       string `json:"display_name"`
	Provider          string `json:"provider"`
	ModelName         string `json:"model_name,omitempty"`
	MaxTokensLimit    int    `json:"max_tokens_limit,omitempty"`
	SupportsStreaming bool   `json:"supports_streaming,omitempty"`
}

// Label returns the display name, falling back to the id.
func (m ModelOption) Label() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.ID
}
