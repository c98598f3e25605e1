// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/ui/components"
)

// Agent form field keys. They match the backend field names so validation
// errors can point at them.
const (
	fieldName         = "name"
	fieldDescription  = "description"
	fieldType         = "agent_type"
	fieldFirstPrompt  = "first_prompt"
	fieldModel        = "llm_model"
	fieldSystemPrompt = "system_prompt"
	fieldTemperature  = "temperature"
	fieldMaxTokens    = "max_tokens"
	fieldCategories   = "categories"
	fieldActive       = "is_active"
)

// agentForm edits one agent. id is 0 when creating.
type agentForm struct {
	id   int64
	form components.Form
}

func typeChoices() []components.Choice {
	return []components.Choice{
		{Value: string(model.AgentTypeClient), Label: model.AgentTypeClient.DisplayName()},
		{Value: string(model.AgentTypeMetier), Label: model.AgentTypeMetier.DisplayName()},
	}
}

// modelChoices lists the available models, keeping current selectable even
// when the backend no longer offers it.
func modelChoices(models []model.ModelOption, current string) []components.Choice {
	out := make([]components.Choice, 0, len(models)+1)
	found := false
	for _, m := range models {
		out = append(out, components.Choice{Value: m.ID, Label: m.Label()})
		if m.ID == current {
			found = true
		}
	}
	if !found && current != "" {
		out = append(out, components.Choice{Value: current, Label: current + " (unavailable)"})
	}
	return out
}

func defaultModel(models []model.ModelOption) string {
	if len(models) == 0 {
		return ""
	}
	return models[0].ID
}

func newAgentForm(id int64, in model.AgentInput, models []model.ModelOption) agentForm {
	title := "New agent"
	if id != 0 {
		title = "Edit agent"
	}
	f := components.NewForm(title,
		components.TextField(fieldName, "Name", "Support assistant"),
		components.TextField(fieldDescription, "Description", ""),
		components.ChoiceField(fieldType, "Type", typeChoices()),
		components.TextField(fieldFirstPrompt, "First prompt (metier)", "Bonjour, ..."),
		components.ChoiceField(fieldModel, "Model", modelChoices(models, in.Model)),
		components.AreaField(fieldSystemPrompt, "System prompt"),
		components.TextField(fieldTemperature, "Temperature (0.0 - 2.0)", ""),
		components.TextField(fieldMaxTokens, "Max tokens", ""),
		components.TextField(fieldCategories, "Categories (comma separated)", "sales, support"),
		components.ToggleField(fieldActive, "Active", in.IsActive),
	)
	typ := in.Type
	if typ == "" {
		typ = model.AgentTypeClient
	}
	f = f.SetValue(fieldName, in.Name).
		SetValue(fieldDescription, in.Description).
		SetValue(fieldType, string(typ)).
		SetValue(fieldFirstPrompt, in.FirstPrompt).
		SetValue(fieldModel, in.Model).
		SetValue(fieldSystemPrompt, in.SystemPrompt).
		SetValue(fieldTemperature, strconv.FormatFloat(in.Temperature, 'f', -1, 64)).
		SetValue(fieldMaxTokens, strconv.Itoa(in.MaxTokens)).
		SetValue(fieldCategories, strings.Join(in.Categories, ", "))
	return agentForm{id: id, form: f}
}

// withModels refreshes the model choices once they arrive.
func (a agentForm) withModels(models []model.ModelOption) agentForm {
	cur := a.form.Value(fieldModel)
	a.form = a.form.SetChoices(fieldModel, modelChoices(models, cur))
	if cur == "" {
		a.form = a.form.SetValue(fieldModel, defaultModel(models))
	}
	return a
}

// input reads the form back. Numeric fields that do not parse are reported
// as validation errors alongside the rest.
func (a agentForm) input() (model.AgentInput, error) {
	in := model.AgentInput{
		Name:         strings.TrimSpace(a.form.Value(fieldName)),
		Description:  strings.TrimSpace(a.form.Value(fieldDescription)),
		Type:         model.AgentType(a.form.Value(fieldType)),
		FirstPrompt:  strings.TrimSpace(a.form.Value(fieldFirstPrompt)),
		Model:        a.form.Value(fieldModel),
		SystemPrompt: strings.TrimSpace(a.form.Value(fieldSystemPrompt)),
		Categories:   model.ParseCategories(a.form.Value(fieldCategories)),
		IsActive:     a.form.Bool(fieldActive),
	}

	var errs model.ValidationErrors
	temp, err := strconv.ParseFloat(strings.TrimSpace(a.form.Value(fieldTemperature)), 64)
	if err != nil {
		errs = append(errs, model.ValidationError{Field: fieldTemperature, Message: "temperature must be a number"})
	}
	in.Temperature = temp
	tokens, err := strconv.Atoi(strings.TrimSpace(a.form.Value(fieldMaxTokens)))
	if err != nil {
		errs = append(errs, model.ValidationError{Field: fieldMaxTokens, Message: "max tokens must be a whole number"})
	}
	in.MaxTokens = tokens

	var verrs model.ValidationErrors
	if errors.As(in.Validate(), &verrs) {
		for _, v := range verrs {
			// Parse failures already explain the numeric fields.
			if !hasField(errs, v.Field) {
				errs = append(errs, v)
			}
		}
	}
	if len(errs) > 0 {
		return in, errs
	}
	return in, nil
}

func hasField(errs model.ValidationErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}
