// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/agentdesk/internal/ui/styles"
)

// =============================================================================
// FIELDS
// =============================================================================

// FieldKind selects how a field edits its value.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldPassword
	FieldArea
	FieldChoice
	FieldToggle
)

// Choice is one option of a FieldChoice.
type Choice struct {
	Value string
	Label string
}

// Field is one labeled input of a Form.
type Field struct {
	Key   string
	Label string
	Kind  FieldKind

	input   textinput.Model
	area    textarea.Model
	choices []Choice
	choice  int
	on      bool
}

// TextField is a single-line input.
func TextField(key, label, placeholder string) Field {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.CharLimit = 512
	return Field{Key: key, Label: label, Kind: FieldText, input: in}
}

// PasswordField is a single-line input that does not echo.
func PasswordField(key, label string) Field {
	f := TextField(key, label, "")
	f.Kind = FieldPassword
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '*'
	return f
}

// AreaField is a multi-line input. Enter inserts a newline; ctrl+s submits.
func AreaField(key, label string) Field {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(4)
	ta.CharLimit = 0
	return Field{Key: key, Label: label, Kind: FieldArea, area: ta}
}

// ChoiceField cycles through options with left and right.
func ChoiceField(key, label string, choices []Choice) Field {
	return Field{Key: key, Label: label, Kind: FieldChoice, choices: append([]Choice(nil), choices...)}
}

// ToggleField is a boolean flipped with space.
func ToggleField(key, label string, on bool) Field {
	return Field{Key: key, Label: label, Kind: FieldToggle, on: on}
}

func (f Field) value() string {
	switch f.Kind {
	case FieldArea:
		return f.area.Value()
	case FieldChoice:
		if f.choice >= 0 && f.choice < len(f.choices) {
			return f.choices[f.choice].Value
		}
		return ""
	case FieldToggle:
		if f.on {
			return "true"
		}
		return "false"
	default:
		return f.input.Value()
	}
}

func (f *Field) setValue(v string) {
	switch f.Kind {
	case FieldArea:
		f.area.SetValue(v)
	case FieldChoice:
		for i, c := range f.choices {
			if c.Value == v {
				f.choice = i
				return
			}
		}
	case FieldToggle:
		f.on = v == "true"
	default:
		f.input.SetValue(v)
	}
}

func (f *Field) focus() tea.Cmd {
	switch f.Kind {
	case FieldArea:
		return f.area.Focus()
	case FieldText, FieldPassword:
		return f.input.Focus()
	}
	return nil
}

func (f *Field) blur() {
	switch f.Kind {
	case FieldArea:
		f.area.Blur()
	case FieldText, FieldPassword:
		f.input.Blur()
	}
}

func (f *Field) setWidth(w int) {
	switch f.Kind {
	case FieldArea:
		f.area.SetWidth(w)
	case FieldText, FieldPassword:
		f.input.Width = w
	}
}

// =============================================================================
// FORM
// =============================================================================

// FormAction is what the last key asked the form's owner to do.
type FormAction int

const (
	FormNone FormAction = iota
	FormSubmit
	FormCancel
)

// Form is an ordered set of fields with one focused at a time.
type Form struct {
	Title  string
	Err    string
	Notice string

	fields []Field
	focus  int
	width  int
}

// NewForm builds a form focused on its first field.
func NewForm(title string, fields ...Field) Form {
	f := Form{Title: title, fields: append([]Field(nil), fields...), width: 40}
	for i := range f.fields {
		f.fields[i].setWidth(f.width)
	}
	if len(f.fields) > 0 {
		f.fields[0].focus()
	}
	return f
}

// Init returns the cursor blink command.
func (f Form) Init() tea.Cmd {
	return textinput.Blink
}

// SetWidth resizes every field.
func (f Form) SetWidth(w int) Form {
	if w < 10 {
		w = 10
	}
	f.width = w
	f.fields = append([]Field(nil), f.fields...)
	for i := range f.fields {
		f.fields[i].setWidth(w)
	}
	return f
}

// Value returns the value of field key, or "".
func (f Form) Value(key string) string {
	if i := f.index(key); i >= 0 {
		return f.fields[i].value()
	}
	return ""
}

// Bool returns a toggle's state.
func (f Form) Bool(key string) bool {
	return f.Value(key) == "true"
}

// SetValue sets field key. For choices v must be one of the option values.
func (f Form) SetValue(key, v string) Form {
	i := f.index(key)
	if i < 0 {
		return f
	}
	f.fields = append([]Field(nil), f.fields...)
	f.fields[i].setValue(v)
	return f
}

// SetChoices replaces a choice field's options, keeping the current value
// when it is still offered.
func (f Form) SetChoices(key string, choices []Choice) Form {
	i := f.index(key)
	if i < 0 || f.fields[i].Kind != FieldChoice {
		return f
	}
	cur := f.fields[i].value()
	f.fields = append([]Field(nil), f.fields...)
	f.fields[i].choices = append([]Choice(nil), choices...)
	f.fields[i].choice = 0
	f.fields[i].setValue(cur)
	return f
}

// Focused returns the key of the focused field.
func (f Form) Focused() string {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return ""
	}
	return f.fields[f.focus].Key
}

// FocusField moves focus to key.
func (f Form) FocusField(key string) (Form, tea.Cmd) {
	i := f.index(key)
	if i < 0 {
		return f, nil
	}
	return f.moveFocus(i)
}

func (f Form) index(key string) int {
	for i, fl := range f.fields {
		if fl.Key == key {
			return i
		}
	}
	return -1
}

func (f Form) moveFocus(to int) (Form, tea.Cmd) {
	n := len(f.fields)
	if n == 0 {
		return f, nil
	}
	to = ((to % n) + n) % n
	f.fields = append([]Field(nil), f.fields...)
	f.fields[f.focus].blur()
	f.focus = to
	return f, f.fields[to].focus()
}

// Update routes keys: tab/shift+tab (and up/down outside text areas) move
// focus, enter submits outside text areas, ctrl+s always submits, esc cancels.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd, FormAction) {
	key, isKey := msg.(tea.KeyMsg)
	if !isKey || len(f.fields) == 0 {
		return f.updateFocused(msg)
	}

	cur := f.fields[f.focus]
	switch key.String() {
	case "esc":
		return f, nil, FormCancel
	case "ctrl+s":
		return f, nil, FormSubmit
	case "tab":
		f, cmd := f.moveFocus(f.focus + 1)
		return f, cmd, FormNone
	case "shift+tab":
		f, cmd := f.moveFocus(f.focus - 1)
		return f, cmd, FormNone
	case "down":
		if cur.Kind != FieldArea {
			f, cmd := f.moveFocus(f.focus + 1)
			return f, cmd, FormNone
		}
	case "up":
		if cur.Kind != FieldArea {
			f, cmd := f.moveFocus(f.focus - 1)
			return f, cmd, FormNone
		}
	case "enter":
		if cur.Kind != FieldArea {
			return f, nil, FormSubmit
		}
	}

	switch cur.Kind {
	case FieldChoice:
		if n := len(cur.choices); n > 0 {
			switch key.String() {
			case "left", "h":
				return f.withChoice((cur.choice - 1 + n) % n), nil, FormNone
			case "right", "l", " ":
				return f.withChoice((cur.choice + 1) % n), nil, FormNone
			}
		}
		return f, nil, FormNone
	case FieldToggle:
		if key.String() == " " || key.String() == "space" {
			f.fields = append([]Field(nil), f.fields...)
			f.fields[f.focus].on = !cur.on
		}
		return f, nil, FormNone
	}
	return f.updateFocused(msg)
}

func (f Form) withChoice(i int) Form {
	f.fields = append([]Field(nil), f.fields...)
	f.fields[f.focus].choice = i
	return f
}

func (f Form) updateFocused(msg tea.Msg) (Form, tea.Cmd, FormAction) {
	if len(f.fields) == 0 {
		return f, nil, FormNone
	}
	f.fields = append([]Field(nil), f.fields...)
	fl := &f.fields[f.focus]
	var cmd tea.Cmd
	switch fl.Kind {
	case FieldArea:
		fl.area, cmd = fl.area.Update(msg)
	case FieldText, FieldPassword:
		fl.input, cmd = fl.input.Update(msg)
	}
	return f, cmd, FormNone
}

// View renders the form inside the theme's form box.
func (f Form) View(theme *styles.Theme) string {
	var b strings.Builder
	if f.Title != "" {
		b.WriteString(theme.FormTitle.Render(f.Title))
		b.WriteString("\n")
	}
	for i, fl := range f.fields {
		label := theme.FormLabel
		if i == f.focus {
			label = theme.FormLabelFocused
		}
		b.WriteString(label.Render(fl.Label))
		b.WriteString("\n")
		b.WriteString(renderField(theme, fl, i == f.focus))
		b.WriteString("\n")
	}
	if f.Notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.FormNotice.Render(f.Notice))
	}
	if f.Err != "" {
		b.WriteString("\n")
		b.WriteString(theme.FormError.Render(f.Err))
	}
	return theme.FormBox.Render(strings.TrimRight(b.String(), "\n"))
}

func renderField(theme *styles.Theme, fl Field, focused bool) string {
	switch fl.Kind {
	case FieldArea:
		return fl.area.View()
	case FieldChoice:
		if len(fl.choices) == 0 {
			return theme.Muted.Render("(none available)")
		}
		label := fl.choices[fl.choice].Label
		if label == "" {
			label = fl.choices[fl.choice].Value
		}
		if focused {
			return theme.ListItemSelected.Render("< " + label + " >")
		}
		return theme.ListItem.Render(label)
	case FieldToggle:
		box := "[ ]"
		if fl.on {
			box = "[x]"
		}
		if focused {
			return lipgloss.NewStyle().Foreground(styles.FocusRing).Render(box)
		}
		return box
	default:
		return fl.input.View()
	}
}
