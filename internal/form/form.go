// Package form is the single generic form engine behind every card. A card
// hands it a Schema and the section's record; the engine owns the edit
// buffers, runs validation on every change, and turns a save into one
// partial-update command whose result flows back as a ResultMsg.
package form

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// State is the reflected form state the hosting card reads to gate its
// buttons. Valid and Dirty are recomputed from the edit buffers on demand.
type State struct {
	Valid      bool
	Dirty      bool
	Submitting bool
}

// Ack is a successful submit answer.
type Ack struct {
	Message string // backend-provided toast text, may be empty
	Resync  bool   // the save suggests a telemetry resync follow-up
}

// SubmitFunc issues the single update call for a section. The values map
// holds every field key; cleared fields are nil.
type SubmitFunc func(ctx context.Context, values map[string]any) (Ack, error)

// ResultMsg reports a finished submit. It carries the edit snapshot taken at
// submission time so a success can pin the displayed values to exactly what
// was sent, without waiting for a re-fetch.
type ResultMsg struct {
	Section string
	Ack     Ack
	Err     error
	Values  map[string]any
	edits   []string
}

// Form is an immutable-style bubbletea sub-model, one per card.
type Form struct {
	Schema Schema

	inputs     []textinput.Model
	defaults   []string // edit strings derived from the backing record
	errors     []string // inline message per field, "" when clean
	focus      int
	submitting bool
	submit     SubmitFunc
}

// New builds a form over the given record. The record is read once; the
// engine keeps only the derived edit strings.
func New(schema Schema, rec map[string]any, submit SubmitFunc) Form {
	f := Form{
		Schema:   schema,
		inputs:   make([]textinput.Model, len(schema.Fields)),
		defaults: make([]string, len(schema.Fields)),
		errors:   make([]string, len(schema.Fields)),
		submit:   submit,
	}
	for i, fd := range schema.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fd.Placeholder
		f.inputs[i] = ti
	}
	return f.SetRecord(rec)
}

// SetRecord replaces the backing record. Defaults are re-derived and any
// in-progress edits are discarded unconditionally.
func (f Form) SetRecord(rec map[string]any) Form {
	for i, fd := range f.Schema.Fields {
		f.defaults[i] = EditValue(fd, rec)
	}
	return f.Reset()
}

// Reset restores every edit buffer to its default and clears inline errors.
// Resetting an already-clean form is a no-op, so it is safe to call twice.
func (f Form) Reset() Form {
	for i := range f.inputs {
		f.inputs[i].SetValue(f.defaults[i])
		f.inputs[i].CursorEnd()
		f.errors[i] = ""
	}
	return f
}

// State recomputes the reflected state from the current edit buffers.
func (f Form) State() State {
	st := State{Valid: true, Submitting: f.submitting}
	for i, fd := range f.Schema.Fields {
		if Check(f.inputs[i].Value(), fd.Rules) != "" {
			st.Valid = false
		}
		if f.inputs[i].Value() != f.defaults[i] {
			st.Dirty = true
		}
	}
	return st
}

// Update feeds a message to the focused input and re-validates it. Input is
// frozen while a submit is in flight.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if f.submitting || len(f.inputs) == 0 {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.errors[f.focus] = Check(f.inputs[f.focus].Value(), f.Schema.Fields[f.focus].Rules)
	return f, cmd
}

// Focus gives keyboard focus to the current field.
func (f Form) Focus() Form {
	return f.setFocus(f.focus)
}

// Blur removes keyboard focus from every field.
func (f Form) Blur() Form {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f
}

// FocusNext moves focus to the next field, wrapping around.
func (f Form) FocusNext() Form {
	if len(f.inputs) == 0 {
		return f
	}
	return f.setFocus((f.focus + 1) % len(f.inputs))
}

// FocusPrev moves focus to the previous field, wrapping around.
func (f Form) FocusPrev() Form {
	if len(f.inputs) == 0 {
		return f
	}
	return f.setFocus((f.focus - 1 + len(f.inputs)) % len(f.inputs))
}

func (f Form) setFocus(i int) Form {
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	f.focus = i
	return f
}

// Submit validates every field and, when all pass, marks the form submitting
// and returns the command that performs the single update call. On any
// validation failure it surfaces the inline errors and returns no command.
func (f Form) Submit() (Form, tea.Cmd) {
	if f.submitting {
		return f, nil
	}
	invalid := false
	for i, fd := range f.Schema.Fields {
		f.errors[i] = Check(f.inputs[i].Value(), fd.Rules)
		if f.errors[i] != "" {
			invalid = true
		}
	}
	if invalid {
		return f, nil
	}

	values := f.WireValues()
	edits := make([]string, len(f.inputs))
	for i := range f.inputs {
		edits[i] = f.inputs[i].Value()
	}
	f.submitting = true

	section := f.Schema.Section
	submit := f.submit
	return f, func() tea.Msg {
		ack, err := submit(context.Background(), values)
		return ResultMsg{Section: section, Ack: ack, Err: err, Values: values, edits: edits}
	}
}

// ApplyResult folds a finished submit back in. Success adopts the submitted
// edit snapshot as the new defaults, so the form shows exactly what was sent.
// Failure only releases the submitting latch; edits and errors stay put.
func (f Form) ApplyResult(msg ResultMsg) Form {
	f.submitting = false
	if msg.Err != nil {
		return f
	}
	copy(f.defaults, msg.edits)
	return f.Reset()
}

// WireValues builds the full update payload from the current edit buffers.
func (f Form) WireValues() map[string]any {
	values := make(map[string]any, len(f.Schema.Fields))
	for i, fd := range f.Schema.Fields {
		values[fd.Key] = WireValue(fd, f.inputs[i].Value())
	}
	return values
}

// FieldCount reports the number of rendered inputs.
func (f Form) FieldCount() int { return len(f.inputs) }

// FocusIndex reports which field currently has focus.
func (f Form) FocusIndex() int { return f.focus }

// Value returns the raw edit string of field i.
func (f Form) Value(i int) string { return f.inputs[i].Value() }

// SetValue overwrites the edit string of field i and re-validates it.
// Exposed for scripted edits; interactive input goes through Update.
func (f Form) SetValue(i int, v string) Form {
	f.inputs[i].SetValue(v)
	f.inputs[i].CursorEnd()
	f.errors[i] = Check(v, f.Schema.Fields[i].Rules)
	return f
}

// Error returns the inline validation message of field i, "" when clean.
func (f Form) Error(i int) string { return f.errors[i] }

// InputView renders the text input of field i.
func (f Form) InputView(i int) string { return f.inputs[i].View() }

// DisplayValue renders field i for the read-only card view. It derives from
// the defaults, not the live edit buffer, so view mode always shows the last
// committed state.
func (f Form) DisplayValue(i int) string {
	return displayValue(f.Schema.Fields[i], f.defaults[i])
}
