// Package card is the generic view/edit container every section mounts into.
// A card owns exactly two pieces of state, its mode and its form, and knows
// nothing about the shape of the record it hosts. All validation and
// submission behavior lives in the form engine; the card runs the mode
// transitions, the toasts, and the cache invalidation that follow a save.
package card

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"griddesk/internal/api"
	"griddesk/internal/form"
	"griddesk/internal/logging"
	"griddesk/internal/notify"
)

// Mode is the card's display mode.
type Mode int

const (
	ModeView Mode = iota
	ModeEdit
)

// Deps are the card's injected side effects. Notifier posts toasts,
// Invalidate drops the owning site's cached aggregate after a successful
// save, OnSaved optionally schedules a follow-up command (the general-info
// card uses it to fire the telemetry resync).
type Deps struct {
	Notifier   *notify.Center
	Invalidate func()
	OnSaved    func(values map[string]any, ack form.Ack) tea.Cmd
}

// Card hosts one editable record.
type Card struct {
	title       string
	slug        string
	mode        Mode
	form        form.Form
	editAllowed bool
	deps        Deps
}

// New builds a card around an already-initialized form.
func New(title string, f form.Form, deps Deps) Card {
	return Card{
		title:       title,
		slug:        Slug(title),
		form:        f,
		editAllowed: true,
		deps:        deps,
	}
}

// Slug derives the automation identifier stem from a title: lowercased,
// spaces replaced with underscores.
func Slug(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "_")
}

// TestID is the deterministic automation identifier of the edit affordance.
func (c Card) TestID() string { return c.slug + "-edit-btn" }

// Title returns the display title.
func (c Card) Title() string { return c.title }

// Mode returns the current display mode.
func (c Card) Mode() Mode { return c.mode }

// Section returns the wire name of the hosted section.
func (c Card) Section() string { return c.form.Schema.Section }

// EditAllowed reports whether the edit affordance is active.
func (c Card) EditAllowed() bool { return c.editAllowed }

// State exposes the form's reflected state.
func (c Card) State() form.State { return c.form.State() }

// SaveEnabled gates the save action: valid, dirty, and not mid-submit.
func (c Card) SaveEnabled() bool {
	st := c.form.State()
	return st.Valid && st.Dirty && !st.Submitting
}

// CancelEnabled gates the cancel action: anything but mid-submit.
func (c Card) CancelEnabled() bool {
	return !c.form.State().Submitting
}

// SetEditAllowed flips the external edit predicate. Losing the permission
// while editing forces the card back to view and discards the edits, which
// is what happens when a device is decommissioned mid-edit.
func (c Card) SetEditAllowed(allowed bool) Card {
	c.editAllowed = allowed
	if !allowed && c.mode == ModeEdit {
		c.form = c.form.Blur().Reset()
		c.mode = ModeView
		logging.Cards("%s: edit revoked, forced back to view", c.slug)
	}
	return c
}

// SetRecord replaces the backing record. The form resets to the fresh
// defaults unconditionally; an in-progress edit is silently discarded, so a
// toast tells the operator what happened.
func (c Card) SetRecord(rec map[string]any) Card {
	discarding := c.mode == ModeEdit && c.form.State().Dirty
	c.form = c.form.SetRecord(rec)
	if discarding && c.deps.Notifier != nil {
		c.deps.Notifier.Info(c.title + " was refreshed; unsaved edits were discarded")
	}
	return c
}

// Edit transitions view -> edit when the external predicate allows it.
func (c Card) Edit() Card {
	if c.mode != ModeView || !c.editAllowed {
		return c
	}
	c.mode = ModeEdit
	c.form = c.form.Focus()
	logging.CardsDebug("%s: view -> edit", c.slug)
	return c
}

// Cancel discards edits and returns to view. Ignored mid-submit.
func (c Card) Cancel() Card {
	if c.mode != ModeEdit || !c.CancelEnabled() {
		return c
	}
	c.form = c.form.Blur().Reset()
	c.mode = ModeView
	logging.CardsDebug("%s: edit -> view (cancel)", c.slug)
	return c
}

// Save validates and, when the gate passes, fires the single update call.
func (c Card) Save() (Card, tea.Cmd) {
	if c.mode != ModeEdit || !c.SaveEnabled() {
		return c, nil
	}
	var cmd tea.Cmd
	c.form, cmd = c.form.Submit()
	return c, cmd
}

// Update processes one message. The hosting page routes key messages only to
// the focused card; result messages are broadcast and matched by section.
func (c Card) Update(msg tea.Msg) (Card, tea.Cmd) {
	switch msg := msg.(type) {
	case form.ResultMsg:
		if msg.Section != c.Section() {
			return c, nil
		}
		return c.applyResult(msg)

	case tea.KeyMsg:
		return c.handleKey(msg)
	}
	return c, nil
}

func (c Card) handleKey(msg tea.KeyMsg) (Card, tea.Cmd) {
	switch c.mode {
	case ModeView:
		switch msg.String() {
		case "e", "enter":
			return c.Edit(), nil
		}
		return c, nil

	case ModeEdit:
		switch msg.String() {
		case "esc":
			return c.Cancel(), nil
		case "enter":
			return c.Save()
		case "tab", "down":
			c.form = c.form.FocusNext()
			return c, nil
		case "shift+tab", "up":
			c.form = c.form.FocusPrev()
			return c, nil
		default:
			var cmd tea.Cmd
			c.form, cmd = c.form.Update(msg)
			return c, cmd
		}
	}
	return c, nil
}

func (c Card) applyResult(msg form.ResultMsg) (Card, tea.Cmd) {
	c.form = c.form.ApplyResult(msg)

	if msg.Err != nil {
		// Stay in edit with the operator's input intact.
		if c.deps.Notifier != nil {
			c.deps.Notifier.Error(api.Message(msg.Err), c.form.Schema.Fallbacks.SaveError)
		}
		logging.Cards("%s: save failed: %v", c.slug, msg.Err)
		return c, nil
	}

	if c.deps.Notifier != nil {
		c.deps.Notifier.Success(msg.Ack.Message, c.form.Schema.Fallbacks.SaveSuccess)
	}
	if c.deps.Invalidate != nil {
		c.deps.Invalidate()
	}
	c.form = c.form.Blur()
	c.mode = ModeView
	logging.Cards("%s: saved", c.slug)

	var cmd tea.Cmd
	if c.deps.OnSaved != nil {
		cmd = c.deps.OnSaved(msg.Values, msg.Ack)
	}
	return c, cmd
}
