package card

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"griddesk/internal/api"
	"griddesk/internal/form"
	"griddesk/internal/notify"
	"griddesk/internal/schema"
	"griddesk/internal/ui"
)

func leaseRecord() map[string]any {
	return map[string]any{
		"lessor_name":      "Acme Land Co",
		"annual_rent":      125000.0,
		"lease_expiration": "2030-06-01",
		"contact_phone":    "3125557890",
		"contact_email":    "lease@acmeland.com",
	}
}

type testEnv struct {
	notifier    *notify.Center
	invalidated int
	submitErr   error
	submitAck   form.Ack
	submitted   []map[string]any
}

func (e *testEnv) submit(_ context.Context, values map[string]any) (form.Ack, error) {
	e.submitted = append(e.submitted, values)
	return e.submitAck, e.submitErr
}

func newLeaseCard(e *testEnv) Card {
	sch := schema.SiteLease()
	f := form.New(sch, leaseRecord(), e.submit)
	return New(sch.Title, f, Deps{
		Notifier:   e.notifier,
		Invalidate: func() { e.invalidated++ },
	})
}

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	panic("unknown key " + s)
}

// Drives a card through one form-level edit without going through terminal
// key events.
func setField(c Card, i int, v string) Card {
	c.form = c.form.SetValue(i, v)
	return c
}

func TestMountsInViewWithAutomationID(t *testing.T) {
	e := &testEnv{notifier: notify.NewCenter(10)}
	c := newLeaseCard(e)

	if c.Mode() != ModeView {
		t.Fatal("cards mount in view mode")
	}
	if got := c.TestID(); got != "site_lease-edit-btn" {
		t.Errorf("TestID = %q", got)
	}

	view := c.View(ui.NewStyles(ui.LightTheme()), 80, false)
	if !strings.Contains(view, c.TestID()) {
		t.Error("view mode must render the edit affordance identifier")
	}
}

func TestSlugDerivation(t *testing.T) {
	cases := map[string]string{
		"Site Lease":         "site_lease",
		"Insurance Provider": "insurance_provider",
		"Compliance":         "compliance",
		"Site Level Details": "site_level_details",
	}
	for title, want := range cases {
		if got := Slug(title); got != want {
			t.Errorf("Slug(%q) = %q, want %q", title, got, want)
		}
	}
}

func TestEditTransitionRendersAllControls(t *testing.T) {
	e := &testEnv{notifier: notify.NewCenter(10)}
	c := newLeaseCard(e)

	c, _ = c.Update(key("e"))
	if c.Mode() != ModeEdit {
		t.Fatal("e key must enter edit mode")
	}
	if got := c.form.FieldCount(); got != 5 {
		t.Errorf("site lease renders %d controls, want 5", got)
	}
}

func TestEditBlockedWhenNotAllowed(t *testing.T) {
	e := &testEnv{notifier: notify.NewCenter(10)}
	c := newLeaseCard(e).SetEditAllowed(false)

	c, _ = c.Update(key("e"))
	if c.Mode() != ModeView {
		t.Error("edit must be blocked while the predicate is false")
	}
}

func TestEditRevokedMidEditForcesView(t *testing.T) {
	e := &testEnv{notifier: notify.NewCenter(10)}
	c := newLeaseCard(e).Edit()
	c = setField(c, 0, "New Lessor LLC")

	c = c.SetEditAllowed(false)
	if c.Mode() != ModeView {
		t.Fatal("revoking edit permission mid-edit must force view mode")
	}
	if c.State().Dirty {
		t.Error("forced view must discard the edits")
	}
}

func TestCancelDiscardsEdits(t *testing.T) {
	e := &testEnv{notifier: notify.NewCenter(10)}
	c := newLeaseCard(e).Edit()
	c = setField(c, 0, "New Lessor LLC")

	c, _ = c.Update(key("esc"))
	if c.Mode() != ModeView {
		t.Fatal("esc must cancel back to view")
	}
	if c.State().Dirty {
		t.Error("cancel must restore the defaults")
	}
	if len(e.submitted) != 0 {
		t.Error("cancel must not submit")
	}
}

func TestSaveGates(t *testing.T) {
	e := &testEnv{notifier: notify.NewCenter(10)}
	c := newLeaseCard(e).Edit()

	// Clean form: valid but not dirty.
	if c.SaveEnabled() {
		t.Error("clean form must not be savable")
	}

	// Dirty but invalid.
	c = setField(c, 0, "")
	if c.SaveEnabled() {
		t.Error("invalid form must not be savable")
	}

	// Dirty and valid.
	c = setField(c, 0, "New Lessor LLC")
	if !c.SaveEnabled() {
		t.Error("valid dirty form must be savable")
	}

	// Mid-submit: neither save nor cancel.
	c, cmd := c.Save()
	if cmd == nil {
		t.Fatal("save must produce the submit command")
	}
	if c.SaveEnabled() {
		t.Error("in-flight submit must disable save")
	}
	if c.CancelEnabled() {
		t.Error("in-flight submit must disable cancel")
	}
}

func TestSaveSuccessFlow(t *testing.T) {
	e := &testEnv{notifier: notify.NewCenter(10), submitAck: form.Ack{Message: "Site lease updated"}}
	c := newLeaseCard(e).Edit()
	c = setField(c, 0, "New Lessor LLC")

	c, cmd := c.Update(key("enter"))
	if cmd == nil {
		t.Fatal("enter on a savable form must submit")
	}

	c, _ = c.Update(cmd())
	if c.Mode() != ModeView {
		t.Fatal("successful save must return to view")
	}
	if got := c.form.DisplayValue(0); got != "New Lessor LLC" {
		t.Errorf("view shows %q, want the submitted value", got)
	}
	if e.invalidated != 1 {
		t.Errorf("invalidate called %d times, want 1", e.invalidated)
	}
	if n, ok := e.notifier.Latest(); !ok || n.Level != notify.LevelSuccess || n.Message != "Site lease updated" {
		t.Errorf("toast = %+v", n)
	}
}

func TestSaveSuccessFallbackMessage(t *testing.T) {
	e := &testEnv{notifier: notify.NewCenter(10)} // server message empty
	c := newLeaseCard(e).Edit()
	c = setField(c, 0, "New Lessor LLC")

	c, cmd := c.Save()
	c, _ = c.Update(cmd())

	if n, _ := e.notifier.Latest(); n.Message != "Site lease saved" {
		t.Errorf("fallback toast = %q", n.Message)
	}
	if c.Mode() != ModeView {
		t.Error("save should have completed")
	}
}

func TestSaveFailureKeepsEditMode(t *testing.T) {
	e := &testEnv{
		notifier:  notify.NewCenter(10),
		submitErr: api.NewError(422, "annual_rent out of range"),
	}
	c := newLeaseCard(e).Edit()
	c = setField(c, 1, "999,999,999")

	c, cmd := c.Save()
	c, _ = c.Update(cmd())

	if c.Mode() != ModeEdit {
		t.Fatal("failed save must stay in edit mode")
	}
	if got := c.form.Value(1); got != "999,999,999" {
		t.Errorf("input after failure = %q, must be intact", got)
	}
	if e.invalidated != 0 {
		t.Error("failed save must not invalidate the cache")
	}
	if n, _ := e.notifier.Latest(); n.Level != notify.LevelError || n.Message != "annual_rent out of range" {
		t.Errorf("toast = %+v", n)
	}
	if !c.SaveEnabled() {
		t.Error("save must re-arm after the failure")
	}
}

func TestSaveFailureFallbackMessage(t *testing.T) {
	e := &testEnv{notifier: notify.NewCenter(10), submitErr: context.DeadlineExceeded}
	c := newLeaseCard(e).Edit()
	c = setField(c, 0, "New Lessor LLC")

	c, cmd := c.Save()
	c, _ = c.Update(cmd())

	if n, _ := e.notifier.Latest(); n.Message != "Failed to update site lease" {
		t.Errorf("fallback toast = %q", n.Message)
	}
}

func TestRecordSwapResetsEditsButKeepsMode(t *testing.T) {
	e := &testEnv{notifier: notify.NewCenter(10)}
	c := newLeaseCard(e).Edit()
	c = setField(c, 0, "half-typed")

	rec := leaseRecord()
	rec["lessor_name"] = "Replacement Holdings"
	c = c.SetRecord(rec)

	if c.Mode() != ModeEdit {
		t.Error("record swap keeps the current mode")
	}
	if c.State().Dirty {
		t.Error("record swap resets the edits")
	}
	if got := c.form.Value(0); got != "Replacement Holdings" {
		t.Errorf("value after swap = %q", got)
	}
	if n, ok := e.notifier.Latest(); !ok || n.Level != notify.LevelInfo {
		t.Errorf("silent discard must surface a toast, got %+v", n)
	}
}

func TestResultForOtherSectionIgnored(t *testing.T) {
	e := &testEnv{notifier: notify.NewCenter(10)}
	c := newLeaseCard(e).Edit()
	c = setField(c, 0, "New Lessor LLC")

	c, _ = c.Update(form.ResultMsg{Section: "tax_equity"})
	if c.Mode() != ModeEdit {
		t.Error("a result for another section must not touch this card")
	}
	if e.invalidated != 0 {
		t.Error("no invalidation for foreign results")
	}
}

func TestOnSavedHookFires(t *testing.T) {
	fired := false
	e := &testEnv{notifier: notify.NewCenter(10), submitAck: form.Ack{Resync: true}}

	sch := schema.GeneralInfo()
	f := form.New(sch, map[string]any{"device_name": "INV-01"}, e.submit)
	c := New(sch.Title, f, Deps{
		Notifier:   e.notifier,
		Invalidate: func() { e.invalidated++ },
		OnSaved: func(_ map[string]any, ack form.Ack) tea.Cmd {
			if !ack.Resync {
				return nil
			}
			fired = true
			return nil
		},
	})

	c = c.Edit()
	c = setField(c, 0, "INV-01-renamed")
	c, cmd := c.Save()
	c, _ = c.Update(cmd())

	if !fired {
		t.Error("resync follow-up must fire on a resync-flagged success")
	}
	if c.Mode() != ModeView {
		t.Error("primary save still completes")
	}
}

func TestEditModeViewRendersErrorsAndButtons(t *testing.T) {
	e := &testEnv{notifier: notify.NewCenter(10)}
	c := newLeaseCard(e).Edit()
	c = setField(c, 0, "")

	view := c.View(ui.NewStyles(ui.LightTheme()), 80, true)
	if !strings.Contains(view, "This field is required") {
		t.Error("edit view must render inline errors")
	}
	if !strings.Contains(view, "Save") || !strings.Contains(view, "Cancel") {
		t.Error("edit view must render the actions")
	}
	if strings.Contains(view, c.TestID()) {
		t.Error("edit mode must hide the edit affordance")
	}
}
