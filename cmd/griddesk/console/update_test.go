package console

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"griddesk/internal/api"
	"griddesk/internal/card"
	"griddesk/internal/config"
	"griddesk/internal/form"
	"griddesk/internal/notify"
)

func newTestModel() Model {
	m := New(Options{
		Config:   config.Default(),
		Client:   api.NewClient("http://127.0.0.1:0", "", time.Second),
		Notifier: notify.NewCenter(10),
	})
	m = m.handleResize(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func testPage() *api.SitePage {
	return &api.SitePage{
		Site: api.NewSiteAggregate("S-42", "Prairie Ridge", "operational", map[string]api.Record{
			"site_lease": {"lessor_name": "Acme Land Co", "annual_rent": 125000.0},
		}),
		Devices: []api.Device{
			{ID: "D-7", SiteID: "S-42", Name: "INV-01", Category: "Inverter", Status: "active",
				GeneralInfo:      api.Record{"device_name": "INV-01"},
				TechnicalDetails: api.Record{"rated_power_kw": 250.0}},
			{ID: "D-8", SiteID: "S-42", Name: "MTR-01", Category: "Meter", Status: "decommissioned",
				GeneralInfo: api.Record{"device_name": "MTR-01"}},
		},
	}
}

func loadPage(m Model) Model {
	return m.handleSitePage(sitePageLoadedMsg{page: testPage()})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSitePageMountsAllSectionCards(t *testing.T) {
	m := loadPage(newTestModel())

	if m.mode != SitePageView {
		t.Fatalf("mode = %v", m.mode)
	}
	if len(m.siteCards) != 8 {
		t.Fatalf("mounted %d cards, want 8", len(m.siteCards))
	}
	for _, c := range m.siteCards {
		if c.Mode() != card.ModeView {
			t.Errorf("%s mounts in %v, want view", c.Section(), c.Mode())
		}
	}
}

func TestCardFocusCycling(t *testing.T) {
	m := loadPage(newTestModel())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.focusCard != 1 {
		t.Errorf("focus = %d after tab", m.focusCard)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(Model)
	if m.focusCard != len(m.siteCards)-1 {
		t.Errorf("focus = %d, want wrap to last card", m.focusCard)
	}
}

func TestEditingCapturesNavigationKeys(t *testing.T) {
	m := loadPage(newTestModel())

	// Enter edit on the focused card.
	next, _ := m.Update(keyRunes("e"))
	m = next.(Model)
	if !m.editing() {
		t.Fatal("e should put the focused card into edit mode")
	}

	// "d" normally opens the device list; while editing it is input.
	next, _ = m.Update(keyRunes("d"))
	m = next.(Model)
	if m.mode != SitePageView {
		t.Error("navigation keys must not fire while editing")
	}

	// esc cancels the edit instead of leaving the page.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.editing() {
		t.Error("esc should cancel the edit")
	}
	if m.mode != SitePageView {
		t.Error("esc while editing must stay on the page")
	}
}

func TestSuccessfulSaveSchedulesRefetch(t *testing.T) {
	m := loadPage(newTestModel())

	_, cmd := m.handleFormResult(form.ResultMsg{Section: "site_lease"})
	if cmd == nil {
		t.Fatal("a successful save must schedule a fresh fetch")
	}
}

func TestFailedSaveDoesNotRefetch(t *testing.T) {
	m := loadPage(newTestModel())

	// Put the lease card into edit so the error lands somewhere real.
	next, _ := m.Update(keyRunes("e"))
	m = next.(Model)

	_, cmd := m.handleFormResult(form.ResultMsg{
		Section: "site_lease",
		Err:     api.NewError(500, "backend down"),
	})
	if cmd != nil {
		t.Error("a failed save must not trigger a re-fetch")
	}
}

func TestDeviceCardsRespectDecommissioned(t *testing.T) {
	m := loadPage(newTestModel())

	active := m.buildDeviceCards(m.devices[0])
	if len(active) != 2 {
		t.Fatalf("inverter mounts %d cards, want general info + technical details", len(active))
	}
	for _, c := range active {
		if !c.EditAllowed() {
			t.Errorf("%s should be editable on an active device", c.Section())
		}
	}

	dead := m.buildDeviceCards(m.devices[1])
	for _, c := range dead {
		if c.EditAllowed() {
			t.Errorf("%s must be read-only on a decommissioned device", c.Section())
		}
	}
}

func TestRefreshKeepsDevicePageOnSameDevice(t *testing.T) {
	m := loadPage(newTestModel())
	dev := m.devices[0]
	m.device = &dev
	m.deviceCards = m.buildDeviceCards(dev)
	m.mode = DevicePageView

	// A refresh arrives with the device renamed.
	page := testPage()
	page.Devices[0].GeneralInfo = api.Record{"device_name": "INV-01-B"}
	m = m.handleSitePage(sitePageLoadedMsg{page: page})

	if m.mode != DevicePageView {
		t.Fatal("refresh must not leave the device page")
	}
	if m.deviceCards[0].Mode() != card.ModeView {
		t.Error("refreshed cards stay in their mode")
	}
}

func TestVanishedDeviceFallsBackToList(t *testing.T) {
	m := loadPage(newTestModel())
	dev := m.devices[0]
	m.device = &dev
	m.deviceCards = m.buildDeviceCards(dev)
	m.mode = DevicePageView

	page := testPage()
	page.Devices = page.Devices[1:] // D-7 is gone
	m = m.handleSitePage(sitePageLoadedMsg{page: page})

	if m.mode != DeviceListView {
		t.Errorf("mode = %v, want device list after the device vanished", m.mode)
	}
	if m.device != nil {
		t.Error("vanished device must be unmounted")
	}
}

func TestHelpToggle(t *testing.T) {
	m := loadPage(newTestModel())

	next, _ := m.Update(keyRunes("?"))
	m = next.(Model)
	if m.mode != HelpView {
		t.Fatal("? should open help")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.mode != SitePageView {
		t.Error("esc should return to the previous page")
	}
}
