package console

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"griddesk/internal/api"
	"griddesk/internal/config"
	"griddesk/internal/form"
	"griddesk/internal/logging"
	"griddesk/internal/ui"
)

// Update is the single event loop. Every state transition happens here, one
// message at a time, processed to completion.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case sitesLoadedMsg:
		m.loading = false
		items := make([]list.Item, len(msg.sites))
		for i, s := range msg.sites {
			items[i] = siteItem{ref: s}
		}
		m.siteList.SetItems(items)
		logging.Session("loaded %d sites", len(msg.sites))
		return m, nil

	case sitePageLoadedMsg:
		return m.handleSitePage(msg), nil

	case errMsg:
		m.loading = false
		m.lastErr = msg.err
		m.notifier.Error(api.Message(msg.err), "Request failed")
		return m, nil

	case resyncDoneMsg:
		if msg.err != nil {
			m.notifier.Error(api.Message(msg.err), "Telemetry resync failed")
		} else {
			m.notifier.Success(msg.message, "Telemetry resync started")
		}
		return m, nil

	case configReloadedMsg:
		return m.handleConfigReload(msg.cfg)

	case form.ResultMsg:
		return m.handleFormResult(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width, m.height = msg.Width, msg.Height
	m.siteList.SetSize(msg.Width-4, msg.Height-6)
	m.deviceList.SetSize(msg.Width-4, msg.Height-6)
	m.helpView.Width = msg.Width - 4
	m.helpView.Height = msg.Height - 6
	return m
}

func (m Model) handleSitePage(msg sitePageLoadedMsg) Model {
	m.loading = false
	m.site = msg.page.Site
	m.devices = msg.page.Devices

	if len(m.siteCards) == 0 {
		m.siteCards = m.buildSiteCards(m.site)
		m.focusCard = 0
	} else {
		m.siteCards = refreshSiteCards(m.siteCards, m.site)
	}

	items := make([]list.Item, len(m.devices))
	for i, d := range m.devices {
		items[i] = deviceItem{dev: d}
	}
	m.deviceList.SetItems(items)

	// A mounted device page tracks its device across refreshes; a device
	// that vanished sends the operator back to the list.
	if m.device != nil {
		if dev, ok := m.findDevice(m.device.ID); ok {
			m.device = &dev
			m.deviceCards = refreshDeviceCards(m.deviceCards, dev)
		} else if m.mode == DevicePageView {
			m.device = nil
			m.deviceCards = nil
			m.mode = DeviceListView
		}
	}
	if m.mode == SiteListView {
		m.mode = SitePageView
	}
	return m
}

func (m Model) findDevice(id string) (api.Device, bool) {
	for _, d := range m.devices {
		if d.ID == id {
			return d, true
		}
	}
	return api.Device{}, false
}

func (m Model) handleConfigReload(cfg config.Config) (tea.Model, tea.Cmd) {
	m.cfg = cfg
	if cfg.UI.Theme == "dark" {
		m.styles = ui.NewStyles(ui.DarkTheme())
	} else {
		m.styles = ui.NewStyles(ui.LightTheme())
	}
	m.notifier.Info("Configuration reloaded")
	logging.Session("config reloaded from disk")
	// Re-arm the watcher for the next change.
	return m, watchConfigCmd(m.watcher)
}

// handleFormResult broadcasts a submit result to the active page's cards and,
// on success, schedules a fresh fetch of the invalidated aggregate.
func (m Model) handleFormResult(msg form.ResultMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch m.mode {
	case SitePageView:
		for i := range m.siteCards {
			var cmd tea.Cmd
			m.siteCards[i], cmd = m.siteCards[i].Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case DevicePageView:
		for i := range m.deviceCards {
			var cmd tea.Cmd
			m.deviceCards[i], cmd = m.deviceCards[i].Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	if msg.Err == nil && m.site != nil {
		// The snapshot was just invalidated; re-fetch so every card sees
		// the authoritative record.
		cmds = append(cmds, loadSitePageCmd(m.client, m.cache, m.site.ID, true))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		logging.Session("console exiting")
		return m, tea.Quit
	}

	// While a card is being edited, every key belongs to it.
	if m.editing() {
		return m.updateFocusedCard(msg)
	}

	switch msg.String() {
	case "q":
		if !m.filtering() {
			return m, tea.Quit
		}
	case "?":
		if m.mode != HelpView && !m.filtering() {
			m.back = m.mode
			m.mode = HelpView
			m.helpView.SetContent(m.renderHelp())
			return m, nil
		}
	}

	switch m.mode {
	case SiteListView:
		return m.handleSiteListKey(msg)
	case SitePageView:
		return m.handleSitePageKey(msg)
	case DeviceListView:
		return m.handleDeviceListKey(msg)
	case DevicePageView:
		return m.handleDevicePageKey(msg)
	case HelpView:
		if msg.String() == "esc" {
			m.mode = m.back
			return m, nil
		}
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleSiteListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		if siteID := m.selectedSiteID(); siteID != "" {
			m.loading = true
			m.siteCards = nil
			m.site = nil
			return m, tea.Batch(m.spin.Tick, loadSitePageCmd(m.client, m.cache, siteID, false))
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.siteList, cmd = m.siteList.Update(msg)
	return m, cmd
}

func (m Model) handleSitePageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = SiteListView
		return m, nil
	case "d":
		m.mode = DeviceListView
		return m, nil
	case "tab", "j":
		if len(m.siteCards) > 0 {
			m.focusCard = (m.focusCard + 1) % len(m.siteCards)
		}
		return m, nil
	case "shift+tab", "k":
		if len(m.siteCards) > 0 {
			m.focusCard = (m.focusCard - 1 + len(m.siteCards)) % len(m.siteCards)
		}
		return m, nil
	case "r":
		if m.site != nil {
			m.loading = true
			return m, tea.Batch(m.spin.Tick, loadSitePageCmd(m.client, m.cache, m.site.ID, true))
		}
		return m, nil
	}
	return m.updateFocusedCard(msg)
}

func (m Model) handleDeviceListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = SitePageView
		return m, nil
	case "enter":
		if item, ok := m.deviceList.SelectedItem().(deviceItem); ok {
			dev := item.dev
			m.device = &dev
			m.deviceCards = m.buildDeviceCards(dev)
			m.focusDevice = 0
			m.mode = DevicePageView
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.deviceList, cmd = m.deviceList.Update(msg)
	return m, cmd
}

func (m Model) handleDevicePageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = DeviceListView
		return m, nil
	case "tab", "j":
		if len(m.deviceCards) > 0 {
			m.focusDevice = (m.focusDevice + 1) % len(m.deviceCards)
		}
		return m, nil
	case "shift+tab", "k":
		if len(m.deviceCards) > 0 {
			m.focusDevice = (m.focusDevice - 1 + len(m.deviceCards)) % len(m.deviceCards)
		}
		return m, nil
	}
	return m.updateFocusedCard(msg)
}

// updateFocusedCard routes a key to the card that owns the focus.
func (m Model) updateFocusedCard(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case SitePageView:
		if m.focusCard < len(m.siteCards) {
			var cmd tea.Cmd
			m.siteCards[m.focusCard], cmd = m.siteCards[m.focusCard].Update(msg)
			return m, cmd
		}
	case DevicePageView:
		if m.focusDevice < len(m.deviceCards) {
			var cmd tea.Cmd
			m.deviceCards[m.focusDevice], cmd = m.deviceCards[m.focusDevice].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}
