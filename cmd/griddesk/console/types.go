// Package console provides the interactive TUI for griddesk. The code is
// split across multiple files:
//   - types.go: view modes and message types (this file)
//   - model.go: Model, New, Init
//   - update.go: the Update loop
//   - view.go: rendering
//   - commands.go: async commands
//   - cards.go: card construction and wiring
package console

import (
	"griddesk/internal/api"
	"griddesk/internal/config"
)

// ViewMode determines which page is active.
type ViewMode int

const (
	SiteListView ViewMode = iota
	SitePageView
	DeviceListView
	DevicePageView
	HelpView
)

// sitesLoadedMsg carries the site list.
type sitesLoadedMsg struct {
	sites []api.SiteRef
}

// sitePageLoadedMsg carries a full site aggregate plus its devices.
type sitePageLoadedMsg struct {
	page      *api.SitePage
	fromCache bool
}

// resyncDoneMsg reports the telemetry resync follow-up. Its failure never
// affects the already-committed save it followed.
type resyncDoneMsg struct {
	message string
	err     error
}

// configReloadedMsg arrives when the config file changes on disk.
type configReloadedMsg struct {
	cfg config.Config
}

// errMsg carries a failed page load.
type errMsg struct {
	err error
}

// siteItem adapts a SiteRef to the bubbles list.
type siteItem struct {
	ref api.SiteRef
}

func (i siteItem) Title() string       { return i.ref.Name }
func (i siteItem) Description() string { return i.ref.Status }
func (i siteItem) FilterValue() string { return i.ref.Name }

// deviceItem adapts a Device to the bubbles list.
type deviceItem struct {
	dev api.Device
}

func (i deviceItem) Title() string { return i.dev.Name }
func (i deviceItem) Description() string {
	if i.dev.Decommissioned() {
		return i.dev.Category + " (decommissioned)"
	}
	return i.dev.Category
}
func (i deviceItem) FilterValue() string { return i.dev.Name }
