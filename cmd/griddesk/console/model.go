package console

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"griddesk/internal/api"
	"griddesk/internal/cache"
	"griddesk/internal/card"
	"griddesk/internal/config"
	"griddesk/internal/logging"
	"griddesk/internal/notify"
	"griddesk/internal/ui"
)

// Model is the root bubbletea model of the console.
type Model struct {
	cfg      config.Config
	styles   ui.Styles
	client   *api.Client
	cache    *cache.Store
	notifier *notify.Center
	watcher  *config.Watcher

	mode    ViewMode
	back    ViewMode // where esc from help returns to
	width   int
	height  int
	loading bool
	spin    spinner.Model

	siteList list.Model

	site      *api.SiteAggregate
	devices   []api.Device
	siteCards []card.Card
	focusCard int

	deviceList  list.Model
	device      *api.Device
	deviceCards []card.Card
	focusDevice int

	helpView viewport.Model
	lastErr  error
}

// Options bundle the injected dependencies of the console.
type Options struct {
	Config   config.Config
	Client   *api.Client
	Cache    *cache.Store
	Notifier *notify.Center
	Watcher  *config.Watcher
}

// New assembles the console model. Nothing is fetched until Init runs.
func New(opts Options) Model {
	styles := ui.DefaultStyles()
	if opts.Config.UI.Theme == "dark" {
		styles = ui.NewStyles(ui.DarkTheme())
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	delegate := list.NewDefaultDelegate()
	siteList := list.New(nil, delegate, 0, 0)
	siteList.Title = "Sites"
	siteList.SetShowStatusBar(false)

	deviceList := list.New(nil, delegate, 0, 0)
	deviceList.Title = "Devices"
	deviceList.SetShowStatusBar(false)

	return Model{
		cfg:        opts.Config,
		styles:     styles,
		client:     opts.Client,
		cache:      opts.Cache,
		notifier:   opts.Notifier,
		watcher:    opts.Watcher,
		mode:       SiteListView,
		loading:    true,
		spin:       sp,
		siteList:   siteList,
		deviceList: deviceList,
		helpView:   viewport.New(0, 0),
	}
}

// Init kicks off the site list fetch and, when a watcher is present, the
// config reload loop.
func (m Model) Init() tea.Cmd {
	logging.Session("console starting")
	cmds := []tea.Cmd{m.spin.Tick, loadSitesCmd(m.client)}
	if m.watcher != nil {
		cmds = append(cmds, watchConfigCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// selectedSiteID returns the highlighted site, "" when none.
func (m Model) selectedSiteID() string {
	if item, ok := m.siteList.SelectedItem().(siteItem); ok {
		return item.ref.ID
	}
	return ""
}

// editing reports whether any card on the active page is in edit mode. Page
// navigation keys stay inert while an edit is in progress.
func (m Model) editing() bool {
	for _, c := range m.activeCards() {
		if c.Mode() == card.ModeEdit {
			return true
		}
	}
	return false
}

// filtering reports whether a list filter prompt is open, in which case
// letter keys belong to the filter.
func (m Model) filtering() bool {
	switch m.mode {
	case SiteListView:
		return m.siteList.FilterState() == list.Filtering
	case DeviceListView:
		return m.deviceList.FilterState() == list.Filtering
	}
	return false
}

func (m Model) activeCards() []card.Card {
	switch m.mode {
	case SitePageView:
		return m.siteCards
	case DevicePageView:
		return m.deviceCards
	}
	return nil
}
