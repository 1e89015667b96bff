package console

import (
	"context"
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"

	"griddesk/internal/api"
	"griddesk/internal/cache"
	"griddesk/internal/config"
	"griddesk/internal/logging"
)

func loadSitesCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		sites, err := client.ListSites(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return sitesLoadedMsg{sites: sites}
	}
}

// loadSitePageCmd serves the page from the snapshot cache when it can, and
// falls back to a concurrent backend fetch. A fresh fetch refreshes the
// snapshots; cache read or write failures degrade to fetching, never to an
// error page.
func loadSitePageCmd(client *api.Client, store *cache.Store, siteID string, bypassCache bool) tea.Cmd {
	return func() tea.Msg {
		if store != nil && !bypassCache {
			if page, ok := cachedPage(store, siteID); ok {
				logging.CacheDebug("site %s served from snapshot", siteID)
				return sitePageLoadedMsg{page: page, fromCache: true}
			}
		}

		page, err := client.GetSitePage(context.Background(), siteID)
		if err != nil {
			return errMsg{err}
		}
		if store != nil {
			if err := StorePage(store, siteID, page); err != nil {
				logging.CacheDebug("failed to store snapshot for %s: %v", siteID, err)
			}
		}
		return sitePageLoadedMsg{page: page}
	}
}

func cachedPage(store *cache.Store, siteID string) (*api.SitePage, bool) {
	siteRaw, ok, err := store.GetSite(siteID)
	if err != nil || !ok {
		return nil, false
	}
	devRaw, ok, err := store.GetDevices(siteID)
	if err != nil || !ok {
		return nil, false
	}
	page := &api.SitePage{}
	if err := json.Unmarshal(siteRaw, &page.Site); err != nil {
		return nil, false
	}
	if err := json.Unmarshal(devRaw, &page.Devices); err != nil {
		return nil, false
	}
	return page, true
}

// StorePage writes both snapshots for a fetched page. Also used by the pull
// subcommand to warm the cache.
func StorePage(store *cache.Store, siteID string, page *api.SitePage) error {
	siteRaw, err := json.Marshal(page.Site)
	if err != nil {
		return err
	}
	if err := store.PutSite(siteID, siteRaw); err != nil {
		return err
	}
	devRaw, err := json.Marshal(page.Devices)
	if err != nil {
		return err
	}
	return store.PutDevices(siteID, devRaw)
}

// resyncTelemetryCmd fires the secondary effect of a general-info save.
func resyncTelemetryCmd(client *api.Client, deviceID string) tea.Cmd {
	return func() tea.Msg {
		result, err := client.ResyncTelemetry(context.Background(), deviceID)
		if err != nil {
			return resyncDoneMsg{err: err}
		}
		return resyncDoneMsg{message: result.Message}
	}
}

// watchConfigCmd blocks on the next config change and re-arms itself from
// the update loop.
func watchConfigCmd(w *config.Watcher) tea.Cmd {
	return func() tea.Msg {
		cfg, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return configReloadedMsg{cfg: cfg}
	}
}
