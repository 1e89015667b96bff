package console

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"griddesk/internal/api"
	"griddesk/internal/card"
	"griddesk/internal/form"
	"griddesk/internal/logging"
	"griddesk/internal/schema"
)

// buildSiteCards mounts one card per site section, each wired to the single
// section update call and to the snapshot invalidation for this site.
func (m *Model) buildSiteCards(site *api.SiteAggregate) []card.Card {
	cards := make([]card.Card, 0, len(schema.SiteSections()))
	for _, sch := range schema.SiteSections() {
		sch := sch
		submit := func(ctx context.Context, values map[string]any) (form.Ack, error) {
			result, err := m.client.UpdateSection(ctx, site.ID, sch.Section, values)
			if err != nil {
				return form.Ack{}, err
			}
			return form.Ack{Message: result.Message}, nil
		}
		f := form.New(sch, site.Section(sch.Section), submit)
		cards = append(cards, card.New(sch.Title, f, m.cardDeps(site.ID, nil)))
	}
	return cards
}

// buildDeviceCards mounts the general-info card and, when the category has
// one, the technical-details card. Decommissioned devices are read-only.
// The general-info card carries the telemetry resync follow-up.
func (m *Model) buildDeviceCards(dev api.Device) []card.Card {
	onSaved := func(_ map[string]any, ack form.Ack) tea.Cmd {
		if !ack.Resync {
			return nil
		}
		logging.Session("device %s: telemetry mapping changed, resyncing", dev.ID)
		return resyncTelemetryCmd(m.client, dev.ID)
	}

	giSchema := schema.GeneralInfo()
	giSubmit := func(ctx context.Context, values map[string]any) (form.Ack, error) {
		result, err := m.client.UpdateDeviceGeneralInfo(ctx, dev.ID, dev.SiteID, values)
		if err != nil {
			return form.Ack{}, err
		}
		return form.Ack{Message: result.Message, Resync: result.ResyncSuggested}, nil
	}
	general := card.New(giSchema.Title,
		form.New(giSchema, dev.GeneralInfo, giSubmit),
		m.cardDeps(dev.SiteID, onSaved))
	general = general.SetEditAllowed(!dev.Decommissioned())

	cards := []card.Card{general}

	if schema.HasTechnicalDetails(dev.Category) {
		tdSchema := schema.TechnicalDetails(dev.Category)
		tdSubmit := func(ctx context.Context, values map[string]any) (form.Ack, error) {
			result, err := m.client.UpdateTechnicalDetails(ctx, dev.ID, dev.SiteID, dev.Category, values)
			if err != nil {
				return form.Ack{}, err
			}
			return form.Ack{Message: result.Message}, nil
		}
		technical := card.New(tdSchema.Title,
			form.New(tdSchema, dev.TechnicalDetails, tdSubmit),
			m.cardDeps(dev.SiteID, nil))
		technical = technical.SetEditAllowed(!dev.Decommissioned())
		cards = append(cards, technical)
	}
	return cards
}

func (m *Model) cardDeps(siteID string, onSaved func(map[string]any, form.Ack) tea.Cmd) card.Deps {
	return card.Deps{
		Notifier: m.notifier,
		Invalidate: func() {
			if m.cache == nil {
				return
			}
			if err := m.cache.Invalidate(siteID); err != nil {
				logging.CacheDebug("invalidate %s: %v", siteID, err)
			}
		},
		OnSaved: onSaved,
	}
}

// refreshSiteCards pushes freshly-fetched records into the mounted cards
// without remounting them, preserving each card's mode.
func refreshSiteCards(cards []card.Card, site *api.SiteAggregate) []card.Card {
	for i := range cards {
		cards[i] = cards[i].SetRecord(site.Section(cards[i].Section()))
	}
	return cards
}

func refreshDeviceCards(cards []card.Card, dev api.Device) []card.Card {
	for i := range cards {
		var rec map[string]any
		switch cards[i].Section() {
		case "general_info":
			rec = dev.GeneralInfo
		case "technical_details":
			rec = dev.TechnicalDetails
		}
		cards[i] = cards[i].SetRecord(rec)
		cards[i] = cards[i].SetEditAllowed(!dev.Decommissioned())
	}
	return cards
}
