// Package api is the griddesk client for the fleet REST backend. It issues
// exactly one request per operation: no retry, no backoff, no caching. The
// local cache layer and the console decide what to do with the results.
package api

import (
	"encoding/json"
	"fmt"
)

// Record is one section sub-object of an aggregate, as decoded JSON.
// Cards and forms treat it as read-only input.
type Record map[string]any

// SiteRef is a row in the site list.
type SiteRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// SiteAggregate is the full read model for one site: metadata plus one
// sub-object per information-card section.
type SiteAggregate struct {
	ID     string
	Name   string
	Status string

	sections map[string]Record
}

// UnmarshalJSON splits the flat aggregate payload into metadata and
// per-section records. Unknown top-level objects become sections; scalar
// metadata stays on the struct.
func (s *SiteAggregate) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.sections = make(map[string]Record)
	for key, val := range raw {
		switch key {
		case "id":
			if err := json.Unmarshal(val, &s.ID); err != nil {
				return fmt.Errorf("site id: %w", err)
			}
		case "name":
			if err := json.Unmarshal(val, &s.Name); err != nil {
				return fmt.Errorf("site name: %w", err)
			}
		case "status":
			if err := json.Unmarshal(val, &s.Status); err != nil {
				return fmt.Errorf("site status: %w", err)
			}
		default:
			var rec Record
			if err := json.Unmarshal(val, &rec); err != nil {
				// Non-object extras (timestamps etc.) are not card sections.
				continue
			}
			s.sections[key] = rec
		}
	}
	return nil
}

// MarshalJSON restores the flat wire shape so a cached aggregate round-trips
// with its sections intact.
func (s *SiteAggregate) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(s.sections)+3)
	flat["id"] = s.ID
	flat["name"] = s.Name
	flat["status"] = s.Status
	for name, rec := range s.sections {
		flat[name] = rec
	}
	return json.Marshal(flat)
}

// NewSiteAggregate builds an aggregate directly. The client decodes them
// from the wire; this is for fixtures and tests.
func NewSiteAggregate(id, name, status string, sections map[string]Record) *SiteAggregate {
	if sections == nil {
		sections = map[string]Record{}
	}
	return &SiteAggregate{ID: id, Name: name, Status: status, sections: sections}
}

// Section returns the sub-object for a card section, or an empty record so
// forms always have something to derive defaults from.
func (s *SiteAggregate) Section(name string) Record {
	if s == nil || s.sections == nil {
		return Record{}
	}
	if rec, ok := s.sections[name]; ok {
		return rec
	}
	return Record{}
}

// Device is the read model for one device on a site.
type Device struct {
	ID               string `json:"id"`
	SiteID           string `json:"site_id"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	Status           string `json:"status"`
	GeneralInfo      Record `json:"general_info"`
	TechnicalDetails Record `json:"technical_details"`
}

// Decommissioned reports whether the device may no longer be edited.
func (d Device) Decommissioned() bool {
	return d.Status == "decommissioned"
}

// UpdateResult is the success shape of every mutation.
type UpdateResult struct {
	Message string `json:"message"`

	// ResyncSuggested is set when the server answered 202 Accepted to a
	// general-info update, signalling that the device-to-telemetry mapping
	// changed and a re-fetch from the telemetry source is warranted.
	ResyncSuggested bool `json:"-"`
}

// SitePage bundles the two concurrent fetches a site detail page needs.
type SitePage struct {
	Site    *SiteAggregate
	Devices []Device
}
