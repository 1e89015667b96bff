package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"griddesk/internal/logging"
)

// Client talks to the fleet backend.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given base URL. Timeout bounds each
// individual request; there is deliberately no retry layer.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListSites fetches the site list.
func (c *Client) ListSites(ctx context.Context) ([]SiteRef, error) {
	var sites []SiteRef
	if err := c.do(ctx, http.MethodGet, "/sites", nil, &sites, nil); err != nil {
		return nil, err
	}
	return sites, nil
}

// GetSite fetches the full aggregate for one site.
func (c *Client) GetSite(ctx context.Context, siteID string) (*SiteAggregate, error) {
	var site SiteAggregate
	if err := c.do(ctx, http.MethodGet, "/sites/"+url.PathEscape(siteID), nil, &site, nil); err != nil {
		return nil, err
	}
	return &site, nil
}

// GetDevices fetches the device list for a site.
func (c *Client) GetDevices(ctx context.Context, siteID string) ([]Device, error) {
	var devices []Device
	path := "/sites/" + url.PathEscape(siteID) + "/devices"
	if err := c.do(ctx, http.MethodGet, path, nil, &devices, nil); err != nil {
		return nil, err
	}
	return devices, nil
}

// GetSitePage fetches the aggregate and the device list concurrently.
func (c *Client) GetSitePage(ctx context.Context, siteID string) (*SitePage, error) {
	page := &SitePage{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		site, err := c.GetSite(ctx, siteID)
		if err != nil {
			return err
		}
		page.Site = site
		return nil
	})
	g.Go(func() error {
		devices, err := c.GetDevices(ctx, siteID)
		if err != nil {
			return err
		}
		page.Devices = devices
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

// UpdateSection issues the single partial update for one site section.
// Cleared fields must already be nil in the payload, never "".
func (c *Client) UpdateSection(ctx context.Context, siteID, section string, fields map[string]any) (*UpdateResult, error) {
	path := "/sites/" + url.PathEscape(siteID) + "/sections/" + url.PathEscape(section)
	var result UpdateResult
	if err := c.do(ctx, http.MethodPatch, path, fields, &result, nil); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateDeviceGeneralInfo updates the general-info section of a device.
// A 202 Accepted answer marks the result ResyncSuggested: the telemetry
// mapping changed and the caller should trigger ResyncTelemetry next.
func (c *Client) UpdateDeviceGeneralInfo(ctx context.Context, deviceID, siteID string, fields map[string]any) (*UpdateResult, error) {
	path := "/devices/" + url.PathEscape(deviceID) + "/general-info?site_id=" + url.QueryEscape(siteID)
	var result UpdateResult
	var status int
	if err := c.do(ctx, http.MethodPatch, path, fields, &result, &status); err != nil {
		return nil, err
	}
	result.ResyncSuggested = status == http.StatusAccepted
	return &result, nil
}

// UpdateTechnicalDetails updates the category-shaped technical details of a
// device.
func (c *Client) UpdateTechnicalDetails(ctx context.Context, deviceID, siteID, category string, fields map[string]any) (*UpdateResult, error) {
	path := "/devices/" + url.PathEscape(deviceID) + "/technical-details?site_id=" + url.QueryEscape(siteID)
	body := map[string]any{
		"category":          category,
		"technical_details": fields,
	}
	var result UpdateResult
	if err := c.do(ctx, http.MethodPatch, path, body, &result, nil); err != nil {
		return nil, err
	}
	return &result, nil
}

// ResyncTelemetry asks the backend to re-fetch device metadata from the
// external telemetry source. This is the secondary effect of a general-info
// save; its failure never rolls back the already-committed primary update.
func (c *Client) ResyncTelemetry(ctx context.Context, deviceID string) (*UpdateResult, error) {
	path := "/devices/" + url.PathEscape(deviceID) + "/telemetry/resync"
	var result UpdateResult
	if err := c.do(ctx, http.MethodPost, path, nil, &result, nil); err != nil {
		return nil, err
	}
	return &result, nil
}

// do performs one request. statusOut, when non-nil, receives the HTTP status
// of a successful response so callers can distinguish 200 from 202.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, statusOut *int) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	timer := logging.StartTimer(logging.CategoryAPI, method+" "+path)
	resp, err := c.http.Do(req)
	timer.Stop()
	if err != nil {
		logging.APIError("%s %s failed: %v (req %s)", method, path, err, requestID)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The response body becomes the data of the error envelope. A body
		// without a message (proxy failures) still makes a usable error.
		var payload errData
		_ = json.Unmarshal(data, &payload)
		apiErr := NewError(resp.StatusCode, payload.Message)
		logging.APIError("%s %s -> %d: %s (req %s)", method, path, resp.StatusCode, apiErr.Response.Data.Message, requestID)
		return apiErr
	}

	logging.APIDebug("%s %s -> %d (req %s)", method, path, resp.StatusCode, requestID)
	if statusOut != nil {
		*statusOut = resp.StatusCode
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
