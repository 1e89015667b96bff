package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, "test-token", 5*time.Second), srv
}

func TestUpdateSectionPayload(t *testing.T) {
	var gotPath, gotMethod, gotAuth string
	var gotBody map[string]any

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		require.NotEmpty(t, r.Header.Get("X-Request-Id"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"message": "Site lease updated"})
	}))
	defer srv.Close()

	fields := map[string]any{
		"lessor_name":  "Acme Land Co",
		"annual_rent":  125000.0,
		"renewal_date": "2030-06-01",
		"notes":        nil, // cleared field travels as null, never ""
	}
	result, err := client.UpdateSection(context.Background(), "S-42", "site_lease", fields)
	require.NoError(t, err)

	assert.Equal(t, "Site lease updated", result.Message)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/sites/S-42/sections/site_lease", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "Acme Land Co", gotBody["lessor_name"])
	assert.Equal(t, 125000.0, gotBody["annual_rent"])
	val, present := gotBody["notes"]
	assert.True(t, present, "cleared field must be sent")
	assert.Nil(t, val)
}

func TestUpdateSectionErrorEnvelope(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "annual_rent out of range"})
	}))
	defer srv.Close()

	_, err := client.UpdateSection(context.Background(), "S-42", "site_lease", map[string]any{})
	require.Error(t, err)
	assert.Equal(t, "annual_rent out of range", Message(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}

func TestMessageForNonAPIError(t *testing.T) {
	assert.Empty(t, Message(context.DeadlineExceeded))
}

func TestGeneralInfoResyncSignal(t *testing.T) {
	status := http.StatusOK
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"message": "Device updated"})
	}))
	defer srv.Close()

	result, err := client.UpdateDeviceGeneralInfo(context.Background(), "D-7", "S-42", map[string]any{"telemetry_id": "T-99"})
	require.NoError(t, err)
	assert.False(t, result.ResyncSuggested, "200 means no resync")

	status = http.StatusAccepted
	result, err = client.UpdateDeviceGeneralInfo(context.Background(), "D-7", "S-42", map[string]any{"telemetry_id": "T-100"})
	require.NoError(t, err)
	assert.True(t, result.ResyncSuggested, "202 signals telemetry resync")
}

func TestUpdateTechnicalDetailsBody(t *testing.T) {
	var gotBody map[string]any
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	_, err := client.UpdateTechnicalDetails(context.Background(), "D-7", "S-42", "Inverter",
		map[string]any{"rated_power_kw": 250.0})
	require.NoError(t, err)

	assert.Equal(t, "Inverter", gotBody["category"])
	details, ok := gotBody["technical_details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 250.0, details["rated_power_kw"])
}

func TestGetSitePageConcurrentFetch(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sites/S-42":
			json.NewEncoder(w).Encode(map[string]any{
				"id":     "S-42",
				"name":   "Prairie Ridge",
				"status": "operational",
				"site_lease": map[string]any{
					"lessor_name": "Acme Land Co",
					"annual_rent": 125000.0,
				},
			})
		case "/sites/S-42/devices":
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": "D-7", "site_id": "S-42", "name": "INV-01", "category": "Inverter", "status": "active"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	page, err := client.GetSitePage(context.Background(), "S-42")
	require.NoError(t, err)

	assert.Equal(t, "Prairie Ridge", page.Site.Name)
	assert.Equal(t, "Acme Land Co", page.Site.Section("site_lease")["lessor_name"])
	assert.Empty(t, page.Site.Section("never_fetched"), "missing sections read as empty records")
	require.Len(t, page.Devices, 1)
	assert.Equal(t, "Inverter", page.Devices[0].Category)
	assert.False(t, page.Devices[0].Decommissioned())
}

func TestGetSitePageFailurePropagates(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "backend down"})
	}))
	defer srv.Close()

	_, err := client.GetSitePage(context.Background(), "S-42")
	require.Error(t, err)
	assert.Equal(t, "backend down", Message(err))
}
