package stations_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gasfinder/gasfinder/internal/stations"
	"github.com/gasfinder/gasfinder/internal/stations/gasapi"
)

func newService(t *testing.T, handler http.HandlerFunc) *stations.Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return stations.NewService(stations.ServiceConfig{
		Client: gasapi.NewClient(gasapi.ClientConfig{
			BaseURL: server.URL,
			Logger:  zerolog.Nop(),
		}),
		Logger: zerolog.Nop(),
	})
}

func TestFromRecord_ActiveOnlyWhenOpen(t *testing.T) {
	tests := []struct {
		status string
		active bool
	}{
		{"Open", true},
		{"Closed", false},
		{"open", false},
		{"Maintenance", false},
		{"", false},
	}

	for _, tt := range tests {
		st := stations.FromRecord(gasapi.StationRecord{ID: 1, Status: tt.status})
		assert.Equal(t, tt.active, st.IsActive, "status %q", tt.status)
	}
}

func TestStation_HasPhone(t *testing.T) {
	assert.True(t, stations.Station{Phone: "+2348012345678"}.HasPhone())
	assert.False(t, stations.Station{Phone: ""}.HasPhone())
	assert.False(t, stations.Station{Phone: "N/A"}.HasPhone())
}

func TestService_All_Normalizes(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stations", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 1, "name": "A", "status": "Open", "price_kg": 500.0},
			{"id": 2, "name": "B", "status": "Closed", "price_kg": 450.0},
		})
	})

	list, err := svc.All(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.True(t, list[0].IsActive)
	assert.False(t, list[1].IsActive)
	assert.Equal(t, stations.DefaultImagePath, list[0].ImagePath)
	assert.Nil(t, list[0].DistanceKm)
}

func TestService_Nearby_CarriesDistance(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stations/nearby", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("radius"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 1, "name": "A", "status": "Open", "distance_km": 3.14},
		})
	})

	list, err := svc.Nearby(context.Background(), 6.5244, 3.3792)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].DistanceKm)
	assert.Equal(t, 3.14, *list[0].DistanceKm)
}

func TestService_Search_NoClientSideFiltering(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "nnpc", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		// Deliberately return a record that does not contain the query text;
		// the service must render whatever the backend matched.
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 9, "name": "Unrelated Name", "status": "Open"},
		})
	})

	list, err := svc.Search(context.Background(), "nnpc")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Unrelated Name", list[0].Name)
}

func TestService_Register_DefaultsToOpen(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Open", body["status"])
		assert.NotContains(t, body, "ownerName")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 11, "name": body["name"], "status": "Open",
		})
	})

	st, err := svc.Register(context.Background(), stations.RegisterStationInput{
		OwnerName:   "Ada Obi",
		StationName: "Ada Gas",
		Address:     "1 Marina Rd",
		Phone:       "+2348000000000",
		Latitude:    6.45,
		Longitude:   3.39,
		PriceKg:     520,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), st.ID)
	assert.True(t, st.IsActive)
}
