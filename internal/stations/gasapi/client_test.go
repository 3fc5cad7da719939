package gasapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gasfinder/gasfinder/internal/stations/gasapi"
)

func newClient(baseURL string) *gasapi.Client {
	return gasapi.NewClient(gasapi.ClientConfig{
		BaseURL: baseURL,
		Logger:  zerolog.Nop(),
	})
}

func TestClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stations", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)

		resp := []map[string]interface{}{
			{
				"id":           1,
				"name":         "Total Energies Lekki",
				"address":      "12 Admiralty Way, Lekki",
				"price_kg":     500.0,
				"status":       "Open",
				"latitude":     6.4478,
				"longitude":    3.4723,
				"last_updated": "2024-03-01 09:00:00",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	records, err := newClient(server.URL).List(context.Background(), gasapi.ListOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, int64(1), rec.ID)
	assert.Equal(t, "Total Energies Lekki", rec.Name)
	assert.Equal(t, 500.0, rec.PriceKg)
	assert.Equal(t, "Open", rec.Status)
	assert.Nil(t, rec.DistanceKm)
}

func TestClient_List_QueryForwarded(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]interface{}{})
	}))
	defer server.Close()

	records, err := newClient(server.URL).List(context.Background(), gasapi.ListOptions{Query: "lekki total"})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, "lekki total", gotQuery)
}

func TestClient_List_StatusFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Open", r.URL.Query().Get("status"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]interface{}{})
	}))
	defer server.Close()

	_, err := newClient(server.URL).List(context.Background(), gasapi.ListOptions{Status: "Open"})
	require.NoError(t, err)
}

func TestClient_Nearby(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stations/nearby", r.URL.Path)
		assert.Equal(t, "6.5244", r.URL.Query().Get("lat"))
		assert.Equal(t, "3.3792", r.URL.Query().Get("lon"))
		assert.Equal(t, "10", r.URL.Query().Get("radius"))

		resp := []map[string]interface{}{
			{
				"id":          2,
				"name":        "NNPC Ikeja",
				"address":     "Obafemi Awolowo Way, Ikeja",
				"price_kg":    450.0,
				"status":      "Open",
				"latitude":    6.6018,
				"longitude":   3.3515,
				"distance_km": 8.87,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	records, err := newClient(server.URL).Nearby(context.Background(), 6.5244, 3.3792, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].DistanceKm)
	assert.Equal(t, 8.87, *records[0].DistanceKm)
}

func TestClient_Nearby_DefaultRadius(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "25", r.URL.Query().Get("radius"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]interface{}{})
	}))
	defer server.Close()

	_, err := newClient(server.URL).Nearby(context.Background(), 6.5244, 3.3792, 0)
	require.NoError(t, err)
}

func TestClient_Get_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Gas station not found"})
	}))
	defer server.Close()

	_, err := newClient(server.URL).Get(context.Background(), 99)
	require.Error(t, err)

	var statusErr *gasapi.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "Gas station not found", statusErr.Message)
}

func TestClient_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/stations", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Oando Yaba", body["name"])
		assert.Equal(t, "Open", body["status"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":        7,
			"name":      "Oando Yaba",
			"address":   "Herbert Macaulay Way, Yaba",
			"price_kg":  480.0,
			"status":    "Open",
			"latitude":  6.5095,
			"longitude": 3.3711,
		})
	}))
	defer server.Close()

	record, err := newClient(server.URL).Create(context.Background(), gasapi.CreateStationRequest{
		Name:      "Oando Yaba",
		Address:   "Herbert Macaulay Way, Yaba",
		Latitude:  6.5095,
		Longitude: 3.3711,
		PriceKg:   480,
		Status:    "Open",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), record.ID)
}

func TestClient_Create_ValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Missing required fields: name, address, price_kg",
		})
	}))
	defer server.Close()

	_, err := newClient(server.URL).Create(context.Background(), gasapi.CreateStationRequest{})
	require.Error(t, err)

	var statusErr *gasapi.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, statusErr.Message, "Missing required fields")
}

func TestClient_Update(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/stations/3", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Closed", body["status"])
		assert.NotContains(t, body, "name")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     3,
			"name":   "Mobil Surulere",
			"status": "Closed",
		})
	}))
	defer server.Close()

	status := "Closed"
	record, err := newClient(server.URL).Update(context.Background(), 3, gasapi.UpdateStationRequest{
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "Closed", record.Status)
}

func TestClient_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/stations/5", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Gas station deleted successfully"})
	}))
	defer server.Close()

	err := newClient(server.URL).Delete(context.Background(), 5)
	require.NoError(t, err)
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	server.Close() // Refuse connections

	_, err := newClient(server.URL).List(context.Background(), gasapi.ListOptions{})
	require.Error(t, err)

	var netErr *gasapi.NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestClient_ServerError_NoRetry(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newClient(server.URL).List(context.Background(), gasapi.ListOptions{})
	require.Error(t, err)

	var statusErr *gasapi.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, 1, calls)
}
