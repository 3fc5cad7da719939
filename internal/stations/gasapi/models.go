package gasapi

// StationRecord is a station as the backend returns it on the wire.
type StationRecord struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	PriceKg     float64 `json:"price_kg"`
	Status      string  `json:"status"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	LastUpdated string  `json:"last_updated"`
	Phone       string  `json:"phone,omitempty"`

	// DistanceKm is only present on records returned by the nearby endpoint.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// ListOptions narrows a station listing. Both fields are optional; the
// backend performs the matching, the client only forwards the values.
type ListOptions struct {
	// Query is a free-text search over name and address.
	Query string

	// Status filters on the exact status value (e.g. "Open").
	Status string
}

// CreateStationRequest is the payload for registering a new station.
type CreateStationRequest struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PriceKg   float64 `json:"price_kg"`
	Status    string  `json:"status"`
}

// UpdateStationRequest is a partial update; nil fields are left untouched
// by the backend.
type UpdateStationRequest struct {
	Name      *string  `json:"name,omitempty"`
	Address   *string  `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	PriceKg   *float64 `json:"price_kg,omitempty"`
	Status    *string  `json:"status,omitempty"`
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Error string `json:"error"`
}
