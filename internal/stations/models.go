// Package stations holds the station domain model and the fetch service
// used by the web surface.
package stations

import "github.com/gasfinder/gasfinder/internal/stations/gasapi"

const (
	// StatusOpen is the only status value that renders a station active.
	StatusOpen = "Open"

	// phoneSentinel marks an unknown phone number in backend data.
	phoneSentinel = "N/A"

	// DefaultImagePath is the static card image served for every station.
	DefaultImagePath = "/static/images/station.svg"
)

// Station is the view model derived from a backend record. Every field is a
// straight copy of its source except IsActive, which is computed from Status;
// nothing else may diverge from the record without a re-fetch.
type Station struct {
	ID          int64
	Name        string
	Address     string
	PriceKg     float64
	Status      string
	IsActive    bool
	Latitude    float64
	Longitude   float64
	LastUpdated string
	Phone       string
	ImagePath   string

	// DistanceKm is set only when the record came from a nearby search.
	DistanceKm *float64
}

// FromRecord normalizes a wire record into a Station.
func FromRecord(rec gasapi.StationRecord) Station {
	return Station{
		ID:          rec.ID,
		Name:        rec.Name,
		Address:     rec.Address,
		PriceKg:     rec.PriceKg,
		Status:      rec.Status,
		IsActive:    rec.Status == StatusOpen,
		Latitude:    rec.Latitude,
		Longitude:   rec.Longitude,
		LastUpdated: rec.LastUpdated,
		Phone:       rec.Phone,
		ImagePath:   DefaultImagePath,
		DistanceKm:  rec.DistanceKm,
	}
}

// FromRecords normalizes a listing response.
func FromRecords(recs []gasapi.StationRecord) []Station {
	out := make([]Station, 0, len(recs))
	for _, rec := range recs {
		out = append(out, FromRecord(rec))
	}
	return out
}

// HasPhone reports whether the card should render a phone line.
func (s Station) HasPhone() bool {
	return s.Phone != "" && s.Phone != phoneSentinel
}

// HasDistance reports whether the station carries a nearby-search distance.
func (s Station) HasDistance() bool {
	return s.DistanceKm != nil
}

// Distance returns the nearby-search distance in kilometers, or zero when
// the station did not come from a nearby search.
func (s Station) Distance() float64 {
	if s.DistanceKm == nil {
		return 0
	}
	return *s.DistanceKm
}
