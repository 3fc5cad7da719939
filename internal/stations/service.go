package stations

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gasfinder/gasfinder/internal/stations/gasapi"
)

// ServiceConfig holds configuration for the station service.
type ServiceConfig struct {
	Client *gasapi.Client
	Logger zerolog.Logger

	// NearbyRadiusKm is the radius used for nearby fetches
	// (default: gasapi.DefaultNearbyRadiusKm).
	NearbyRadiusKm float64
}

// Service wraps the backend client and normalizes its records into view
// models. Errors from the client pass through untouched so callers can
// distinguish network failures from backend responses.
type Service struct {
	client   *gasapi.Client
	logger   zerolog.Logger
	radiusKm float64
}

// NewService creates a new station service.
func NewService(cfg ServiceConfig) *Service {
	radius := cfg.NearbyRadiusKm
	if radius <= 0 {
		radius = gasapi.DefaultNearbyRadiusKm
	}

	return &Service{
		client:   cfg.Client,
		logger:   cfg.Logger,
		radiusKm: radius,
	}
}

// All fetches the unfiltered station list.
func (s *Service) All(ctx context.Context) ([]Station, error) {
	recs, err := s.client.List(ctx, gasapi.ListOptions{})
	if err != nil {
		return nil, err
	}
	return FromRecords(recs), nil
}

// Search fetches stations matching the given free-text query. The backend
// does the matching; the result is rendered as returned, with no client-side
// re-filtering.
func (s *Service) Search(ctx context.Context, query string) ([]Station, error) {
	recs, err := s.client.List(ctx, gasapi.ListOptions{Query: query})
	if err != nil {
		return nil, err
	}
	return FromRecords(recs), nil
}

// Nearby fetches stations around the given point using the configured radius.
func (s *Service) Nearby(ctx context.Context, lat, lon float64) ([]Station, error) {
	recs, err := s.client.Nearby(ctx, lat, lon, s.radiusKm)
	if err != nil {
		return nil, err
	}
	return FromRecords(recs), nil
}

// Get fetches a single station by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Station, error) {
	rec, err := s.client.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	st := FromRecord(*rec)
	return &st, nil
}

// RegisterStationInput is the parsed seller registration form. OwnerName and
// Phone are collected for the seller flow but the backend does not store them
// yet, so only the station payload goes over the wire.
type RegisterStationInput struct {
	OwnerName   string
	StationName string
	Address     string
	Phone       string
	Latitude    float64
	Longitude   float64
	PriceKg     float64
}

// Register creates a new station from a seller registration. Newly registered
// stations start out open.
func (s *Service) Register(ctx context.Context, in RegisterStationInput) (*Station, error) {
	rec, err := s.client.Create(ctx, gasapi.CreateStationRequest{
		Name:      in.StationName,
		Address:   in.Address,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		PriceKg:   in.PriceKg,
		Status:    StatusOpen,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("station_id", rec.ID).
		Str("name", rec.Name).
		Msg("station registered")

	st := FromRecord(*rec)
	return &st, nil
}
