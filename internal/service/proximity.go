package service

import (
	"context"
	"fmt"

	"github.com/zachholt/nightout-presence/internal/geo"
	"github.com/zachholt/nightout-presence/internal/logger"
	"github.com/zachholt/nightout-presence/internal/model"
)

const (
	// DefaultNearbyRadiusMeters applies when a nearby query omits the radius.
	DefaultNearbyRadiusMeters = 2000.0
	// DefaultAtLocationRadiusMeters applies when an at-location query omits
	// the radius. Tight enough to mean "at this venue".
	DefaultAtLocationRadiusMeters = 100.0
)

// Proximity answers "who is near this point" over present users. It runs
// a two-stage pipeline: a bounding-box candidate scan in the store, then
// the exact haversine check here. The box is always a superset of the
// circle, so the second stage is the source of truth.
type Proximity struct {
	coordinateStore model.CoordinateStore
	logger          *logger.Logger
}

func NewProximity(coordinateStore model.CoordinateStore, logger *logger.Logger) *Proximity {
	return &Proximity{
		coordinateStore: coordinateStore,
		logger:          logger,
	}
}

// FindNearby returns every present user within radiusMeters of the
// center, inclusive of the boundary. A radius of zero or less means the
// caller omitted it and the nearby default applies.
func (s *Proximity) FindNearby(ctx context.Context, latitude, longitude, radiusMeters float64) ([]model.UserCoordinate, error) {
	if radiusMeters <= 0 {
		radiusMeters = DefaultNearbyRadiusMeters
	}
	return s.findWithinRadius(ctx, latitude, longitude, radiusMeters)
}

// FindAtLocation is FindNearby with the tighter at-location default.
func (s *Proximity) FindAtLocation(ctx context.Context, latitude, longitude, radiusMeters float64) ([]model.UserCoordinate, error) {
	if radiusMeters <= 0 {
		radiusMeters = DefaultAtLocationRadiusMeters
	}
	return s.findWithinRadius(ctx, latitude, longitude, radiusMeters)
}

func (s *Proximity) findWithinRadius(ctx context.Context, latitude, longitude, radiusMeters float64) ([]model.UserCoordinate, error) {
	if err := validatePoint(latitude, longitude); err != nil {
		return nil, err
	}

	box := geo.BoundingBox(latitude, longitude, radiusMeters)

	candidates, err := s.coordinateStore.FindWithinBox(ctx, box)
	if err != nil {
		return nil, fmt.Errorf("failed to find coordinates within box: %w", err)
	}

	results := make([]model.UserCoordinate, 0, len(candidates))
	for _, uc := range candidates {
		d := geo.Distance(latitude, longitude, uc.Coordinate.Latitude, uc.Coordinate.Longitude)
		if d <= radiusMeters {
			results = append(results, uc)
		}
	}

	s.logger.Debug("proximity query",
		"latitude", latitude,
		"longitude", longitude,
		"radius_m", radiusMeters,
		"candidates", len(candidates),
		"matches", len(results))

	return results, nil
}
