package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zachholt/nightout-presence/internal/geo"
	"github.com/zachholt/nightout-presence/internal/logger"
	"github.com/zachholt/nightout-presence/internal/model"
)

// Presence interprets check-in/check-out requests and delegates the
// actual write to the coordinate store. It keeps no state between calls;
// a user's presence is the existence of their coordinate row.
type Presence struct {
	coordinateStore model.CoordinateStore
	userStore       model.UserStore
	publisher       model.PresencePublisher
	logger          *logger.Logger
}

func NewPresence(
	coordinateStore model.CoordinateStore,
	userStore model.UserStore,
	publisher model.PresencePublisher,
	logger *logger.Logger,
) *Presence {
	return &Presence{
		coordinateStore: coordinateStore,
		userStore:       userStore,
		publisher:       publisher,
		logger:          logger,
	}
}

// UpdatePresence applies one check-in or check-out. Both coordinates set
// is a check-in (or a move, which is the same write); neither set is a
// check-out; exactly one set is rejected before touching the store.
// The returned coordinate is nil after a check-out.
func (s *Presence) UpdatePresence(ctx context.Context, params model.UpdatePresenceParams) (*model.Coordinate, error) {
	if (params.Latitude == nil) != (params.Longitude == nil) {
		return nil, fmt.Errorf("%w: latitude and longitude must be supplied together", model.ErrInvalidCoordinate)
	}

	if _, err := s.userStore.GetByID(ctx, params.UserID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	if params.Latitude == nil {
		return nil, s.checkOut(ctx, params.UserID)
	}

	return s.checkIn(ctx, params.UserID, *params.Latitude, *params.Longitude)
}

func (s *Presence) checkIn(ctx context.Context, userID uuid.UUID, latitude, longitude float64) (*model.Coordinate, error) {
	if err := validatePoint(latitude, longitude); err != nil {
		return nil, err
	}

	coord, err := s.coordinateStore.Upsert(ctx, userID, latitude, longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert coordinate: %w", err)
	}

	s.publish(ctx, model.PresenceEvent{
		UserID:     userID,
		Event:      model.PresenceCheckedIn,
		Latitude:   &coord.Latitude,
		Longitude:  &coord.Longitude,
		OccurredAt: time.Now().UTC(),
	})

	return &coord, nil
}

func (s *Presence) checkOut(ctx context.Context, userID uuid.UUID) error {
	if err := s.coordinateStore.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete coordinate: %w", err)
	}

	s.publish(ctx, model.PresenceEvent{
		UserID:     userID,
		Event:      model.PresenceCheckedOut,
		OccurredAt: time.Now().UTC(),
	})

	return nil
}

// GetCurrentLocation returns the user's coordinate, or model.ErrNotFound
// when the user is not checked in anywhere.
func (s *Presence) GetCurrentLocation(ctx context.Context, userID uuid.UUID) (model.Coordinate, error) {
	coord, err := s.coordinateStore.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Coordinate{}, model.ErrNotFound
		}
		return model.Coordinate{}, fmt.Errorf("failed to get coordinate by user id: %w", err)
	}

	return coord, nil
}

// ClearLocation checks the user out directly. Idempotent.
func (s *Presence) ClearLocation(ctx context.Context, userID uuid.UUID) error {
	return s.checkOut(ctx, userID)
}

// publish sends a presence event. Failures are logged and swallowed:
// events are advisory and must not fail the write that already committed.
func (s *Presence) publish(ctx context.Context, event model.PresenceEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish presence event",
			"user_id", event.UserID,
			"event", event.Event,
			"error", err)
	}
}

func validatePoint(latitude, longitude float64) error {
	if !geo.ValidLatitude(latitude) {
		return fmt.Errorf("%w: latitude %v out of range", model.ErrInvalidCoordinate, latitude)
	}
	if !geo.ValidLongitude(longitude) {
		return fmt.Errorf("%w: longitude %v out of range", model.ErrInvalidCoordinate, longitude)
	}
	return nil
}
