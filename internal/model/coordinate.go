package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CoordinateStore defines persistence operations for coordinates.
// A user has at most one coordinate; presence is row existence.
type CoordinateStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Coordinate, error)
	Upsert(ctx context.Context, userID uuid.UUID, latitude, longitude float64) (Coordinate, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	FindWithinBox(ctx context.Context, box BoundingBox) ([]UserCoordinate, error)
}

// Coordinate is a user's current location. CreatedAt is set on first
// check-in and preserved when the position is updated in place.
type Coordinate struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
}

// UserCoordinate pairs a present user's projection with their coordinate.
type UserCoordinate struct {
	User       User
	Coordinate Coordinate
}

// BoundingBox is a latitude/longitude rectangle used as a coarse
// candidate filter for proximity queries. When a radius cap crosses the
// antimeridian or covers a pole the box degrades to the full longitude
// range, so it always remains a superset of the true circle.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
	// WrapsLon marks a box whose longitude range crosses the antimeridian,
	// in which case a point matches when lon >= MinLon OR lon <= MaxLon.
	WrapsLon bool
}

// UpdatePresenceParams carries one check-in/check-out request.
// Latitude and Longitude must be both set (check-in) or both nil
// (check-out); anything else is a malformed request.
type UpdatePresenceParams struct {
	UserID    uuid.UUID
	Latitude  *float64
	Longitude *float64
}

// PresenceEventType enumerates presence transitions published to the bus.
type PresenceEventType string

const (
	// PresenceCheckedIn is published after a coordinate is set or moved.
	PresenceCheckedIn PresenceEventType = "checked_in"
	// PresenceCheckedOut is published after a coordinate is cleared.
	PresenceCheckedOut PresenceEventType = "checked_out"
)

// PresencePublisher publishes presence transitions. Implementations must
// be safe to call with a nil receiver so eventing can be left unwired.
type PresencePublisher interface {
	Publish(ctx context.Context, event PresenceEvent) error
}

// PresenceEvent is one presence transition.
type PresenceEvent struct {
	UserID     uuid.UUID         `json:"user_id"`
	Event      PresenceEventType `json:"event"`
	Latitude   *float64          `json:"latitude,omitempty"`
	Longitude  *float64          `json:"longitude,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
