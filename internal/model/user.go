package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines the read-only lookups this service needs from the
// identity collaborator. User records are owned elsewhere.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}

// User is the projection of an identity-owned user consumed here:
// an opaque key plus the display fields merged into proximity results.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	ProfileImage string
	CreatedAt    time.Time
}
