package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/zachholt/nightout-presence/internal/model"
)

var _ model.CoordinateStore = (*CoordinateRepository)(nil)

// CoordinateRepository owns the coordinates table: at most one row per
// user, enforced by a UNIQUE constraint on user_id.
type CoordinateRepository struct {
	db *Connection
}

func NewCoordinateRepository(db *Connection) *CoordinateRepository {
	return &CoordinateRepository{
		db: db,
	}
}

func (r *CoordinateRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (model.Coordinate, error) {
	var coord model.Coordinate
	query := `SELECT id, user_id, latitude, longitude, created_at
			  FROM coordinates WHERE user_id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&coord.ID, &coord.UserID, &coord.Latitude, &coord.Longitude, &coord.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Coordinate{}, model.ErrNotFound
		}
		return model.Coordinate{}, fmt.Errorf("failed to get coordinate by user id: %w", err)
	}

	return coord, nil
}

// Upsert sets the user's coordinate in a single statement. An existing
// row keeps its id and created_at; only the position changes. The write
// is atomic per user, so concurrent callers never observe a torn update
// or a moment with zero rows for a checked-in user.
func (r *CoordinateRepository) Upsert(ctx context.Context, userID uuid.UUID, latitude, longitude float64) (model.Coordinate, error) {
	query := `INSERT INTO coordinates (id, user_id, latitude, longitude)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_id) DO UPDATE
			  SET latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude
			  RETURNING id, user_id, latitude, longitude, created_at`

	var coord model.Coordinate
	err := r.db.QueryRow(ctx, query, uuid.New(), userID, latitude, longitude).Scan(
		&coord.ID, &coord.UserID, &coord.Latitude, &coord.Longitude, &coord.CreatedAt,
	)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("failed to upsert coordinate: %w", err)
	}

	return coord, nil
}

// Delete removes the user's coordinate. Deleting an absent coordinate is
// not an error.
func (r *CoordinateRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM coordinates WHERE user_id = $1`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete coordinate: %w", err)
	}

	return nil
}

// FindWithinBox returns every present user whose coordinate falls inside
// the bounding box, joined with the user projection. The box is a coarse
// candidate filter; the caller applies the exact distance check.
func (r *CoordinateRepository) FindWithinBox(ctx context.Context, box model.BoundingBox) ([]model.UserCoordinate, error) {
	lonCond := `c.longitude BETWEEN $3 AND $4`
	if box.WrapsLon {
		lonCond = `(c.longitude >= $3 OR c.longitude <= $4)`
	}

	query := fmt.Sprintf(`
		SELECT u.id, u.name, u.email, u.profile_image, u.created_at,
		       c.id, c.user_id, c.latitude, c.longitude, c.created_at
		FROM coordinates c
		JOIN users u ON u.id = c.user_id
		WHERE c.latitude BETWEEN $1 AND $2 AND %s`, lonCond)

	rows, err := r.db.Query(ctx, query, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil {
		return nil, fmt.Errorf("failed to query coordinates within box: %w", err)
	}
	defer rows.Close()

	var results []model.UserCoordinate
	for rows.Next() {
		var uc model.UserCoordinate
		err := rows.Scan(
			&uc.User.ID, &uc.User.Name, &uc.User.Email, &uc.User.ProfileImage, &uc.User.CreatedAt,
			&uc.Coordinate.ID, &uc.Coordinate.UserID, &uc.Coordinate.Latitude, &uc.Coordinate.Longitude, &uc.Coordinate.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coordinate row: %w", err)
		}
		results = append(results, uc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read coordinate rows: %w", err)
	}

	return results, nil
}
