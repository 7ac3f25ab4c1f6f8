package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zachholt/nightout-presence/internal/logger"
	"github.com/zachholt/nightout-presence/internal/model"
)

// PresenceService defines business operations for presence management.
type PresenceService interface {
	UpdatePresence(ctx context.Context, params model.UpdatePresenceParams) (*model.Coordinate, error)
	GetCurrentLocation(ctx context.Context, userID uuid.UUID) (model.Coordinate, error)
	ClearLocation(ctx context.Context, userID uuid.UUID) error
}

// Coordinate handles HTTP endpoints for check-in, check-out and the
// current-location lookup.
type Coordinate struct {
	presenceService PresenceService
	logger          *logger.Logger
}

// NewCoordinate creates a new Coordinate handler.
func NewCoordinate(presenceService PresenceService, logger *logger.Logger) *Coordinate {
	return &Coordinate{
		presenceService: presenceService,
		logger:          logger,
	}
}

type updatePresenceRequest struct {
	UserID    uuid.UUID `json:"user_id" binding:"required"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
}

type coordinateResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

type presenceResponse struct {
	Present    bool                `json:"present"`
	Coordinate *coordinateResponse `json:"coordinate,omitempty"`
}

func toCoordinateResponse(coord model.Coordinate) *coordinateResponse {
	return &coordinateResponse{
		ID:        coord.ID,
		UserID:    coord.UserID,
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
		CreatedAt: coord.CreatedAt,
	}
}

// UpdatePresence handles POST /api/coordinates. Both coordinates mean
// check-in, neither means check-out, one of the two is a bad request.
func (h *Coordinate) UpdatePresence(c *gin.Context) {
	var req updatePresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	coord, err := h.presenceService.UpdatePresence(c.Request.Context(), model.UpdatePresenceParams{
		UserID:    req.UserID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		h.logger.Error("failed to update presence", "user_id", req.UserID, "error", err)
		handleError(c, err)
		return
	}

	resp := presenceResponse{Present: coord != nil}
	if coord != nil {
		resp.Coordinate = toCoordinateResponse(*coord)
	}
	c.JSON(http.StatusOK, resp)
}

// GetCurrentLocation handles GET /api/coordinates/:userId. Absence is a
// 404, mirroring presence-as-row-existence.
func (h *Coordinate) GetCurrentLocation(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	coord, err := h.presenceService.GetCurrentLocation(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCoordinateResponse(coord))
}

// ClearLocation handles DELETE /api/coordinates/:userId. Idempotent:
// clearing an absent location succeeds.
func (h *Coordinate) ClearLocation(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.presenceService.ClearLocation(c.Request.Context(), userID); err != nil {
		h.logger.Error("failed to clear location", "user_id", userID, "error", err)
		handleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
