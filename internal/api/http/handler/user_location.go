package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zachholt/nightout-presence/internal/logger"
	"github.com/zachholt/nightout-presence/internal/model"
)

// ProximityService defines business operations for proximity queries.
type ProximityService interface {
	FindNearby(ctx context.Context, latitude, longitude, radiusMeters float64) ([]model.UserCoordinate, error)
	FindAtLocation(ctx context.Context, latitude, longitude, radiusMeters float64) ([]model.UserCoordinate, error)
}

// UserLocation handles HTTP endpoints answering "who is near this point".
type UserLocation struct {
	proximityService ProximityService
	logger           *logger.Logger
}

// NewUserLocation creates a new UserLocation handler.
func NewUserLocation(proximityService ProximityService, logger *logger.Logger) *UserLocation {
	return &UserLocation{
		proximityService: proximityService,
		logger:           logger,
	}
}

// nearbyUserResponse merges the user projection with their coordinate.
type nearbyUserResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
}

func toNearbyUserResponses(results []model.UserCoordinate) []nearbyUserResponse {
	resp := make([]nearbyUserResponse, 0, len(results))
	for _, uc := range results {
		resp = append(resp, nearbyUserResponse{
			ID:           uc.User.ID,
			Name:         uc.User.Name,
			Email:        uc.User.Email,
			ProfileImage: uc.User.ProfileImage,
			CreatedAt:    uc.User.CreatedAt,
			Latitude:     uc.Coordinate.Latitude,
			Longitude:    uc.Coordinate.Longitude,
		})
	}
	return resp
}

// FindNearby handles GET /api/users/location. Radius defaults to 2 km
// when omitted.
func (h *UserLocation) FindNearby(c *gin.Context) {
	h.query(c, h.proximityService.FindNearby)
}

// FindAtLocation handles GET /api/users/at-location. Radius defaults to
// 100 m when omitted.
func (h *UserLocation) FindAtLocation(c *gin.Context) {
	h.query(c, h.proximityService.FindAtLocation)
}

func (h *UserLocation) query(c *gin.Context, find func(context.Context, float64, float64, float64) ([]model.UserCoordinate, error)) {
	latitude, ok := parseFloatParam(c, "latitude", true)
	if !ok {
		return
	}
	longitude, ok := parseFloatParam(c, "longitude", true)
	if !ok {
		return
	}
	radius, ok := parseFloatParam(c, "radius", false)
	if !ok {
		return
	}

	results, err := find(c.Request.Context(), latitude, longitude, radius)
	if err != nil {
		h.logger.Error("proximity query failed",
			"latitude", latitude,
			"longitude", longitude,
			"radius", radius,
			"error", err)
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toNearbyUserResponses(results))
}

// parseFloatParam reads a float query parameter. A missing optional
// parameter yields zero, which services treat as "use the default".
func parseFloatParam(c *gin.Context, name string, required bool) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		if required {
			c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
			return 0, false
		}
		return 0, true
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a number"})
		return 0, false
	}

	return value, true
}
