package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zachholt/nightout-presence/internal/model"
)

// handleError maps domain errors to HTTP responses. Anything not in the
// taxonomy is a server-side failure and stays opaque to the caller.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidCoordinate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "coordinate not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
