package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zachholt/nightout-presence/internal/logger"
)

// Logging logs method, path, status and duration for each request.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle is the gin middleware function.
func (l *Logging) Handle(c *gin.Context) {
	start := time.Now()

	c.Next()

	duration := time.Since(start)
	status := c.Writer.Status()

	l.logger.Info("http request completed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", status,
		"duration_ms", duration.Milliseconds())

	for _, ginErr := range c.Errors {
		l.logger.Error("http request error",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", ginErr.Error())
	}
}
