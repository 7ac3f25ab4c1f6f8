package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zachholt/nightout-presence/internal/api/http/handler"
	"github.com/zachholt/nightout-presence/internal/api/http/middleware"
	"github.com/zachholt/nightout-presence/internal/logger"
)

// Pinger reports backing store reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router wires handlers and middleware into a gin engine.
type Router struct {
	presenceService  handler.PresenceService
	proximityService handler.ProximityService
	pinger           Pinger
	logger           *logger.Logger
}

// New creates new Router instance.
func New(
	presenceService handler.PresenceService,
	proximityService handler.ProximityService,
	pinger Pinger,
	logger *logger.Logger,
) *Router {
	return &Router{
		presenceService:  presenceService,
		proximityService: proximityService,
		pinger:           pinger,
		logger:           logger,
	}
}

// Register builds the gin engine with all routes and middleware.
func (r *Router) Register() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.NewLogging(r.logger).Handle)

	coordinateHandler := handler.NewCoordinate(r.presenceService, r.logger)
	userLocationHandler := handler.NewUserLocation(r.proximityService, r.logger)

	api := engine.Group("/api")
	{
		api.GET("/coordinates/:userId", coordinateHandler.GetCurrentLocation)
		api.POST("/coordinates", coordinateHandler.UpdatePresence)
		api.DELETE("/coordinates/:userId", coordinateHandler.ClearLocation)

		api.GET("/users/location", userLocationHandler.FindNearby)
		api.GET("/users/at-location", userLocationHandler.FindAtLocation)
	}

	engine.GET("/healthz", r.health)

	return engine
}

func (r *Router) health(c *gin.Context) {
	if err := r.pinger.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
