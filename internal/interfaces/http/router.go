package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinegate/pinegate/internal/interfaces/http/middleware"
	"github.com/pinegate/pinegate/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.CustomLogger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/healthz", c.healthz)

	api := c.engine.Group("/api/v1")
	api.Use(c.authMiddleware.RequireServiceToken(), c.rateLimiter.Limit())

	routes.SetupAccessRoutes(api, &routes.AccessRouteConfig{
		Handler: c.hdlrs.accessGrantHandler,
	})
	routes.SetupSellerRoutes(api, &routes.SellerRouteConfig{
		Handler: c.hdlrs.sellerHandler,
	})
}

// healthz reports liveness; the database is the only hard dependency.
func (c *Container) healthz(ctx *gin.Context) {
	sqlDB, err := c.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.Request.Context())
	}
	if err != nil {
		c.log.Warnw("health check failed", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
