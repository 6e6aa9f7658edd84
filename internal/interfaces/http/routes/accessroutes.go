package routes

import (
	"github.com/gin-gonic/gin"

	accessgrantHandlers "github.com/pinegate/pinegate/internal/interfaces/http/handlers/accessgrant"
	"github.com/pinegate/pinegate/internal/interfaces/http/middleware"
	"github.com/pinegate/pinegate/internal/shared/constants"
)

type AccessRouteConfig struct {
	Handler *accessgrantHandlers.Handler
}

func SetupAccessRoutes(api *gin.RouterGroup, config *AccessRouteConfig) {
	access := api.Group("/access")
	access.Use(middleware.RequireRole(constants.RoleService, constants.RoleAdmin))
	{
		access.POST("/assign", config.Handler.Assign)
		access.POST("/revoke", config.Handler.Revoke)

		access.POST("/grants", config.Handler.CreateGrant)
		access.GET("/grants/:id", config.Handler.GetGrant)
		access.GET("/grants/:id/logs", config.Handler.ListLogs)
		access.GET("/grants/:id/verify", config.Handler.Verify)
		access.POST("/grants/:id/retry", config.Handler.Retry)
	}
}
