package routes

import (
	"github.com/gin-gonic/gin"

	sellerHandlers "github.com/pinegate/pinegate/internal/interfaces/http/handlers/seller"
	"github.com/pinegate/pinegate/internal/interfaces/http/middleware"
	"github.com/pinegate/pinegate/internal/shared/constants"
)

type SellerRouteConfig struct {
	Handler *sellerHandlers.Handler
}

func SetupSellerRoutes(api *gin.RouterGroup, config *SellerRouteConfig) {
	sellers := api.Group("/sellers")
	sellers.Use(middleware.RequireRole(constants.RoleService, constants.RoleAdmin, constants.RoleSeller))
	{
		sellers.PUT("/:id/connection", config.Handler.Connect)
		sellers.GET("/:id/connection", config.Handler.GetConnection)
		sellers.DELETE("/:id/connection", config.Handler.Disconnect)
		sellers.POST("/:id/connection/test", config.Handler.TestConnection)

		sellers.POST("/:id/catalog/sync", config.Handler.SyncCatalog)
		sellers.GET("/:id/catalog", config.Handler.ListCatalog)
	}

	health := api.Group("/health")
	health.Use(middleware.RequireRole(constants.RoleService, constants.RoleAdmin))
	{
		health.POST("/sessions/check", config.Handler.CheckSessions)
	}
}
