package http

import (
	"time"

	accessgrantHandlers "github.com/pinegate/pinegate/internal/interfaces/http/handlers/accessgrant"
	sellerHandlers "github.com/pinegate/pinegate/internal/interfaces/http/handlers/seller"
	"github.com/pinegate/pinegate/internal/interfaces/http/middleware"
)

// allHandlers holds every HTTP handler instance.
type allHandlers struct {
	accessGrantHandler *accessgrantHandlers.Handler
	sellerHandler      *sellerHandlers.Handler
}

func (c *Container) initHandlers() {
	u := c.ucs

	c.hdlrs = &allHandlers{
		accessGrantHandler: accessgrantHandlers.NewHandler(
			u.createGrantUC, u.getGrantUC, u.listLogsUC,
			u.assignUC, u.revokeUC, u.retryUC, u.verifyUC,
			c.log,
		),
		sellerHandler: sellerHandlers.NewHandler(
			u.connectUC, u.getConnUC, u.testConnUC, u.disconnectUC,
			u.syncCatalogUC, u.listCatalogUC, u.probeUC,
			c.log,
		),
	}

	c.authMiddleware = middleware.NewAuthMiddleware(c.svcs.tokens, c.log)
	c.rateLimiter = middleware.NewRateLimiter(c.redis, c.cfg.Server.RateLimitPerMinute, time.Minute, c.log)
}
