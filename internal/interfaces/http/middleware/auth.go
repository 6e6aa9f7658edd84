package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pinegate/pinegate/internal/infrastructure/auth"
	"github.com/pinegate/pinegate/internal/shared/constants"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
	"github.com/pinegate/pinegate/internal/shared/utils"
)

type AuthMiddleware struct {
	tokens *auth.ServiceTokenService
	logger logger.Interface
}

func NewAuthMiddleware(tokens *auth.ServiceTokenService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		logger: logger,
	}
}

// RequireServiceToken verifies the bearer token and records the caller's actor and role.
func (m *AuthMiddleware) RequireServiceToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("missing authorization token"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := m.tokens.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify service token",
				"error", err,
				"token", utils.MaskToken(parts[1]),
				"client_ip", c.ClientIP())
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyActor, claims.Actor)
		c.Set(constants.ContextKeyRole, claims.Role)

		c.Next()
	}
}

// RequireRole allows the request through only for the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, c.GetString(constants.ContextKeyRole)) {
			utils.ErrorResponseWithError(c, errors.NewForbiddenError("insufficient role for this operation"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActorFromContext returns the actor recorded by the auth middleware.
func ActorFromContext(c *gin.Context) string {
	return c.GetString(constants.ContextKeyActor)
}
