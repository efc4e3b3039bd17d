package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retail-ledger/internal/application/service"
	"github.com/sangkips/retail-ledger/internal/presentation/http/dto/response"
	"github.com/sangkips/retail-ledger/pkg/logger"
	"github.com/sangkips/retail-ledger/pkg/utils"
)

// Gin context keys set by AuthMiddleware
const (
	ActorIDKey     = "actor_id"
	PermissionsKey = "actor_permissions"
)

// AuthMiddleware validates the bearer token and puts the caller on the
// request context as a service.Principal
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		ctx := service.WithPrincipal(c.Request.Context(), service.Principal{
			ActorID:     claims.ActorID,
			Permissions: claims.Permissions,
		})
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("actor_id", claims.ActorID.String()))
		c.Request = c.Request.WithContext(ctx)

		c.Set(ActorIDKey, claims.ActorID)
		c.Set(PermissionsKey, claims.Permissions)

		c.Next()
	}
}

// RequirePermission creates a middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := service.PrincipalFromContext(c.Request.Context())
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, granted := range p.Permissions {
			if granted == permission {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "You do not have permission to perform this action")
		c.Abort()
	}
}
