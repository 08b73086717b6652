package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jafrydeep2/offmarket-sub000/internal/auth"
	"github.com/jafrydeep2/offmarket-sub000/internal/logger"
	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/pkg/apperrors"
	"github.com/jafrydeep2/offmarket-sub000/pkg/contextkeys"
)

// AuthMiddleware validates the bearer token and stores the principal in
// the gin context for handlers downstream.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Missing Authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid Authorization header format"))
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set(contextkeys.GinUserID, claims.UserID)
		c.Set(contextkeys.GinUserRole, claims.Role)

		// Propagate the user id into the request context for log correlation.
		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleMiddleware restricts a route group to the given roles. Must run
// after AuthMiddleware.
func RoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(contextkeys.GinUserRole)
		if !exists {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
			c.Abort()
			return
		}

		role, ok := roleVal.(models.UserRole)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid role in context"))
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
		c.Abort()
	}
}
