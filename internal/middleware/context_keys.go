package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
)

// userIDKey is the key used to store the authenticated user's ID in the
// request context. Using a custom type prevents collisions.
const userIDKey = contextKey("userID")

// adminActorKey holds the verified admin actor set by AdminMiddleware.
const adminActorKey = contextKey("adminActor")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal := c.Request.Context().Value(userIDKey)
	if userIDVal == nil {
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}

// GetAdminActorFromContext retrieves the verified admin actor from the Gin
// context. It is only present on routes behind AdminMiddleware.
func GetAdminActorFromContext(c *gin.Context) (domain.AdminActor, bool) {
	actorVal := c.Request.Context().Value(adminActorKey)
	if actorVal == nil {
		return domain.AdminActor{}, false
	}
	actor, ok := actorVal.(domain.AdminActor)
	if !ok {
		return domain.AdminActor{}, false
	}
	return actor, true
}
