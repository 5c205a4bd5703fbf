package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/item-tracker/internal/domain"
	"github.com/gin-gonic/gin"
)

// UserFinder is satisfied by repository.UserRepository.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// RequireUser runs after Auth. It rejects otherwise valid tokens whose
// subject no longer exists in the credential store (e.g. after a storage
// reset), so item writes never hit a dangling owner reference.
func RequireUser(users UserFinder, logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("component", "require_user")
	return func(c *gin.Context) {
		userID := c.GetInt64(UserIDKey)
		if _, err := users.FindByID(c.Request.Context(), userID); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
				return
			}
			logger.ErrorContext(c.Request.Context(), "require user lookup", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Internal server error"})
			return
		}
		c.Next()
	}
}
