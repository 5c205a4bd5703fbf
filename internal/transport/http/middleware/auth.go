package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/item-tracker/internal/requestctx"
	"github.com/ErlanBelekov/item-tracker/internal/token"
	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Unauthorized"

// Keys under which Auth stores the caller's identity in the gin context.
const (
	UserIDKey    = "userID"
	UserEmailKey = "userEmail"
	UserNameKey  = "userName"
)

// Authenticator is satisfied by *usecase.AuthUsecase.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*token.Identity, error)
}

// Auth validates a Bearer token and sets the caller's identity in the gin
// context. Every failure answers the same bare 401.
func Auth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		id, err := authn.Authenticate(c.Request.Context(), rawToken)
		if err != nil || id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set(UserIDKey, id.UserID)
		c.Set(UserEmailKey, id.Email)
		c.Set(UserNameKey, id.FullName)
		c.Request = c.Request.WithContext(requestctx.WithUserID(c.Request.Context(), id.UserID))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(prefix):])
	return raw, raw != ""
}
