package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/data-drive/internal/domain"
	"github.com/ErlanBelekov/data-drive/internal/reqctx"
	"github.com/gin-gonic/gin"
)

const (
	errUnauthorized = "Invalid or expired token"

	// UserEmailKey holds the authenticated subject in the gin context.
	UserEmailKey = "userEmail"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

// Auth validates a Bearer token, self-issued or external, and sets
// "userEmail" in the gin context.
func Auth(auth authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, rawToken, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(rawToken) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(rawToken))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set(UserEmailKey, identity.Subject)
		c.Request = c.Request.WithContext(reqctx.WithSubject(c.Request.Context(), identity.Subject))
		c.Next()
	}
}
