package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kbcportal/internal/domain"
	"kbcportal/internal/infrastructure/logger"
)

const (
	SessionCookie = "kbc_session"

	userKey = "currentUser"

	msgPendingApproval = "승인 대기 중입니다."
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// SessionToken reads the session cookie, falling back to a Bearer header.
func SessionToken(c *gin.Context) string {
	if v, err := c.Cookie(SessionCookie); err == nil && v != "" {
		return v
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Session resolves the caller's session, if any. It never rejects a
// request; the Require* guards do that.
func Session(auth Authenticator, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.Next()
			return
		}
		user, err := auth.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(userKey, user)
		case errors.Is(err, domain.ErrSessionNotFound):
		default:
			// fail closed: the guards will answer 401
			if log != nil {
				log.Error("session lookup failed", "error", err)
			}
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}

// RequireUser answers 401 without a session.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireApproved lets only approved members through.
func RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !user.IsApproved() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msgPendingApproval})
			return
		}
		c.Next()
	}
}

// RequireAdmin answers 401 without a session and 403 for non-admins, before
// the handler runs.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}
