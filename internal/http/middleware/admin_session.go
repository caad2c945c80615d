package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"yantrashilpa.com/web/internal/modules/auth"
)

const ctxKeyAdminUser = "admin_user"

// SessionResolver maps a cookie token to the signed-in admin.
type SessionResolver interface {
	Current(ctx context.Context, token string) (auth.AuthUser, error)
}

type SessionCfg struct {
	Resolver SessionResolver
	Secure   bool
	Logger   *slog.Logger
}

// AdminSession loads the console user from the adminToken cookie. An unknown
// or expired token clears the cookie.
func AdminSession(cfg SessionCfg) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		u, err := cfg.Resolver.Current(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(ctxKeyAdminUser, u)
		case errors.Is(err, auth.ErrNoSession):
			ClearSessionCookie(c, cfg.Secure)
		default:
			if cfg.Logger != nil {
				cfg.Logger.WarnContext(c.Request.Context(), "session_lookup_failed",
					"request_id", GetRequestID(c), "err", err)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the admin loaded by AdminSession.
func CurrentUser(c *gin.Context) (auth.AuthUser, bool) {
	v, ok := c.Get(ctxKeyAdminUser)
	if !ok {
		return auth.AuthUser{}, false
	}
	u, ok := v.(auth.AuthUser)
	return u, ok
}

func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	clearCookie(c, auth.CookieName, secure)
}
