package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yantrashilpa.com/web/internal/http/flash"
	"yantrashilpa.com/web/internal/modules/auth"
	"yantrashilpa.com/web/pkg/view"
)

// RequireAdmin guards the console:
// - no session: JSON 401, or a redirect to /admin/login with a flash
// - a session without the admin role: JSON 403, or back to the site root
func RequireAdmin(flashCodec *flash.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			if WantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":      "authentication required",
					"request_id": GetRequestID(c),
				})
				return
			}

			SetFlashCookie(c, flashCodec, view.Flash{
				Kind:    view.FlashWarning,
				Message: "Please sign in to access the admin dashboard.",
			})
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}

		if u.Role != auth.RoleAdmin {
			if WantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error":      "forbidden",
					"request_id": GetRequestID(c),
				})
				return
			}

			SetFlashCookie(c, flashCodec, view.Flash{
				Kind:    view.FlashError,
				Message: "You do not have access to the admin dashboard.",
			})
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}
