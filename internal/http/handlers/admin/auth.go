package admin

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"yantrashilpa.com/web/internal/http/flash"
	"yantrashilpa.com/web/internal/http/middleware"
	"yantrashilpa.com/web/internal/http/render"
	"yantrashilpa.com/web/internal/http/validation"
	"yantrashilpa.com/web/internal/modules/auth"
	"yantrashilpa.com/web/internal/shared/apperr"
	"yantrashilpa.com/web/pkg/view"
	"yantrashilpa.com/web/templates/pages"
)

type loginInput struct {
	Email    string `form:"email" binding:"required,email,max=255"`
	Password string `form:"password" binding:"required,max=200"`
}

type AuthHandler struct {
	R            *render.Renderer
	Auth         *auth.Service
	Flash        *flash.Codec
	SessionTTL   time.Duration
	SecureCookie bool
}

func NewAuthHandler(r *render.Renderer, svc *auth.Service, f *flash.Codec, ttl time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{R: r, Auth: svc, Flash: f, SessionTTL: ttl, SecureCookie: secure}
}

// Root sends /admin to the dashboard or the login form.
func (h *AuthHandler) Root(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/admin/login")
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}

	st, err := h.Auth.Status(c.Request.Context(), c.ClientIP())
	if err != nil {
		_ = c.Error(apperr.Wrap(err))
		return
	}
	h.render(c, http.StatusOK, view.LoginPage{}, st)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBind(&in); err != nil {
		st, serr := h.Auth.Status(c.Request.Context(), c.ClientIP())
		if serr != nil {
			_ = c.Error(apperr.Wrap(serr))
			return
		}
		h.render(c, http.StatusBadRequest, view.LoginPage{
			Form:   view.LoginForm{Email: in.Email},
			Errors: validation.FromBindError(err, &in),
		}, st)
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), auth.LoginInput{
		Email:     in.Email,
		Password:  in.Password,
		ClientKey: c.ClientIP(),
		RequestID: middleware.GetRequestID(c),
	})
	var le *auth.LoginError
	switch {
	case errors.As(err, &le):
		status := http.StatusUnauthorized
		if le.Status.Locked {
			status = http.StatusTooManyRequests
		}
		h.render(c, status, view.LoginPage{
			Form:  view.LoginForm{Email: in.Email},
			Error: le.Message,
		}, le.Status)
		return
	case err != nil:
		_ = c.Error(apperr.Wrap(err))
		return
	}

	middleware.SetSessionCookie(c, res.Token, h.SessionTTL, h.SecureCookie)
	render.Redirect(c, "/admin/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(auth.CookieName); err == nil {
		if err := h.Auth.Logout(c.Request.Context(), token); err != nil {
			_ = c.Error(apperr.Wrap(err))
			return
		}
	}
	middleware.ClearSessionCookie(c, h.SecureCookie)
	render.RedirectWithFlash(c, h.Flash, "/admin/login", view.FlashInfo, "You have been signed out.")
}

// Verify is the JSON session check: {user:{id,email,role,lastLogin}} or 401.
func (h *AuthHandler) Verify(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "unauthorized",
			"request_id": middleware.GetRequestID(c),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *AuthHandler) render(c *gin.Context, status int, p view.LoginPage, st auth.Status) {
	p.Locked = st.Locked
	switch {
	case st.Locked:
		p.LockoutText = "Account locked for " + st.LockoutText()
	case st.Attempts > 0:
		p.Remaining = attemptsText(st.Remaining)
	}
	render.Component(c, status, pages.Login(h.R.Layout(c, "Admin Login"), p))
}

func attemptsText(n int) string {
	if n == 1 {
		return "1 attempt remaining"
	}
	return itoa(n) + " attempts remaining"
}
