package render

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"yantrashilpa.com/web/internal/http/middleware"
	"yantrashilpa.com/web/pkg/view"
	"yantrashilpa.com/web/templates/pages"
)

// Layout collects the shell data for the current request.
func (r *Renderer) Layout(c *gin.Context, title string) view.Layout {
	path := c.Request.URL.Path
	l := view.Layout{
		Title:     title,
		Path:      path,
		Flash:     middleware.GetFlash(c),
		CSRFToken: middleware.GetCSRFToken(c),
		RequestID: middleware.GetRequestID(c),
	}
	if r.site != nil {
		l.Company = r.site.Company
		l.Social = r.site.Social
		l.Description = r.site.Hero.Subtitle
		if strings.HasPrefix(path, "/admin") {
			l.Nav = view.AdminNav(path)
		} else {
			l.Nav = view.BuildNav(r.site.Nav, path)
		}
	}
	if u, ok := middleware.CurrentUser(c); ok {
		l.User = &view.AdminUser{ID: u.ID, Email: u.Email, Role: u.Role}
	}
	return l
}

// ErrorPage is the HTML half of middleware.ErrorHandler.
func (r *Renderer) ErrorPage(c *gin.Context, status int, msg, requestID string) bool {
	l := r.Layout(c, http.StatusText(status))
	if r.site != nil {
		l.Nav = view.BuildNav(r.site.Nav, "")
	}
	page := pages.Error(l, view.ErrorPage{
		Status:    status,
		Title:     http.StatusText(status),
		Message:   msg,
		RequestID: requestID,
	})
	var buf bytes.Buffer
	if err := page.Render(c.Request.Context(), &buf); err != nil {
		return false
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
	return true
}
