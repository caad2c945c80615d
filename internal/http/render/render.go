// Package render writes templ components as gin responses.
package render

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"yantrashilpa.com/web/internal/content"
	"yantrashilpa.com/web/internal/observability"
)

// Renderer builds the page shell from the site content.
type Renderer struct {
	site *content.Site
}

func New(site *content.Site) *Renderer {
	return &Renderer{site: site}
}

// Component renders into a buffer first so a failing component never leaves a
// half-written page. The time spent is reported as the "render" metric.
func Component(c *gin.Context, status int, comp templ.Component) {
	m := observability.StartServerTiming(c.Request.Context(), observability.MetricRender)
	var buf bytes.Buffer
	err := comp.Render(c.Request.Context(), &buf)
	m.Stop()
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// Redirect is a 303 after a form post, 302 otherwise.
func Redirect(c *gin.Context, location string) {
	code := http.StatusFound
	if c.Request.Method == http.MethodPost {
		code = http.StatusSeeOther
	}
	c.Redirect(code, location)
}
