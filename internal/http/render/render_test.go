package render_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yantrashilpa.com/web/internal/content"
	"yantrashilpa.com/web/internal/http/render"
	"yantrashilpa.com/web/pkg/view"
	"yantrashilpa.com/web/templates/pages"
)

func init() { gin.SetMode(gin.TestMode) }

func newRenderer(t *testing.T) (*render.Renderer, *content.Site) {
	t.Helper()
	site, err := content.Load()
	require.NoError(t, err)
	return render.New(site), site
}

func testContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func TestComponent_WritesHTML(t *testing.T) {
	r, site := newRenderer(t)
	c, w := testContext(http.MethodGet, "/about")

	render.Component(c, http.StatusOK, pages.About(r.Layout(c, "About Us"), view.AboutPage{
		Hero:  view.NewPageHero(site.Page("about")),
		About: site.About,
	}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "<!doctype html>"))
	assert.Contains(t, body, "<title>About Us | "+site.Company.Name+"</title>")
	assert.Equal(t, 2, strings.Count(body, `aria-current="page"`), "header link and breadcrumb")
}

func TestComponent_FailureRecordsError(t *testing.T) {
	c, w := testContext(http.MethodGet, "/")
	broken := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, "<p>half")
		return errors.New("boom")
	})

	render.Component(c, http.StatusOK, broken)

	assert.True(t, c.IsAborted())
	require.Len(t, c.Errors, 1)
	assert.EqualError(t, c.Errors[0].Err, "boom")
	assert.Zero(t, w.Body.Len())
}

func TestLayout(t *testing.T) {
	r, site := newRenderer(t)

	c, _ := testContext(http.MethodGet, "/gallery")
	l := r.Layout(c, "Gallery")
	assert.Equal(t, "Gallery", l.Title)
	assert.Equal(t, site.Company, l.Company)
	assert.Equal(t, site.Hero.Subtitle, l.Description)
	require.Len(t, l.Nav, len(site.Nav))
	for _, n := range l.Nav {
		assert.Equal(t, n.Href == "/gallery", n.Active, n.Name)
	}
	assert.Nil(t, l.User)

	c, _ = testContext(http.MethodGet, "/admin/dashboard/add-product")
	l = r.Layout(c, "Add Product")
	assert.Equal(t, view.AdminNav("/admin/dashboard/add-product"), l.Nav)
}

func TestErrorPage(t *testing.T) {
	r, _ := newRenderer(t)
	c, w := testContext(http.MethodGet, "/about")

	require.True(t, r.ErrorPage(c, http.StatusNotFound, "Gone.", "rid-1"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>Not Found | ")
	assert.Contains(t, body, ">404</p>")
	assert.Contains(t, body, "Gone.")
	assert.Contains(t, body, "Request ID: rid-1")
	assert.NotContains(t, body, `aria-current="page"`, "no nav entry is current on an error page")
}

func TestRedirect(t *testing.T) {
	for method, want := range map[string]int{http.MethodGet: http.StatusFound, http.MethodPost: http.StatusSeeOther} {
		c, w := testContext(method, "/admin/logout")
		render.Redirect(c, "/admin/login")
		// http.Redirect writes no body for a POST, so flush the header the
		// way the engine does once the handler chain returns.
		c.Writer.WriteHeaderNow()
		assert.Equal(t, want, w.Code, method)
		assert.Equal(t, "/admin/login", w.Header().Get("Location"))
	}
}
