package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yantrashilpa.com/web/internal/http/flash"
	"yantrashilpa.com/web/internal/modules/auth"
	"yantrashilpa.com/web/internal/shared/apperr"
)

func init() { gin.SetMode(gin.TestMode) }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testCodec() *flash.Codec { return flash.NewCodec([]byte("test-secret"), "flash", false) }

var validToken = strings.Repeat("ab", 32)

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	tests := []struct {
		name   string
		header string
		reuse  bool
	}{
		{"well-formed id is kept", "abc-123_XYZ", true},
		{"missing id is minted", "", false},
		{"spaces are rejected", "abc 123", false},
		{"newline is rejected", "abc\nforged", false},
		{"overlong id is rejected", strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header[http.CanonicalHeaderKey(HeaderRequestID)] = []string{tt.header}
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(HeaderRequestID)
			assert.Equal(t, got, w.Body.String())
			if tt.reuse {
				assert.Equal(t, tt.header, got)
			} else {
				assert.Len(t, got, 32)
			}
		})
	}
}

func csrfRouter(limit int64) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(quietLogger(), nil), BodyLimit(limit), CSRF(false))
	r.GET("/form", func(c *gin.Context) { c.String(http.StatusOK, GetCSRFToken(c)) })
	r.POST("/form", func(c *gin.Context) { c.String(http.StatusOK, "ok:"+c.PostForm("name")) })
	return r
}

func postForm(vals url.Values, cookie string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: cookie})
	}
	return req
}

func TestCSRF_IssuesTokenOnGet(t *testing.T) {
	r := csrfRouter(1 << 20)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, CSRFCookieName, cookies[0].Name)
	assert.Equal(t, cookies[0].Value, w.Body.String())
	assert.True(t, cookies[0].HttpOnly)
}

func TestCSRF_KeepsValidCookie(t *testing.T) {
	r := csrfRouter(1 << 20)
	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: validToken})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, validToken, w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func TestCSRF_Post(t *testing.T) {
	tests := []struct {
		name   string
		form   url.Values
		header string
		cookie string
		want   int
	}{
		{"matching form field", url.Values{"csrf_token": {validToken}, "name": {"rig"}}, "", validToken, http.StatusOK},
		{"matching header", url.Values{"name": {"rig"}}, validToken, validToken, http.StatusOK},
		{"missing token", url.Values{"name": {"rig"}}, "", validToken, http.StatusForbidden},
		{"wrong token", url.Values{"csrf_token": {strings.Repeat("cd", 32)}}, "", validToken, http.StatusForbidden},
		{"no cookie", url.Values{"csrf_token": {validToken}}, "", "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := postForm(tt.form, tt.cookie)
			if tt.header != "" {
				req.Header.Set(CSRFHeader, tt.header)
			}
			w := httptest.NewRecorder()
			csrfRouter(1<<20).ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "ok:rig", w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), "Your form has expired")
			}
		})
	}
}

func TestCSRF_OversizedBody(t *testing.T) {
	form := url.Values{"csrf_token": {validToken}, "name": {strings.Repeat("x", 512)}}
	w := httptest.NewRecorder()
	csrfRouter(128).ServeHTTP(w, postForm(form, validToken))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func multipartPost(target, cookie string, size int) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "rig")
	part, _ := mw.CreateFormFile("image", "rig.png")
	_, _ = part.Write(bytes.Repeat([]byte{0x42}, size))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: cookie})
	return req
}

func TestCSRF_MultipartQueryToken(t *testing.T) {
	var bodyRead bool
	r := gin.New()
	r.Use(ErrorHandler(quietLogger(), nil), BodyLimit(1<<10), CSRF(false))
	r.POST("/upload", func(c *gin.Context) {
		bodyRead = c.Request.MultipartForm != nil
		_, err := c.FormFile("image")
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.String(http.StatusBadRequest, "image too large")
			return
		}
		c.String(http.StatusOK, "ok:"+c.PostForm("name"))
	})

	t.Run("small body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartPost("/upload?csrf_token="+validToken, validToken, 16))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok:rig", w.Body.String())
		assert.False(t, bodyRead, "middleware left the body unread")
	})

	t.Run("oversized body reaches the handler", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartPost("/upload?csrf_token="+validToken, validToken, 4<<10))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "image too large", w.Body.String())
	})

	t.Run("wrong query token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartPost("/upload?csrf_token="+strings.Repeat("cd", 32), validToken, 16))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("query token ignored for urlencoded forms", func(t *testing.T) {
		req := postForm(url.Values{"name": {"rig"}}, validToken)
		req.URL.RawQuery = "csrf_token=" + validToken
		w := httptest.NewRecorder()
		csrfRouter(1<<20).ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRedactQuery(t *testing.T) {
	assert.Equal(t, "", redactQuery(""))
	assert.Equal(t, "q=rig", redactQuery("q=rig"))
	assert.Equal(t, "", redactQuery("csrf_token="+validToken))
	assert.Equal(t, "q=rig", redactQuery("csrf_token="+validToken+"&q=rig"))
}

func TestETag(t *testing.T) {
	r := gin.New()
	r.Use(ETag())
	r.GET("/page", func(c *gin.Context) { c.String(http.StatusOK, "hello world") })
	r.GET("/missing", func(c *gin.Context) { c.String(http.StatusNotFound, "nope") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/page", nil))
	require.Equal(t, http.StatusOK, w.Code)
	tag := w.Header().Get("ETag")
	assert.True(t, strings.HasPrefix(tag, `W/"`), tag)
	assert.Equal(t, "private, no-cache", w.Header().Get("Cache-Control"))
	assert.Equal(t, "hello world", w.Body.String())

	// Same body, same tag.
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.Equal(t, tag, w2.Header().Get("ETag"))

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.Header.Set("If-None-Match", tag)
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, req)
	assert.Equal(t, http.StatusNotModified, w3.Code)
	assert.Empty(t, w3.Body.String())

	w4 := httptest.NewRecorder()
	r.ServeHTTP(w4, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w4.Code)
	assert.Empty(t, w4.Header().Get("ETag"))
	assert.Equal(t, "nope", w4.Body.String())
}

func TestETagMatches(t *testing.T) {
	assert.True(t, etagMatches(`W/"00ff"`, `W/"00ff"`))
	assert.True(t, etagMatches(`"00ff"`, `W/"00ff"`))
	assert.True(t, etagMatches(`"aaaa", W/"00ff"`, `W/"00ff"`))
	assert.True(t, etagMatches(`*`, `W/"00ff"`))
	assert.False(t, etagMatches(``, `W/"00ff"`))
	assert.False(t, etagMatches(`W/"0100"`, `W/"00ff"`))
}

func consoleRouter(user *auth.AuthUser) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), func(c *gin.Context) {
		if user != nil {
			c.Set(ctxKeyAdminUser, *user)
		}
		c.Next()
	}, RequireAdmin(testCodec()))
	r.GET("/admin/dashboard", func(c *gin.Context) { c.String(http.StatusOK, "console") })
	return r
}

func TestRequireAdmin(t *testing.T) {
	t.Run("anonymous html is sent to login with a flash", func(t *testing.T) {
		w := httptest.NewRecorder()
		consoleRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/admin/login", w.Header().Get("Location"))
		assert.Contains(t, w.Header().Get("Set-Cookie"), "flash=")
	})

	t.Run("anonymous json gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		consoleRouter(nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "authentication required")
	})

	t.Run("non-admin role goes home", func(t *testing.T) {
		w := httptest.NewRecorder()
		consoleRouter(&auth.AuthUser{Email: "x@y.z", Role: "viewer"}).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("admin passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		consoleRouter(&auth.AuthUser{Email: "admin@yantrashilpa.com", Role: auth.RoleAdmin}).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "console", w.Body.String())
	})
}

type fakeResolver struct{}

func (fakeResolver) Current(_ context.Context, token string) (auth.AuthUser, error) {
	switch token {
	case "good":
		return auth.AuthUser{ID: "u1", Email: "admin@yantrashilpa.com", Role: auth.RoleAdmin}, nil
	case "broken":
		return auth.AuthUser{}, errors.New("db down")
	default:
		return auth.AuthUser{}, auth.ErrNoSession
	}
}

func TestAdminSession(t *testing.T) {
	r := gin.New()
	r.Use(AdminSession(SessionCfg{Resolver: fakeResolver{}, Logger: quietLogger()}))
	r.GET("/", func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, u.Email)
	})

	do := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, "anonymous", do("").Body.String())
	assert.Equal(t, "admin@yantrashilpa.com", do("good").Body.String())

	stale := do("stale")
	assert.Equal(t, "anonymous", stale.Body.String())
	assert.Contains(t, stale.Header().Get("Set-Cookie"), auth.CookieName+"=;")

	broken := do("broken")
	assert.Equal(t, "anonymous", broken.Body.String())
	assert.Empty(t, broken.Header().Get("Set-Cookie"))
}

func TestSecurityHeaders(t *testing.T) {
	for _, prod := range []bool{false, true} {
		r := gin.New()
		r.Use(SecurityHeaders(prod))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Contains(t, w.Header().Get("Content-Security-Policy"), "https://cdn.tailwindcss.com")
		assert.Equal(t, prod, w.Header().Get("Strict-Transport-Security") != "")
	}
}

type memViews struct {
	mu   sync.Mutex
	hits map[string]int
}

func (m *memViews) Record(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits[path]++
	return nil
}

func TestPageViews(t *testing.T) {
	rec := &memViews{hits: map[string]int{}}
	r := gin.New()
	r.Use(PageViews(rec, quietLogger()), ETag())
	r.GET("/gallery", func(c *gin.Context) { c.String(http.StatusOK, "gallery") })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.POST("/contact", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, target := range []string{"/gallery", "/gallery?category=Events", "/boom", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/contact", nil))

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/gallery", nil))
	req := httptest.NewRequest(http.MethodGet, "/gallery", nil)
	req.Header.Set("If-None-Match", first.Header().Get("ETag"))
	notModified := httptest.NewRecorder()
	r.ServeHTTP(notModified, req)
	require.Equal(t, http.StatusNotModified, notModified.Code)

	assert.Equal(t, map[string]int{"/gallery": 4}, rec.hits)
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(quietLogger(), nil))
	r.GET("/api/thing", func(c *gin.Context) {
		Fail(c, apperr.InvalidErr("Please fix the form.", map[string]string{"name": "Name is required."}))
	})
	r.GET("/page", func(c *gin.Context) { Fail(c, apperr.NotFoundErr(`<script>alert("x")</script>`)) })
	r.GET("/crash", func(c *gin.Context) { Fail(c, errors.New("dial tcp: refused")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/thing", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Please fix the form.","fields":{"name":"Name is required."},"request_id":"`+w.Header().Get(HeaderRequestID)+`"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>")
	assert.Contains(t, w.Body.String(), "&lt;script&gt;")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/crash", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "refused")
}

func TestErrorHandler_UsesPageFunc(t *testing.T) {
	var got int
	page := func(c *gin.Context, status int, msg, rid string) bool {
		got = status
		c.String(status, "custom:"+msg)
		return true
	}
	r := gin.New()
	r.Use(ErrorHandler(quietLogger(), page))
	r.GET("/", func(c *gin.Context) { Fail(c, apperr.ForbiddenErr("No.")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, got)
	assert.Equal(t, "custom:No.", w.Body.String())
}
