package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"yantrashilpa.com/web/internal/config"
	"yantrashilpa.com/web/internal/content"
	"yantrashilpa.com/web/internal/database"
	"yantrashilpa.com/web/internal/http/flash"
	"yantrashilpa.com/web/internal/http/render"
	"yantrashilpa.com/web/internal/mailer"
	"yantrashilpa.com/web/internal/modules/audit"
	"yantrashilpa.com/web/internal/modules/auth"
	"yantrashilpa.com/web/internal/modules/contact"
	"yantrashilpa.com/web/internal/modules/dashboard"
	"yantrashilpa.com/web/internal/modules/pageviews"
	"yantrashilpa.com/web/internal/modules/products"
	"yantrashilpa.com/web/internal/modules/schema"
	"yantrashilpa.com/web/internal/observability"
	"yantrashilpa.com/web/internal/storage"
	"yantrashilpa.com/web/templates"
)

const (
	adminEmail    = "admin@yantrashilpa.com"
	adminPassword = "correct horse battery"
)

func init() { gin.SetMode(gin.TestMode) }

type testApp struct {
	srv    *httptest.Server
	client *http.Client
	db     *gorm.DB
	mail   *mailer.Mock
	views  *pageviews.Counter
	site   *content.Site
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, schema.Migrate(db))
	_, err = schema.Seed(context.Background(), db)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.Config{
		Env:            "test",
		Session:        config.SessionConfig{TTL: time.Hour},
		FlashSecret:    []byte("0123456789abcdef0123456789abcdef"),
		Admin:          config.AdminConfig{Email: adminEmail, PasswordHash: string(hash)},
		Login:          config.LoginConfig{MaxAttempts: 5, Lockout: 15 * time.Minute},
		UploadMaxBytes: 5 << 20,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetrics(nil)
	mail := &mailer.Mock{}

	authn, err := auth.NewAuthenticator(cfg.Admin)
	require.NoError(t, err)
	sessions := auth.NewSessionStore(db, cfg.Session.TTL)
	authSvc := auth.NewService(auth.ServiceDeps{
		Authenticator: authn,
		Limiter:       auth.NewLimiter(db, cfg.Login.MaxAttempts, cfg.Login.Lockout),
		Sessions:      sessions,
		Logger:        logger,
		Metrics:       metrics,
	})

	uploads := t.TempDir()
	productSvc := products.NewService(products.ServiceDeps{
		DB:            db,
		Storage:       storage.NewLocal(uploads, "/uploads"),
		Logger:        logger,
		Metrics:       metrics,
		MaxImageBytes: cfg.UploadMaxBytes,
	})
	contactSvc := contact.NewService(contact.ServiceDeps{
		DB:      db,
		Mailer:  mail,
		Logger:  logger,
		Metrics: metrics,
		From:    "web@yantrashilpa.com",
		Inbox:   "info@yantrashilpa.com",
	})
	views := pageviews.NewCounter(db)

	site := content.MustLoad()
	renderer := render.New(site)

	dash := dashboard.NewService(dashboard.Sources{
		Products: productSvc.Repo(),
		Views:    views,
		Sessions: sessions,
		Events:   audit.NewLog(db),
		Messages: contactSvc,
	})

	router := NewRouter(Deps{
		Logger:          logger,
		DB:              db,
		Config:          cfg,
		Site:            site,
		Renderer:        renderer,
		Flash:           flash.NewCodec(cfg.FlashSecret, "flash", false),
		Products:        productSvc,
		Auth:            authSvc,
		Contact:         contactSvc,
		Dashboard:       dash,
		PageViews:       views,
		Static:          templates.Static(),
		UploadDir:       uploads,
		UploadURLPrefix: "/uploads",
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testApp{srv: srv, client: client, db: db, mail: mail, views: views, site: site}
}

func (a *testApp) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.srv.URL+path, nil)
	require.NoError(t, err)
	return a.do(t, req)
}

func (a *testApp) postForm(t *testing.T, path string, v url.Values) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.srv.URL+path, strings.NewReader(v.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req)
}

// csrf returns the token from the cookie jar, fetching a page first if needed.
func (a *testApp) csrf(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(a.srv.URL)
	require.NoError(t, err)
	for _, c := range a.client.Jar.Cookies(u) {
		if c.Name == "csrf_token" {
			return c.Value
		}
	}
	a.get(t, "/admin/login")
	for _, c := range a.client.Jar.Cookies(u) {
		if c.Name == "csrf_token" {
			return c.Value
		}
	}
	t.Fatal("no csrf cookie issued")
	return ""
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	resp, _ := a.postForm(t, "/admin/login", url.Values{
		"csrf_token": {a.csrf(t)},
		"email":      {adminEmail},
		"password":   {adminPassword},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))
}

func (a *testApp) uploadProduct(t *testing.T, name, category, contentType string) (*http.Response, string) {
	t.Helper()
	return a.upload(t, name, category, contentType, []byte("\x89PNG\r\n\x1a\nfake image bytes"))
}

// upload posts the add-product form the way the page does, with the CSRF
// token in the action URL.
func (a *testApp) upload(t *testing.T, name, category, contentType string, image []byte) (*http.Response, string) {
	t.Helper()
	token := a.csrf(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", name))
	require.NoError(t, mw.WriteField("category", category))
	require.NoError(t, mw.WriteField("description", "Built for the test bench."))

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="rig.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(image)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, a.srv.URL+"/admin/dashboard/add-product?csrf_token="+token, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(t, req)
}

func TestPublicPages(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/", "/about", "/products", "/gallery", "/career", "/contact"} {
		t.Run(path, func(t *testing.T) {
			resp, body := app.get(t, path)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
			assert.NotEmpty(t, resp.Header.Get("ETag"))
			assert.Contains(t, body, app.site.Company.Copyright)
		})
	}

	total, err := app.views.Total(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
}

func TestETagRevalidation(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/about")
	tag := resp.Header.Get("ETag")
	require.NotEmpty(t, tag)

	req, err := http.NewRequest(http.MethodGet, app.srv.URL+"/about", nil)
	require.NoError(t, err)
	req.Header.Set("If-None-Match", tag)
	resp, body := app.do(t, req)
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	assert.Empty(t, body)
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, "up", got["db"])
}

func TestProductsPage_FiltersByCategory(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/products?category="+url.QueryEscape("Defence"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `aria-selected="true"`)

	resp, _ = app.get(t, "/products?category=Nonsense")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGalleryLightbox(t *testing.T) {
	app := newTestApp(t)

	_, body := app.get(t, "/gallery")
	assert.NotContains(t, body, "data-lightbox")

	_, body = app.get(t, "/gallery?image=1")
	assert.Contains(t, body, "data-lightbox")

	_, body = app.get(t, "/gallery?image=9999")
	assert.NotContains(t, body, "data-lightbox")
}

func TestUnknownRoutes(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/no-such-page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "The page you are looking for does not exist.")

	resp, _ = app.get(t, "/admin/dashboard/settings")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))
}

func TestContactFlow(t *testing.T) {
	app := newTestApp(t)
	valid := func() url.Values {
		return url.Values{
			"csrf_token": {app.csrf(t)},
			"name":       {"Asha Rao"},
			"email":      {"asha@example.com"},
			"subject":    {"Dyno quote"},
			"message":    {"Please send a quote for a 250 kW eddy current dyno."},
		}
	}

	t.Run("missing csrf token", func(t *testing.T) {
		v := valid()
		v.Del("csrf_token")
		resp, _ := app.postForm(t, "/contact", v)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("invalid email re-renders the form", func(t *testing.T) {
		v := valid()
		v.Set("email", "not-an-email")
		resp, body := app.postForm(t, "/contact", v)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "Please enter a valid email address.")
		assert.Contains(t, body, "Asha Rao")
	})

	t.Run("valid submission", func(t *testing.T) {
		resp, _ := app.postForm(t, "/contact", valid())
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/contact", resp.Header.Get("Location"))

		_, body := app.get(t, "/contact")
		assert.Contains(t, body, app.site.Contact.ThankYou)

		var n int64
		require.NoError(t, app.db.Model(&contact.Message{}).Count(&n).Error)
		assert.EqualValues(t, 1, n)
		require.Len(t, app.mail.Sent, 1)
		assert.Equal(t, []string{"info@yantrashilpa.com"}, app.mail.Sent[0].To)
	})
}

func TestDashboard_ShowsRecentEnquiries(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.postForm(t, "/contact", url.Values{
		"csrf_token": {app.csrf(t)},
		"name":       {"Asha Rao"},
		"email":      {"asha@example.com"},
		"subject":    {"Dyno quote"},
		"message":    {"Please send a quote for a 250 kW eddy current dyno."},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	app.login(t)
	resp, body := app.get(t, "/admin/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Contact enquiries")
	assert.Contains(t, body, "Recent Enquiries")
	assert.Contains(t, body, "Asha Rao")
	assert.Contains(t, body, "Dyno quote")
	assert.NotContains(t, body, "No messages yet.")
}

func TestLoginLockout(t *testing.T) {
	app := newTestApp(t)
	attempt := func(password string) (*http.Response, string) {
		return app.postForm(t, "/admin/login", url.Values{
			"csrf_token": {app.csrf(t)},
			"email":      {adminEmail},
			"password":   {password},
		})
	}

	for i := 4; i >= 1; i-- {
		resp, body := attempt("wrong")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body, "Invalid credentials. "+strconv.Itoa(i)+" attempts remaining.")
	}

	resp, body := attempt("wrong")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, body, "Too many failed attempts. Account locked for 15 minutes.")

	resp, body = attempt(adminPassword)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "locked even with the right password")
	assert.Contains(t, body, "Account is temporarily locked. Please try again later.")

	resp, body = app.get(t, "/admin/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Account locked for 15 minutes")
	assert.Contains(t, body, `<button type="submit" disabled`)
}

func TestLoginLockout_IgnoresForwardedFor(t *testing.T) {
	app := newTestApp(t)

	var resp *http.Response
	for i := 1; i <= 5; i++ {
		v := url.Values{
			"csrf_token": {app.csrf(t)},
			"email":      {adminEmail},
			"password":   {"wrong"},
		}
		req, err := http.NewRequest(http.MethodPost, app.srv.URL+"/admin/login", strings.NewReader(v.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Forwarded-For", "10.0.0."+strconv.Itoa(i))
		req.Header.Set("X-Real-IP", "10.0.1."+strconv.Itoa(i))
		resp, _ = app.do(t, req)
	}
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "spoofed addresses share one lockout")
}

func TestAddProduct_OversizedImage(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	for _, size := range []int{5<<20 + 512, 8 << 20} {
		t.Run(strconv.Itoa(size), func(t *testing.T) {
			resp, body := app.upload(t, "Heavy Rig", "Defence", "image/png", bytes.Repeat([]byte{0x89}, size))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body, "Image size must be less than 5MB.")
			assert.Contains(t, body, "Add Product")
		})
	}

	var n int64
	require.NoError(t, app.db.Model(&products.Product{}).Where("name = ?", "Heavy Rig").Count(&n).Error)
	assert.Zero(t, n)
}

func TestAddProduct_SignedOutIsRedirectedFirst(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.upload(t, "Heavy Rig", "Defence", "image/png", bytes.Repeat([]byte{0x89}, 8<<20))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
}

func TestAdminConsole(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/admin/dashboard")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))

	_, body := app.get(t, "/admin/login")
	assert.Contains(t, body, "Please sign in to access the admin dashboard.")

	resp, body = app.get(t, "/api/auth/verify")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, `"unauthorized"`)

	app.login(t)

	resp, _ = app.get(t, "/admin/login")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))

	resp, body = app.get(t, "/api/auth/verify")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var verify struct {
		User auth.AuthUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &verify))
	assert.Equal(t, adminEmail, verify.User.Email)
	assert.Equal(t, auth.RoleAdmin, verify.User.Role)

	resp, body = app.get(t, "/admin/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Total Products")
	assert.Contains(t, body, adminEmail)

	t.Run("add product", func(t *testing.T) {
		resp, _ := app.uploadProduct(t, "Brake Test Rig", "Automotive Safety", "image/png")
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/admin/dashboard/add-product", resp.Header.Get("Location"))

		_, body := app.get(t, "/admin/dashboard/add-product")
		assert.Contains(t, body, "Product added successfully!")

		_, body = app.get(t, "/products")
		assert.Contains(t, body, "Brake Test Rig")
	})

	t.Run("rejects non-image upload", func(t *testing.T) {
		resp, body := app.uploadProduct(t, "Datasheet Scan", "Defence", "application/pdf")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "Please select a valid image file.")
		assert.Contains(t, body, "Datasheet Scan")
	})

	var p products.Product
	require.NoError(t, app.db.Where("name = ?", "Brake Test Rig").First(&p).Error)

	t.Run("search and confirm", func(t *testing.T) {
		_, body := app.get(t, "/admin/dashboard/manage-products?q=brake")
		assert.Contains(t, body, "Brake Test Rig")
		assert.Contains(t, body, "1 product<")

		_, body = app.get(t, "/admin/dashboard/manage-products?q=brake&confirm="+p.ID)
		assert.Contains(t, body, "Delete product?")
	})

	t.Run("toggle hides from catalogue", func(t *testing.T) {
		resp, _ := app.postForm(t, "/admin/dashboard/manage-products/"+p.ID+"/toggle", url.Values{
			"csrf_token": {app.csrf(t)},
			"q":          {"brake"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/admin/dashboard/manage-products?q=brake", resp.Header.Get("Location"))

		var got products.Product
		require.NoError(t, app.db.First(&got, "id = ?", p.ID).Error)
		assert.Equal(t, products.StatusInactive, got.Status)

		_, body := app.get(t, "/products")
		assert.NotContains(t, body, "Brake Test Rig")
	})

	t.Run("delete", func(t *testing.T) {
		resp, _ := app.postForm(t, "/admin/dashboard/manage-products/"+p.ID+"/delete", url.Values{
			"csrf_token": {app.csrf(t)},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/admin/dashboard/manage-products", resp.Header.Get("Location"))

		var n int64
		require.NoError(t, app.db.Model(&products.Product{}).Where("id = ?", p.ID).Count(&n).Error)
		assert.Zero(t, n)

		resp, _ = app.postForm(t, "/admin/dashboard/manage-products/"+p.ID+"/delete", url.Values{
			"csrf_token": {app.csrf(t)},
		})
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		_, body := app.get(t, "/admin/dashboard/manage-products")
		assert.Contains(t, body, "Product not found.")
	})

	t.Run("console post without csrf", func(t *testing.T) {
		resp, _ := app.postForm(t, "/admin/dashboard/manage-products/"+p.ID+"/toggle", url.Values{})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	resp, _ = app.postForm(t, "/admin/logout", url.Values{"csrf_token": {app.csrf(t)}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))

	resp, _ = app.get(t, "/admin/dashboard")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
}
