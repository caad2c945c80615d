package http

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"yantrashilpa.com/web/internal/config"
	"yantrashilpa.com/web/internal/content"
	"yantrashilpa.com/web/internal/http/flash"
	"yantrashilpa.com/web/internal/http/handlers"
	"yantrashilpa.com/web/internal/http/handlers/admin"
	"yantrashilpa.com/web/internal/http/middleware"
	"yantrashilpa.com/web/internal/http/render"
	"yantrashilpa.com/web/internal/modules/auth"
	"yantrashilpa.com/web/internal/modules/contact"
	"yantrashilpa.com/web/internal/modules/dashboard"
	"yantrashilpa.com/web/internal/modules/products"
	"yantrashilpa.com/web/internal/shared/apperr"
)

// formBodyLimit caps every non-upload request body.
const formBodyLimit = 1 << 20

type Deps struct {
	Logger    *slog.Logger
	DB        *gorm.DB
	Config    config.Config
	Site      *content.Site
	Renderer  *render.Renderer
	Flash     *flash.Codec
	Products  *products.Service
	Auth      *auth.Service
	Contact   *contact.Service
	Dashboard *dashboard.Service
	PageViews middleware.ViewRecorder

	// Static holds the embedded assets served under /static.
	Static fs.FS
	// UploadDir is served under UploadURLPrefix when images are stored locally.
	UploadDir       string
	UploadURLPrefix string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	secure := d.Config.Session.CookieSecure
	l := d.Logger

	// ClientIP keys the login lockout, so forwarded headers are ignored
	// unless the peer is a configured proxy.
	if err := r.SetTrustedProxies(d.Config.TrustedProxies); err != nil {
		l.Error("trusted proxies rejected; trusting none", "err", err)
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logger(l),
		middleware.Recovery(l),
		middleware.SecurityHeaders(d.Config.IsProduction()),
		middleware.ErrorHandler(l, d.Renderer.ErrorPage),
		middleware.FlashMiddleware(d.Flash),
		middleware.AdminSession(middleware.SessionCfg{Resolver: d.Auth, Secure: secure, Logger: l}),
	)

	if d.Static != nil {
		r.StaticFS("/static", http.FS(d.Static))
	}
	if d.UploadDir != "" && d.UploadURLPrefix != "" {
		r.Static(d.UploadURLPrefix, d.UploadDir)
	}

	health := handlers.NewHealthHandler(d.DB)
	r.GET("/healthz", health.Healthz)

	site := handlers.NewSiteHandler(d.Renderer, d.Site, d.Products)
	contactH := handlers.NewContactHandler(d.Renderer, d.Site, d.Contact, d.Flash)

	public := r.Group("/",
		middleware.BodyLimit(formBodyLimit),
		middleware.CSRF(secure),
		middleware.PageViews(d.PageViews, l),
		middleware.ETag(),
	)
	public.GET("/", site.Home)
	public.GET("/about", site.About)
	public.GET("/products", site.Products)
	public.GET("/gallery", site.Gallery)
	public.GET("/career", site.Career)
	public.GET("/contact", contactH.Get)
	public.POST("/contact", contactH.Post)

	authH := admin.NewAuthHandler(d.Renderer, d.Auth, d.Flash, d.Config.Session.TTL, secure)
	r.GET("/api/auth/verify", authH.Verify)

	adm := r.Group("/admin", middleware.BodyLimit(formBodyLimit), middleware.CSRF(secure))
	adm.GET("", authH.Root)
	adm.GET("/login", authH.LoginForm)
	adm.POST("/login", authH.Login)
	adm.POST("/logout", authH.Logout)

	dash := admin.NewDashboardHandler(d.Renderer, d.Dashboard)
	prod := admin.NewProductsHandler(d.Renderer, d.Products, d.Flash, d.Config.UploadMaxBytes)

	console := r.Group("/admin/dashboard",
		middleware.BodyLimit(d.Config.UploadMaxBytes+formBodyLimit),
		middleware.RequireAdmin(d.Flash),
		middleware.CSRF(secure),
	)
	console.GET("", dash.Home)
	console.GET("/add-product", prod.AddForm)
	console.POST("/add-product", prod.Add)
	console.GET("/manage-products", prod.Manage)
	console.POST("/manage-products/:id/delete", prod.Delete)
	console.POST("/manage-products/:id/toggle", prod.Toggle)

	r.NoRoute(func(c *gin.Context) {
		// Unknown console paths fall back to the dashboard home.
		if c.Request.Method == http.MethodGet && strings.HasPrefix(c.Request.URL.Path, "/admin/dashboard/") {
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		middleware.Fail(c, apperr.NotFoundErr("The page you are looking for does not exist."))
	})
	r.NoMethod(func(c *gin.Context) {
		middleware.Fail(c, &apperr.AppError{Kind: apperr.Invalid, PublicMsg: "Method not allowed."})
	})

	return r
}
