package pages_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yantrashilpa.com/web/internal/content"
	"yantrashilpa.com/web/internal/modules/audit"
	"yantrashilpa.com/web/internal/modules/contact"
	"yantrashilpa.com/web/internal/modules/dashboard"
	"yantrashilpa.com/web/internal/modules/products"
	"yantrashilpa.com/web/internal/ui"
	"yantrashilpa.com/web/pkg/view"
	"yantrashilpa.com/web/templates/pages"
)

func loadSite(t *testing.T) *content.Site {
	t.Helper()
	site, err := content.Load()
	require.NoError(t, err)
	return site
}

func shell(site *content.Site, path string) view.Layout {
	return view.Layout{
		Title:     "Test",
		Path:      path,
		Nav:       view.BuildNav(site.Nav, path),
		Company:   site.Company,
		Social:    site.Social,
		CSRFToken: "tok123",
		RequestID: "rid-1",
	}
}

func adminShell(site *content.Site, path string) view.Layout {
	l := shell(site, path)
	l.Nav = view.AdminNav(path)
	l.User = &view.AdminUser{ID: "u1", Email: "admin@yantrashilpa.com", Role: "admin"}
	return l
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func TestPublicPages(t *testing.T) {
	site := loadSite(t)
	product := products.Product{ID: "p1", Name: "Engine Dyno", Category: "Engine Testing", Description: "Eddy current.", ImageURL: "/uploads/a.jpg", Status: products.StatusActive}
	shown := &ui.Reveal{}
	shown.Observe("hero", true)
	stat := view.NewStatView(content.Stat{Icon: "award", Value: 1415, Label: "Projects", DelayMS: 200})

	tests := []struct {
		name string
		page templ.Component
		want []string
	}{
		{"home", pages.Home(shell(site, "/"), view.HomePage{
			Shown:  shown,
			Hero:   site.Hero,
			Stats:  []view.StatView{stat},
			Slides: []view.Slide{{Project: site.Projects[0], Active: true, Href: "/?slide=0#limelight"}},
		}), []string{
			site.Hero.Highlight,
			`data-delay="200"`,
			`data-counter="1415" data-duration="2000" data-frame="16">1,415<`,
			"is-visible",
			site.Projects[0].Title,
		}},
		{"about", pages.About(shell(site, "/about"), view.AboutPage{Hero: view.NewPageHero(site.Page("about")), About: site.About}),
			[]string{"Our Mission", site.About.Vision}},
		{"products", pages.Products(shell(site, "/products"), view.ProductsPage{
			Hero:     view.NewPageHero(site.Page("products")),
			Tabs:     []view.FilterTab{{Name: "All", Href: "/products", Active: true}},
			Products: []products.Product{product},
		}), []string{"Engine Dyno", `aria-selected="true"`}},
		{"products empty", pages.Products(shell(site, "/products"), view.ProductsPage{Hero: view.NewPageHero(site.Page("products"))}),
			[]string{"No products in this category yet."}},
		{"gallery", pages.Gallery(shell(site, "/gallery"), view.GalleryPage{
			Hero:   view.NewPageHero(site.Page("gallery")),
			Images: []view.GalleryImageView{{GalleryImage: site.Gallery.Images[0], Href: "/gallery?image=1"}},
			Lightbox: &view.Lightbox{
				Image: site.Gallery.Images[0], PrevHref: "/gallery?image=9", NextHref: "/gallery?image=2", CloseHref: "/gallery", Position: 1, Total: 9,
			},
		}), []string{"data-lightbox", "1 / 9"}},
		{"career", pages.Career(shell(site, "/career"), view.CareerPage{
			Hero:       view.NewPageHero(site.Page("career")),
			Jobs:       []view.JobView{{JobOpening: site.Career.Jobs[0], Open: true, ToggleHref: "/career#openings"}},
			ApplyEmail: "careers@yantrashilpa.com",
		}), []string{site.Career.Jobs[0].Title, "Apply Now", "mailto:careers@yantrashilpa.com", `aria-expanded="true"`}},
		{"contact", pages.Contact(shell(site, "/contact"), view.ContactPage{
			Hero:    view.NewPageHero(site.Page("contact")),
			Contact: site.Contact,
			Form:    view.ContactForm{Name: `<script>x</script>`},
			Errors:  map[string]string{"email": "Please enter a valid email address."},
		}), []string{`name="csrf_token" value="tok123"`, "Please enter a valid email address.", "&lt;script&gt;", "border-red-400"}},
		{"error", pages.Error(shell(site, "/x"), view.ErrorPage{Status: 404, Title: "Not Found", Message: "Gone.", RequestID: "rid-1"}),
			[]string{"404", "Request ID: rid-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderString(t, tt.page)
			assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
			assert.Contains(t, out, site.Company.Copyright)
			assert.NotContains(t, out, "<script>x</script>")
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestHome_HeroAnimatesWhenNotShown(t *testing.T) {
	site := loadSite(t)
	out := renderString(t, pages.Home(shell(site, "/"), view.HomePage{Hero: site.Hero}))
	assert.NotContains(t, out, "is-visible")
	assert.NotContains(t, out, `id="limelight"`, "no slides, no carousel")
}

func TestFlashBanner(t *testing.T) {
	site := loadSite(t)
	l := shell(site, "/contact")
	l.Flash = &view.Flash{Kind: view.FlashError, Message: "Could not send."}

	out := renderString(t, pages.About(l, view.AboutPage{Hero: view.NewPageHero(site.Page("about"))}))
	assert.Contains(t, out, `role="alert"`)
	assert.Contains(t, out, "bg-red-50 border-red-200 text-red-800")
	assert.Contains(t, out, "Could not send.")
}

func TestAdminPages(t *testing.T) {
	site := loadSite(t)
	p := products.Product{ID: "p1", Name: "Crash Sled", Category: "Automotive Testing", Description: "Sled.", ImageURL: "https://cdn.example.com/x.jpg", Status: products.StatusInactive}

	tests := []struct {
		name string
		page templ.Component
		want []string
	}{
		{"dashboard", pages.Dashboard(adminShell(site, "/admin/dashboard"), view.DashboardPage{
			Cards:    []view.StatCard{{Title: "Total Products", Value: "6", Icon: "package", Color: "bg-blue-500"}, {Title: "Messages", Value: "2", Icon: "mail", Color: "bg-teal-500"}},
			Products: []dashboard.RecentProduct{{Product: p, Ago: "2 hours ago"}},
			Messages: []dashboard.RecentMessage{{Message: contact.Message{Name: "Asha", Subject: "Dyno quote"}, Ago: "5 minutes ago"}},
			Events:   []audit.Event{{Actor: "admin@yantrashilpa.com", Action: "product.created", CreatedAt: time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)}},
		}), []string{"Total Products", "Crash Sled", "2 hours ago", "Messages", "bg-teal-500", "Recent Enquiries", "Asha", "Dyno quote", "5 minutes ago", "product.created", "2025-01-02 03:04 UTC", `action="/admin/logout"`}},
		{"dashboard empty", pages.Dashboard(adminShell(site, "/admin/dashboard"), view.DashboardPage{}),
			[]string{"No products yet.", "No messages yet.", "No activity recorded."}},
		{"add product", pages.AddProduct(adminShell(site, "/admin/dashboard/add-product"), view.AddProductPage{
			Form:       view.ProductForm{Category: "Defence"},
			Categories: products.Categories,
			Error:      "Image size must be less than 5MB.",
			MaxImageMB: 5,
		}), []string{
			`action="/admin/dashboard/add-product?csrf_token=tok123"`,
			`enctype="multipart/form-data"`,
			`<option value="Defence" selected>`,
			"Image size must be less than 5MB.",
			"up to 5MB",
		}},
		{"manage products", pages.ManageProducts(adminShell(site, "/admin/dashboard/manage-products"), view.ManageProductsPage{
			Query:      "sled",
			Categories: []string{"All"},
			Rows:       []view.ProductRow{{Product: p, ToggleAction: "/admin/dashboard/manage-products/p1/toggle", ConfirmHref: "/admin/dashboard/manage-products?confirm=p1&q=sled"}},
			Total:      1,
			Confirm:    &p,
			CancelHref: "/admin/dashboard/manage-products?q=sled",
		}), []string{"1 product<", "Show", "opacity-60", "Delete product?", `action="/admin/dashboard/manage-products/p1/delete"`, `name="q" value="sled"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderString(t, tt.page)
			assert.Contains(t, out, "Admin Console")
			assert.Contains(t, out, "admin@yantrashilpa.com")
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestAddProduct_NoBodyToken(t *testing.T) {
	site := loadSite(t)
	out := renderString(t, pages.AddProduct(adminShell(site, "/admin/dashboard/add-product"), view.AddProductPage{MaxImageMB: 5}))
	assert.Equal(t, 1, strings.Count(out, `name="csrf_token"`), "only the logout form carries a body token")
}

func TestLoginStates(t *testing.T) {
	site := loadSite(t)

	out := renderString(t, pages.Login(shell(site, "/admin/login"), view.LoginPage{
		Form:      view.LoginForm{Email: "admin@yantrashilpa.com"},
		Error:     "Invalid credentials. 4 attempts remaining.",
		Remaining: "4 attempts remaining",
	}))
	assert.Contains(t, out, "Invalid credentials. 4 attempts remaining.")
	assert.Contains(t, out, `value="admin@yantrashilpa.com"`)
	assert.NotContains(t, out, `<button type="submit" disabled`)

	out = renderString(t, pages.Login(shell(site, "/admin/login"), view.LoginPage{
		Locked:      true,
		LockoutText: "Account locked for 15 minutes",
	}))
	assert.Contains(t, out, "Account is temporarily locked. Please try again later.")
	assert.Contains(t, out, "Account locked for 15 minutes")
	assert.Contains(t, out, `<button type="submit" disabled`)
}
