package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"yantrashilpa.com/web/internal/content"
	"yantrashilpa.com/web/internal/http/render"
	"yantrashilpa.com/web/internal/modules/products"
	"yantrashilpa.com/web/internal/shared/apperr"
	"yantrashilpa.com/web/internal/ui"
	"yantrashilpa.com/web/pkg/view"
	"yantrashilpa.com/web/templates/pages"
)

// SiteHandler serves the public marketing pages.
type SiteHandler struct {
	R       *render.Renderer
	Site    *content.Site
	Catalog *products.Service
}

func NewSiteHandler(r *render.Renderer, site *content.Site, p *products.Service) *SiteHandler {
	return &SiteHandler{R: r, Site: site, Catalog: p}
}

func (h *SiteHandler) Home(c *gin.Context) {
	projects := h.Site.Projects
	car := ui.Carousel{Len: len(projects)}
	cur := car.Clamp(queryInt(c, "slide", 0))

	slides := make([]view.Slide, 0, len(projects))
	for i, p := range projects {
		slides = append(slides, view.Slide{
			Project: p,
			Index:   i,
			Active:  i == cur,
			Href:    slideHref(i),
		})
	}

	stats := make([]view.StatView, 0, len(h.Site.Stats))
	for _, s := range h.Site.Stats {
		stats = append(stats, view.NewStatView(s))
	}

	// The hero is in view on load.
	shown := &ui.Reveal{}
	shown.Observe("hero", true)

	data := view.HomePage{
		Shown:    shown,
		Hero:     h.Site.Hero,
		WhoWeAre: h.Site.About.WhoWeAre,
		Team:     h.Site.About,
		Stats:    stats,
		Services: h.Site.Services,
		Values:   h.Site.Values,
		Slides:   slides,
	}
	if len(slides) > 0 {
		data.Current = slides[cur]
		data.PrevHref = slideHref(car.Prev(cur))
		data.NextHref = slideHref(car.Next(cur))
	}
	render.Component(c, http.StatusOK, pages.Home(h.R.Layout(c, h.Site.Company.Name), data))
}

func slideHref(i int) string { return "/?slide=" + strconv.Itoa(i) + "#limelight" }

func (h *SiteHandler) About(c *gin.Context) {
	render.Component(c, http.StatusOK, pages.About(h.R.Layout(c, "About Us"), view.AboutPage{
		Hero:  view.NewPageHero(h.Site.Page("about")),
		About: h.Site.About,
	}))
}

func (h *SiteHandler) Products(c *gin.Context) {
	selected := c.Query("category")
	if !products.ValidCategory(selected) {
		selected = products.AllCategories
	}

	list, err := h.Catalog.Catalog(c.Request.Context(), selected)
	if err != nil {
		_ = c.Error(apperr.Wrap(err))
		return
	}

	names := append([]string{products.AllCategories}, products.Categories...)
	render.Component(c, http.StatusOK, pages.Products(h.R.Layout(c, "Products"), view.ProductsPage{
		Hero:     view.NewPageHero(h.Site.Page("products")),
		Tabs:     filterTabs("/products", names, selected, nil),
		Selected: selected,
		Products: list,
	}))
}

func (h *SiteHandler) Gallery(c *gin.Context) {
	selected := c.Query("category")
	cats := h.Site.GalleryCategories()
	if !containsString(cats, selected) {
		selected = content.AllCategories
	}

	images := h.Site.GalleryByCategory(selected)
	ids := make([]int, len(images))
	views := make([]view.GalleryImageView, len(images))
	for i, img := range images {
		ids[i] = img.ID
		views[i] = view.GalleryImageView{GalleryImage: img, Href: galleryHref(selected, img.ID)}
	}

	data := view.GalleryPage{
		Hero:     view.NewPageHero(h.Site.Page("gallery")),
		Tabs:     filterTabs("/gallery", cats, selected, nil),
		Selected: selected,
		Images:   views,
	}

	if open := queryInt(c, "image", 0); open != 0 {
		if prev, next, ok := ui.Neighbors(ids, open); ok {
			for i, img := range images {
				if img.ID == open {
					data.Lightbox = &view.Lightbox{
						Image:     img,
						PrevHref:  galleryHref(selected, prev),
						NextHref:  galleryHref(selected, next),
						CloseHref: galleryHref(selected, 0),
						Position:  i + 1,
						Total:     len(images),
					}
					break
				}
			}
		}
	}
	render.Component(c, http.StatusOK, pages.Gallery(h.R.Layout(c, "Gallery"), data))
}

func galleryHref(category string, image int) string {
	q := url.Values{}
	if category != "" && category != content.AllCategories {
		q.Set("category", category)
	}
	if image != 0 {
		q.Set("image", strconv.Itoa(image))
	}
	if len(q) == 0 {
		return "/gallery"
	}
	return "/gallery?" + q.Encode()
}

func (h *SiteHandler) Career(c *gin.Context) {
	open := queryInt(c, "open", 0)
	if _, ok := h.Site.Job(open); !ok {
		open = 0
	}

	jobs := make([]view.JobView, 0, len(h.Site.Career.Jobs))
	for _, j := range h.Site.Career.Jobs {
		href := "/career#openings"
		if next := ui.Toggle(open, j.ID); next != 0 {
			href = "/career?open=" + strconv.Itoa(next) + "#job-" + strconv.Itoa(next)
		}
		jobs = append(jobs, view.JobView{JobOpening: j, Open: j.ID == open, ToggleHref: href})
	}

	apply := ""
	if len(h.Site.Company.Emails) > 0 {
		apply = h.Site.Company.Emails[len(h.Site.Company.Emails)-1]
	}
	render.Component(c, http.StatusOK, pages.Career(h.R.Layout(c, "Careers"), view.CareerPage{
		Hero:       view.NewPageHero(h.Site.Page("career")),
		Intro:      h.Site.Career.Intro,
		Highlights: h.Site.Career.Highlights,
		Jobs:       jobs,
		Life:       h.Site.Career.Life,
		ApplyEmail: apply,
	}))
}

// filterTabs builds category buttons; extra query values are kept on every link.
func filterTabs(base string, names []string, selected string, extra url.Values) []view.FilterTab {
	out := make([]view.FilterTab, 0, len(names))
	for _, n := range names {
		q := url.Values{}
		for k, v := range extra {
			q[k] = v
		}
		if n != products.AllCategories {
			q.Set("category", n)
		}
		href := base
		if len(q) > 0 {
			href += "?" + q.Encode()
		}
		out = append(out, view.FilterTab{Name: n, Href: href, Active: n == selected})
	}
	return out
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
