package view

import (
	"time"

	"yantrashilpa.com/web/internal/content"
	"yantrashilpa.com/web/internal/modules/products"
	"yantrashilpa.com/web/internal/ui"
)

// PageHero is the banner with breadcrumbs on every inner page.
type PageHero struct {
	Title  string
	Image  string
	Crumbs []Crumb
}

func NewPageHero(h content.PageHero) PageHero {
	return PageHero{
		Title:  h.Title,
		Image:  h.Image,
		Crumbs: []Crumb{{Name: "Home", Href: "/"}, {Name: h.Crumb}},
	}
}

// FilterTab is one category button; Href reselects it.
type FilterTab struct {
	Name   string
	Href   string
	Active bool
}

// StatView is a counter card. Counter drives the browser tween; Display is the
// settled value rendered for clients without script.
type StatView struct {
	content.Stat
	Counter ui.Counter
	Display string
}

func NewStatView(s content.Stat) StatView {
	c := ui.Counter{Target: s.Value, Delay: time.Duration(s.DelayMS) * time.Millisecond}
	return StatView{Stat: s, Counter: c, Display: ui.FormatThousands(c.ValueAt(c.Settled()))}
}

// TimingMS returns the tween duration and frame length in milliseconds.
func (s StatView) TimingMS() (duration, frame int) {
	d, f := s.Counter.Timing()
	return int(d / time.Millisecond), int(f / time.Millisecond)
}

type Slide struct {
	content.Project
	Index  int
	Active bool
	Href   string
}

type HomePage struct {
	// Shown lists sections already revealed at first paint.
	Shown    *ui.Reveal
	Hero     content.Hero
	WhoWeAre []string
	Team     content.About
	Stats    []StatView
	Services []content.Service
	Values   []content.Value
	Slides   []Slide
	Current  Slide
	PrevHref string
	NextHref string
}

// RevealClass marks a section that skips its entrance animation.
func (p HomePage) RevealClass(section string) string {
	if p.Shown != nil && p.Shown.Revealed(section) {
		return "is-visible"
	}
	return ""
}

type AboutPage struct {
	Hero  PageHero
	About content.About
}

type ProductsPage struct {
	Hero     PageHero
	Tabs     []FilterTab
	Selected string
	Products []products.Product
}

type Lightbox struct {
	Image     content.GalleryImage
	PrevHref  string
	NextHref  string
	CloseHref string
	Position  int
	Total     int
}

type GalleryImageView struct {
	content.GalleryImage
	Href string
}

type GalleryPage struct {
	Hero     PageHero
	Tabs     []FilterTab
	Selected string
	Images   []GalleryImageView
	Lightbox *Lightbox
}

type JobView struct {
	content.JobOpening
	Open       bool
	ToggleHref string
}

type CareerPage struct {
	Hero       PageHero
	Intro      string
	Highlights []content.CultureHighlight
	Jobs       []JobView
	Life       []content.LifeItem
	ApplyEmail string
}

type ContactForm struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type ContactPage struct {
	Hero    PageHero
	Contact content.Contact
	Social  []content.SocialLink
	Form    ContactForm
	Errors  map[string]string
}

// ErrorPage is rendered by the error handler for HTML requests.
type ErrorPage struct {
	Status    int
	Title     string
	Message   string
	RequestID string
}
