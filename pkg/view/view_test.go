package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"yantrashilpa.com/web/internal/content"
	"yantrashilpa.com/web/internal/ui"
)

func TestBuildNav(t *testing.T) {
	items := []content.NavItem{{Name: "Home", Target: "/"}, {Name: "About", Target: "/about"}}

	nav := BuildNav(items, "/about")
	assert.Equal(t, []NavLink{
		{Name: "Home", Href: "/"},
		{Name: "About", Href: "/about", Active: true},
	}, nav)

	for _, l := range BuildNav(items, "/missing") {
		assert.False(t, l.Active, l.Name)
	}
}

func TestAdminNav(t *testing.T) {
	nav := AdminNav("/admin/dashboard/add-product")
	assert.Len(t, nav, 3)

	var active []string
	for _, l := range nav {
		if l.Active {
			active = append(active, l.Name)
		}
	}
	assert.Equal(t, []string{"Add Product"}, active)
}

func TestNewPageHero(t *testing.T) {
	h := NewPageHero(content.PageHero{Title: "Our Gallery", Crumb: "Gallery", Image: "/img/g.jpg"})
	assert.Equal(t, "Our Gallery", h.Title)
	assert.Equal(t, []Crumb{{Name: "Home", Href: "/"}, {Name: "Gallery"}}, h.Crumbs)
}

func TestFlashPresentation(t *testing.T) {
	tests := []struct {
		kind    FlashKind
		palette string
		role    string
	}{
		{FlashSuccess, "bg-green-50", "status"},
		{FlashError, "bg-red-50", "alert"},
		{FlashWarning, "bg-yellow-50", "alert"},
		{FlashInfo, "bg-blue-50", "status"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			f := Flash{Kind: tt.kind, Message: "m"}
			assert.True(t, tt.kind.Valid())
			assert.Contains(t, f.Palette(), tt.palette)
			assert.Equal(t, tt.role, f.Role())
		})
	}
	assert.False(t, FlashKind("shout").Valid())
}

func TestNewStatView(t *testing.T) {
	s := NewStatView(content.Stat{Icon: "award", Value: 1415, Label: "Projects Delivered", DelayMS: 200})

	assert.Equal(t, "1,415", s.Display)
	assert.Equal(t, 200*time.Millisecond, s.Counter.Delay)
	d, f := s.TimingMS()
	assert.Equal(t, 2000, d)
	assert.Equal(t, 16, f)
}

func TestHomePage_RevealClass(t *testing.T) {
	shown := &ui.Reveal{}
	shown.Observe("hero", true)
	p := HomePage{Shown: shown}

	assert.Equal(t, "is-visible", p.RevealClass("hero"))
	assert.Empty(t, p.RevealClass("stats"))
	assert.Empty(t, HomePage{}.RevealClass("hero"))
}
