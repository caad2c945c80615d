package components

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yantrashilpa.com/web/pkg/view"
)

func TestIcon(t *testing.T) {
	svg := IconSVG("menu", 20)
	assert.Contains(t, svg, `width="20"`)
	assert.Contains(t, svg, `aria-hidden="true"`)
	assert.Contains(t, IconSVG("no-such-icon", 0), `width="24"`)

	var b strings.Builder
	require.NoError(t, Icon("menu", 20).Render(context.Background(), &b))
	assert.Equal(t, svg, b.String())
}

func TestFlash(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Flash(nil).Render(context.Background(), &b))
	assert.Empty(t, b.String())

	require.NoError(t, Flash(&view.Flash{Kind: view.FlashSuccess, Message: "Saved <ok>"}).Render(context.Background(), &b))
	out := b.String()
	assert.Contains(t, out, `role="status"`)
	assert.Contains(t, out, "bg-green-50")
	assert.Contains(t, out, "Saved &lt;ok&gt;")
	assert.Contains(t, out, "data-dismiss")
}

func TestPageHero(t *testing.T) {
	var b strings.Builder
	hero := view.PageHero{Title: "Gallery", Image: "/img/g.jpg", Crumbs: []view.Crumb{{Name: "Home", Href: "/"}, {Name: "Gallery"}}}
	require.NoError(t, PageHero(hero).Render(context.Background(), &b))
	out := b.String()
	assert.Contains(t, out, `<a href="/" class="hover:text-[#F97316] transition-colors">Home</a>`)
	assert.Contains(t, out, `aria-current="page">Gallery</span>`)
	assert.Equal(t, 1, strings.Count(out, ">/</li>"))
}
