package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"yantrashilpa.com/web/internal/content"
	"yantrashilpa.com/web/pkg/view"
)

func TestTitle(t *testing.T) {
	l := view.Layout{Company: content.Company{Name: "Yantrashilpa Technologies"}}
	assert.Equal(t, "Yantrashilpa Technologies", Title(l))
	l.Title = "About Us"
	assert.Equal(t, "About Us | Yantrashilpa Technologies", Title(l))
}

func TestFormatting(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	assert.Equal(t, "2025-01-02 03:04 UTC", DateTime(time.Date(2025, 1, 2, 8, 34, 0, 0, ist)))

	assert.Equal(t, "short", Truncate(10, "short"))
	assert.Equal(t, "Eddy…", Truncate(5, "Eddy current dyno"))
	assert.Equal(t, "Prüf…", Truncate(4, "Prüfstand"))

	assert.Equal(t, "1 product", Plural(1, "product"))
	assert.Equal(t, "0 products", Plural(0, "product"))
	assert.Equal(t, "true", Bool(true))
	assert.Equal(t, "b", Pick(false, "a", "b"))
}

func TestCurrent(t *testing.T) {
	assert.Equal(t, "page", Current(true)["aria-current"])
	assert.Nil(t, Current(false))
}
