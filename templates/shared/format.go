// Package shared holds the small formatting helpers the components call.
package shared

import (
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"yantrashilpa.com/web/pkg/view"
)

// Title is the document title: "Page | Company", or the company alone.
func Title(l view.Layout) string {
	if l.Title == "" {
		return l.Company.Name
	}
	return l.Title + " | " + l.Company.Name
}

func DateTime(t time.Time) string { return t.UTC().Format("2006-01-02 15:04 UTC") }

// Truncate cuts s to n runes and marks the cut with an ellipsis.
func Truncate(n int, s string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

// Plural renders "1 product" or "3 products".
func Plural(n int, noun string) string {
	s := strconv.Itoa(n) + " " + noun
	if n != 1 {
		s += "s"
	}
	return s
}

// Bool is the string form ARIA state attributes expect.
func Bool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Current marks the link for the page being shown.
func Current(active bool) templ.Attributes {
	if active {
		return templ.Attributes{"aria-current": "page"}
	}
	return nil
}

// Pick returns a when cond holds and b otherwise.
func Pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
