package slug

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

const maxLen = 120

// FromName lowercases s and joins its alphanumeric runs with dashes.
func FromName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	if s == "" {
		return "product"
	}
	return s
}

// WithSuffix appends a short random tail, used after a unique-key collision.
func WithSuffix(base string) string {
	return base + "-" + uuid.NewString()[:6]
}
