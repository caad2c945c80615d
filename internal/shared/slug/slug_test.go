package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromName(t *testing.T) {
	tests := map[string]string{
		"Engine Dynamometer Test Rig":  "engine-dynamometer-test-rig",
		"  Crash   Test -- Rig!  ":     "crash-test-rig",
		"Learning & Development":       "learning-development",
		"":                             "product",
		"!!!":                          "product",
		"Défense Component Tester 2.0": "d-fense-component-tester-2-0",
	}
	for in, want := range tests {
		assert.Equal(t, want, FromName(in), in)
	}
}

func TestFromName_Truncates(t *testing.T) {
	s := FromName(strings.Repeat("ab ", 100))
	assert.LessOrEqual(t, len(s), maxLen)
	assert.False(t, strings.HasSuffix(s, "-"))
}

func TestWithSuffix(t *testing.T) {
	a := WithSuffix("rig")
	b := WithSuffix("rig")
	assert.True(t, strings.HasPrefix(a, "rig-"))
	assert.Len(t, a, len("rig-")+6)
	assert.NotEqual(t, a, b)
}
