package flash

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yantrashilpa.com/web/pkg/view"
)

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec([]byte("secret"), "flash", false)

	v, err := c.Encode(view.Flash{Kind: view.FlashSuccess, Message: "Product added successfully!"})
	require.NoError(t, err)

	f, err := c.Decode(v)
	require.NoError(t, err)
	assert.Equal(t, view.FlashSuccess, f.Kind)
	assert.Equal(t, "Product added successfully!", f.Message)
	assert.Equal(t, 120, c.CookieMaxAge())
}

func TestCodec_RejectsTampering(t *testing.T) {
	c := NewCodec([]byte("secret"), "flash", false)
	other := NewCodec([]byte("other"), "flash", false)

	v, err := other.Encode(view.Flash{Kind: view.FlashInfo, Message: "hi"})
	require.NoError(t, err)

	for _, bad := range []string{v, "", "abc", "a.b.c", v + "x"} {
		_, err := c.Decode(bad)
		assert.ErrorIs(t, err, ErrInvalid, bad)
	}
}

func TestCodec_RejectsUnusableNotices(t *testing.T) {
	c := NewCodec([]byte("secret"), "flash", false)

	for name, f := range map[string]view.Flash{
		"blank message": {Kind: view.FlashInfo, Message: "  "},
		"unknown kind":  {Kind: "shout", Message: "hi"},
	} {
		t.Run(name, func(t *testing.T) {
			v, err := c.Encode(f)
			require.NoError(t, err)
			_, err = c.Decode(v)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestCodec_Expires(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCodec([]byte("secret"), "flash", false)
	c.TTL = time.Minute
	c.now = func() time.Time { return now }

	v, err := c.Encode(view.Flash{Kind: view.FlashInfo, Message: "You have been signed out."})
	require.NoError(t, err)

	now = now.Add(59 * time.Second)
	_, err = c.Decode(v)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = c.Decode(v)
	assert.ErrorIs(t, err, ErrInvalid)
}
