// Package flash signs the one-shot notice cookie that carries a message such
// as "Product added successfully!" across the redirect after a form POST.
//
// A cookie value is base64url(json payload) "." base64url(HMAC-SHA256). The
// payload carries its own expiry, so a captured cookie cannot be replayed
// after TTL even if the browser keeps it.
package flash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"yantrashilpa.com/web/pkg/view"
)

// DefaultTTL covers one redirect round trip with room for a slow upload page.
const DefaultTTL = 2 * time.Minute

var ErrInvalid = errors.New("flash: invalid cookie")

type payload struct {
	Kind    view.FlashKind `json:"k"`
	Message string         `json:"m"`
	Expires int64          `json:"x"`
}

type Codec struct {
	Secret     []byte
	CookieName string
	Secure     bool
	TTL        time.Duration

	now func() time.Time
}

func NewCodec(secret []byte, cookieName string, secure bool) *Codec {
	return &Codec{Secret: secret, CookieName: cookieName, Secure: secure, TTL: DefaultTTL, now: time.Now}
}

func (c *Codec) Encode(f view.Flash) (string, error) {
	b, err := json.Marshal(payload{
		Kind:    f.Kind,
		Message: f.Message,
		Expires: c.clock().Add(c.ttl()).Unix(),
	})
	if err != nil {
		return "", err
	}
	body := base64.RawURLEncoding.EncodeToString(b)
	return body + "." + c.sign(body), nil
}

// Decode verifies v and returns its notice. Forged, expired, blank or
// unknown-kind values all fail with ErrInvalid.
func (c *Codec) Decode(v string) (*view.Flash, error) {
	body, sig, ok := strings.Cut(v, ".")
	if !ok || strings.Contains(sig, ".") || !hmac.Equal([]byte(c.sign(body)), []byte(sig)) {
		return nil, ErrInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, ErrInvalid
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, ErrInvalid
	}
	if !p.Kind.Valid() || strings.TrimSpace(p.Message) == "" || c.clock().Unix() > p.Expires {
		return nil, ErrInvalid
	}
	return &view.Flash{Kind: p.Kind, Message: p.Message}, nil
}

// CookieMaxAge is the cookie lifetime in seconds, matching the signed expiry.
func (c *Codec) CookieMaxAge() int { return int(c.ttl().Seconds()) }

func (c *Codec) sign(body string) string {
	mac := hmac.New(sha256.New, c.Secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (c *Codec) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultTTL
	}
	return c.TTL
}

func (c *Codec) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
