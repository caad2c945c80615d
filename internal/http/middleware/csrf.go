package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"yantrashilpa.com/web/internal/shared/apperr"
)

const (
	CSRFCookieName = "csrf_token"
	CSRFFormField  = "csrf_token"
	CSRFHeader     = "X-CSRF-Token"
	ctxKeyCSRF     = "csrf_token"

	multipartMemory = 8 << 20
)

// CSRF is a double-submit check: every unsafe request must echo the cookie
// token in the X-CSRF-Token header or the csrf_token form field. Multipart
// requests may instead pass it as the csrf_token query parameter, in which
// case the body is not read here.
func CSRF(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CSRFCookieName)
		if err != nil || !validCSRFToken(token) {
			token = newCSRFToken()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CSRFCookieName, token, 0, "/", "", secure, true)
		}
		c.Set(ctxKeyCSRF, token)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		sent := c.GetHeader(CSRFHeader)
		if sent == "" && isMultipart(c.Request) {
			// Uploads carry the token in the action URL so the body is
			// left for the handler to stream and size-check.
			sent = c.Query(CSRFFormField)
		}
		if sent == "" {
			if err := parseForm(c.Request); err != nil {
				var tooBig *http.MaxBytesError
				if errors.As(err, &tooBig) {
					Fail(c, apperr.TooLargeErr("The submitted data is too large."))
					return
				}
			}
			sent = c.Request.PostFormValue(CSRFFormField)
		}
		if subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
			Fail(c, apperr.ForbiddenErr("Your form has expired. Please reload the page and try again."))
			return
		}
		c.Next()
	}
}

// parseForm fills r.PostForm, r.MultipartForm too for multipart bodies,
// so later handler reads reuse the parsed values.
func parseForm(r *http.Request) error {
	if isMultipart(r) {
		return r.ParseMultipartForm(multipartMemory)
	}
	return r.ParseForm()
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func GetCSRFToken(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyCSRF); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func validCSRFToken(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func newCSRFToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
