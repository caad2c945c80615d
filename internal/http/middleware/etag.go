package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
)

type bufferedWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error)       { return w.buf.Write(b) }
func (w *bufferedWriter) WriteString(s string) (int, error) { return w.buf.WriteString(s) }

// ETag buffers GET responses and tags 200s with a weak xxhash ETag, answering
// a matching If-None-Match with 304.
func ETag() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}

		orig := c.Writer
		bw := &bufferedWriter{ResponseWriter: orig}
		c.Writer = bw
		c.Next()
		c.Writer = orig

		if bw.buf.Len() == 0 {
			return
		}
		body := bw.buf.Bytes()

		if orig.Status() == http.StatusOK && orig.Header().Get("ETag") == "" {
			tag := fmt.Sprintf(`W/"%016x"`, xxhash.Sum64(body))
			h := orig.Header()
			h.Set("ETag", tag)
			h.Set("Cache-Control", "private, no-cache")
			if etagMatches(c.GetHeader("If-None-Match"), tag) {
				h.Del("Content-Type")
				h.Del("Content-Length")
				orig.WriteHeader(http.StatusNotModified)
				orig.WriteHeaderNow()
				return
			}
		}
		_, _ = orig.Write(body)
	}
}

func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	if strings.TrimSpace(header) == "*" {
		return true
	}
	bare := strings.TrimPrefix(tag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == bare {
			return true
		}
	}
	return false
}
