package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ViewRecorder interface {
	Record(ctx context.Context, path string) error
}

// PageViews counts successful GETs (200 or 304) of the public pages.
func PageViews(rec ViewRecorder, l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != http.MethodGet {
			return
		}
		if s := c.Writer.Status(); s != http.StatusOK && s != http.StatusNotModified {
			return
		}
		path := c.FullPath()
		if path == "" {
			return
		}
		if err := rec.Record(c.Request.Context(), path); err != nil {
			l.WarnContext(c.Request.Context(), "page_view_record_failed",
				"request_id", GetRequestID(c), "path", path, "err", err)
		}
	}
}
