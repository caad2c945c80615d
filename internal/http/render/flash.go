package render

import (
	"github.com/gin-gonic/gin"

	"yantrashilpa.com/web/internal/http/flash"
	"yantrashilpa.com/web/internal/http/middleware"
	"yantrashilpa.com/web/pkg/view"
)

func RedirectWithFlash(c *gin.Context, codec *flash.Codec, location string, kind view.FlashKind, msg string) {
	middleware.SetFlashCookie(c, codec, view.Flash{Kind: kind, Message: msg})
	Redirect(c, location)
}
