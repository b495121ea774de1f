package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moyoez/fileuploader/tool"
)

func OnlyAllowLocal(c *gin.Context) {
	if c.ClientIP() == "127.0.0.1" || c.ClientIP() == "::1" {
		c.Next()
	} else {
		c.AbortWithStatusJSON(http.StatusForbidden, tool.FastReturnError("Forbidden"))
	}
}

// OnlyAllowPrivate also lets private network clients in, e.g. a phone that scanned the QR code.
func OnlyAllowPrivate(c *gin.Context) {
	if tool.IsLoopbackOrPrivate(c.ClientIP()) {
		c.Next()
	} else {
		c.AbortWithStatusJSON(http.StatusForbidden, tool.FastReturnError("Forbidden"))
	}
}
