package tool

import (
	"maps"

	"github.com/gin-gonic/gin"
)

// Dashboard answers share one envelope: "ok" always, "error" on failure, "data" on success.
// Extra fields of FastReturnErrorWithData sit next to "error" and never replace the envelope keys.

func FastReturnError(msg string) gin.H {
	return gin.H{
		"ok":    false,
		"error": msg,
	}
}

func FastReturnSuccess() gin.H {
	return gin.H{"ok": true}
}

func FastReturnSuccessWithData(data any) gin.H {
	return gin.H{
		"ok":   true,
		"data": data,
	}
}

// FastReturnErrorWithData adds context such as the failing index or the view after a failed upload.
func FastReturnErrorWithData(msg string, data map[string]any) gin.H {
	resp := gin.H{}
	maps.Copy(resp, data)
	resp["ok"] = false
	resp["error"] = msg
	return resp
}
