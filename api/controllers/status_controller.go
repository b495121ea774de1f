package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moyoez/fileuploader/notify"
	"github.com/moyoez/fileuploader/tool"
)

// UserStatus returns server status for the web UI.
// GET /api/self/v1/status
func UserStatus(c *gin.Context) {
	cfg := tool.GetCurrentConfig()
	c.JSON(http.StatusOK, gin.H{
		"running":           true,
		"notify_ws_enabled": notify.NotifyWSEnabled(),
		"endpoint":          cfg.Endpoint,
		"fieldName":         cfg.FieldName,
	})
}
