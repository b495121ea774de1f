package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moyoez/fileuploader/tool"
)

// EchoFile describes one received part.
type EchoFile struct {
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
	FileType string `json:"fileType"`
}

// HandleEcho answers with what it received, like httpbin /post. Nothing is stored.
// POST /api/echo/v1/post
func HandleEcho(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Failed to parse form: "+err.Error()))
		return
	}
	defer func() {
		if err := form.RemoveAll(); err != nil {
			tool.DefaultLogger.Debugf("Failed to remove multipart temp files: %v", err)
		}
	}()

	files := make(map[string][]EchoFile, len(form.File))
	for field, headers := range form.File {
		for _, h := range headers {
			files[field] = append(files[field], EchoFile{
				FileName: h.Filename,
				Size:     h.Size,
				FileType: h.Header.Get("Content-Type"),
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"form":  form.Value,
	})
}
