package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moyoez/fileuploader/tool"
	"github.com/moyoez/fileuploader/types"
	"github.com/moyoez/fileuploader/uploader"
)

type SingleController struct {
	single *uploader.Single
}

func NewSingleController(single *uploader.Single) *SingleController {
	return &SingleController{single: single}
}

// HandleView returns the single uploader view.
// GET /api/self/v1/single
func (ctrl *SingleController) HandleView(c *gin.Context) {
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(ctrl.single.View()))
}

// HandleSelect replaces the selected file.
// POST /api/self/v1/single/select
func (ctrl *SingleController) HandleSelect(c *gin.Context) {
	var request types.FileInput
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	file, err := resolveFileInput(request)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errStagedNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, tool.FastReturnError(err.Error()))
		return
	}
	ctrl.single.SelectFile(file)
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(ctrl.single.View()))
}

// HandleUpload uploads the selected file and answers once the request settled.
// POST /api/self/v1/single/upload
func (ctrl *SingleController) HandleUpload(c *gin.Context) {
	// a client that goes away does not cancel the upload
	ctx := context.WithoutCancel(c.Request.Context())
	err := ctrl.single.UploadSelected(ctx)
	switch {
	case errors.Is(err, uploader.ErrNoFileSelected):
		c.JSON(http.StatusBadRequest, tool.FastReturnError("No file selected"))
	case errors.Is(err, uploader.ErrUploadInFlight):
		c.JSON(http.StatusConflict, tool.FastReturnError("Upload already in progress"))
	case err != nil:
		c.JSON(http.StatusBadGateway, tool.FastReturnErrorWithData("Upload failed", map[string]any{"data": ctrl.single.View()}))
	default:
		c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(ctrl.single.View()))
	}
}
