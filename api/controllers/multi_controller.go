package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moyoez/fileuploader/api/models"
	"github.com/moyoez/fileuploader/tool"
	"github.com/moyoez/fileuploader/types"
	"github.com/moyoez/fileuploader/uploader"
)

type MultiController struct {
	multi *uploader.Multi
}

func NewMultiController(multi *uploader.Multi) *MultiController {
	return &MultiController{multi: multi}
}

// HandleView returns the multi uploader view.
// GET /api/self/v1/multi
func (ctrl *MultiController) HandleView(c *gin.Context) {
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(ctrl.multi.View()))
}

// HandleSelect appends files. Nothing is appended when any input fails to resolve.
// POST /api/self/v1/multi/select
func (ctrl *MultiController) HandleSelect(c *gin.Context) {
	var request types.MultiSelectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	if len(request.Files) == 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("No files provided"))
		return
	}
	files := make([]types.File, 0, len(request.Files))
	for i, input := range request.Files {
		file, err := resolveFileInput(input)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errStagedNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, tool.FastReturnErrorWithData(err.Error(), map[string]any{"index": i}))
			return
		}
		files = append(files, file)
	}
	added := ctrl.multi.SelectFiles(files...)
	ids := make([]string, len(added))
	for i, e := range added {
		ids[i] = e.ID
	}
	c.JSON(http.StatusOK, gin.H{"entryIds": ids, "data": ctrl.multi.View()})
}

// HandleRemove removes one entry.
// DELETE /api/self/v1/multi/entries/:id
func (ctrl *MultiController) HandleRemove(c *gin.Context) {
	if err := ctrl.multi.RemoveEntry(c.Param("id")); err != nil {
		c.JSON(http.StatusConflict, tool.FastReturnError("Cannot remove while uploading"))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(ctrl.multi.View()))
}

// HandleClear removes every entry.
// DELETE /api/self/v1/multi/entries
func (ctrl *MultiController) HandleClear(c *gin.Context) {
	ctrl.multi.ClearAll()
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(ctrl.multi.View()))
}

// HandleUpload starts a batch in the background and answers right away.
// POST /api/self/v1/multi/upload
func (ctrl *MultiController) HandleUpload(c *gin.Context) {
	batch, err := ctrl.multi.StartUploadAll(context.Background())
	switch {
	case errors.Is(err, uploader.ErrNothingToUpload):
		c.JSON(http.StatusBadRequest, tool.FastReturnError("No files to upload"))
		return
	case errors.Is(err, uploader.ErrUploadInFlight):
		c.JSON(http.StatusConflict, tool.FastReturnError("Upload already in progress"))
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
		return
	}

	models.SetBatchResult(types.BatchResult{ID: batch.ID})
	go func() {
		models.SetBatchResult(batch.Wait())
	}()
	c.JSON(http.StatusAccepted, gin.H{"batchId": batch.ID, "data": ctrl.multi.View()})
}

// HandleBatch returns a batch result; finishedAt is zero while it runs.
// GET /api/self/v1/multi/batches/:id
func (ctrl *MultiController) HandleBatch(c *gin.Context) {
	result, ok := models.GetBatchResult(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, tool.FastReturnError("Batch not found or expired"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"finished": result.Finished(), "data": result})
}

// HandleBatches lists cached batch ids.
// GET /api/self/v1/multi/batches
func (ctrl *MultiController) HandleBatches(c *gin.Context) {
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(models.ListBatchIds()))
}
