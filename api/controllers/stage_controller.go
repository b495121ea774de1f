package controllers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/moyoez/fileuploader/api/models"
	"github.com/moyoez/fileuploader/tool"
	"github.com/moyoez/fileuploader/types"
)

// StageController keeps files sent by a browser picker on disk so they can be selected later.
type StageController struct {
	folder string
}

func NewStageController(folder string) *StageController {
	return &StageController{folder: folder}
}

// HandleStage accepts one or more multipart "file" parts.
// POST /api/self/v1/stage
func (ctrl *StageController) HandleStage(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Failed to parse form: "+err.Error()))
		return
	}
	headers := form.File["file"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("No file provided"))
		return
	}
	if err := os.MkdirAll(ctrl.folder, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to create stage folder: "+err.Error()))
		return
	}

	staged := make([]types.StagedFile, 0, len(headers))
	for _, header := range headers {
		file, err := ctrl.save(c, header)
		if err != nil {
			c.JSON(http.StatusInternalServerError, tool.FastReturnErrorWithData(err.Error(), map[string]any{"fileName": header.Filename}))
			return
		}
		models.StageFile(file)
		staged = append(staged, file)
		tool.DefaultLogger.Infof("[Stage] Staged %s (%s) as %s", file.FileName, tool.FormatFileSize(file.Size), file.ID)
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(staged))
}

func (ctrl *StageController) save(c *gin.Context, header *multipart.FileHeader) (types.StagedFile, error) {
	src, err := header.Open()
	if err != nil {
		return types.StagedFile{}, fmt.Errorf("failed to open upload: %v", err)
	}
	defer src.Close()

	path := tool.NextAvailablePath(ctrl.folder, header.Filename)
	dst, err := os.Create(path)
	if err != nil {
		return types.StagedFile{}, fmt.Errorf("failed to create %s: %v", path, err)
	}
	written, err := tool.CopyWithContext(c.Request.Context(), dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return types.StagedFile{}, fmt.Errorf("failed to write %s: %v", path, err)
	}
	return types.StagedFile{
		ID:       tool.GenerateRandomUUID(),
		FileName: header.Filename,
		Size:     written,
		FileType: header.Header.Get("Content-Type"),
		Path:     path,
	}, nil
}

// HandleUnstage forgets a staged file and deletes it from disk.
// DELETE /api/self/v1/stage/:id
func (ctrl *StageController) HandleUnstage(c *gin.Context) {
	id := c.Param("id")
	staged, ok := models.LookupStagedFile(id)
	if !ok {
		c.JSON(http.StatusNotFound, tool.FastReturnError("Staged file not found or expired"))
		return
	}
	models.RemoveStagedFile(id)
	if err := os.Remove(staged.Path); err != nil && !os.IsNotExist(err) {
		tool.DefaultLogger.Warnf("[Stage] Failed to delete %s: %v", staged.Path, err)
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
