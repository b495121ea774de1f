package controllers

import (
	"errors"
	"fmt"

	"github.com/moyoez/fileuploader/api/models"
	"github.com/moyoez/fileuploader/tool"
	"github.com/moyoez/fileuploader/types"
)

var errStagedNotFound = errors.New("staged file not found or expired")

// resolveFileInput turns a staged id or a file:// url into a File.
func resolveFileInput(in types.FileInput) (types.File, error) {
	switch {
	case in.StagedId != "":
		staged, ok := models.LookupStagedFile(in.StagedId)
		if !ok {
			return types.File{}, fmt.Errorf("%w: %s", errStagedNotFound, in.StagedId)
		}
		return tool.FileFromStaged(staged), nil
	case in.FileUrl != "":
		return tool.FileFromURL(in.FileUrl)
	default:
		return types.File{}, errors.New("either stagedId or fileUrl is required")
	}
}
