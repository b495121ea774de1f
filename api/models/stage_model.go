package models

import (
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/moyoez/fileuploader/types"
)

var (
	StagedFileTTL = 60 * time.Minute
	stagedFiles   = ttlworker.NewCache[string, types.StagedFile](StagedFileTTL)
)

// StageFile remembers a file received from a browser picker.
func StageFile(file types.StagedFile) {
	stagedFiles.Set(file.ID, file)
}

// LookupStagedFile returns a staged file that has not expired yet.
func LookupStagedFile(id string) (types.StagedFile, bool) {
	file := stagedFiles.Get(id)
	return file, file.ID != ""
}

func RemoveStagedFile(id string) {
	stagedFiles.Delete(id)
}
