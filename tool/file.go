package tool

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"

	"github.com/moyoez/fileuploader/types"
)

// FileFromPath builds a File for a local path. The payload is reopened on every upload.
func FileFromPath(filePath string) (types.File, error) {
	fileName, fileSize, fileType, err := GetFileInfoFromPath(filePath)
	if err != nil {
		return types.File{}, err
	}
	return types.File{
		Name: fileName,
		Size: fileSize,
		Type: fileType,
		Opener: func() (io.ReadCloser, error) {
			return os.Open(filePath)
		},
	}, nil
}

// FileFromURL accepts file:// urls only.
func FileFromURL(fileUrl string) (types.File, error) {
	parsedUrl, err := url.Parse(fileUrl)
	if err != nil {
		return types.File{}, fmt.Errorf("invalid fileUrl: %v", err)
	}
	if parsedUrl.Scheme != "file" {
		return types.File{}, fmt.Errorf("only file:// protocol is supported for fileUrl")
	}
	DefaultLogger.Debugf("Reading file info from: %s", parsedUrl.Path)
	return FileFromPath(parsedUrl.Path)
}

// FileFromBytes wraps in-memory data, mostly for tests and the echo route.
func FileFromBytes(name, fileType string, data []byte) types.File {
	return types.File{
		Name: name,
		Size: int64(len(data)),
		Type: fileType,
		Opener: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FileFromStaged builds a File for a staged browser upload, keeping the declared type.
func FileFromStaged(staged types.StagedFile) types.File {
	path := staged.Path
	return types.File{
		Name: staged.FileName,
		Size: staged.Size,
		Type: staged.FileType,
		Opener: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// GetFileInfoFromPath reads file information from local filesystem
// Returns fileName, size, fileType, error
func GetFileInfoFromPath(filePath string) (string, int64, string, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return "", 0, "", fmt.Errorf("failed to stat file: %v", err)
	}
	if fileInfo.IsDir() {
		return "", 0, "", fmt.Errorf("path is a directory, not a file")
	}

	// declared type comes from the extension only, an unknown extension stays empty
	fileType := mime.TypeByExtension(filepath.Ext(filePath))

	return filepath.Base(filePath), fileInfo.Size(), fileType, nil
}
