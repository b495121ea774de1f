package types

import "io"

// File is a picked file. It is replaced wholesale on a new pick and never mutated in place.
type File struct {
	Name string `json:"fileName"`
	Size int64  `json:"size"`     // -1 when unknown
	Type string `json:"fileType"` // declared media type, may be empty

	// Opener returns a fresh reader over the payload for every request.
	Opener func() (io.ReadCloser, error) `json:"-"`
}

// Open returns a reader over the payload.
func (f File) Open() (io.ReadCloser, error) {
	if f.Opener == nil {
		return nil, ErrNoPayload
	}
	return f.Opener()
}

// FileInput is how API clients point at a file: a staged browser upload or a local file:// url.
type FileInput struct {
	StagedId string `json:"stagedId,omitempty"`
	FileUrl  string `json:"fileUrl,omitempty"` // supports file:/// protocol only
}

// StagedFile is a file received from a browser picker and kept on disk until it expires.
type StagedFile struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
	FileType string `json:"fileType"`
	Path     string `json:"-"`
}

// MultiSelectRequest appends files to the multi uploader.
type MultiSelectRequest struct {
	Files []FileInput `json:"files"`
}
