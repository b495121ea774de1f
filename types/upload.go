package types

import "time"

// UploadStatus is the state of a single file upload.
type UploadStatus string

const (
	StatusIdle      UploadStatus = "idle"
	StatusUploading UploadStatus = "uploading"
	StatusSuccess   UploadStatus = "success"
	StatusError     UploadStatus = "error"
)

// TrackedEntry is one file in the multi uploader.
type TrackedEntry struct {
	ID        string `json:"id"`
	File      File   `json:"file"`
	Progress  int    `json:"progress"` // 0..100
	Completed bool   `json:"completed"`
	Failed    bool   `json:"failed,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchItemResult represents the outcome of a single file inside a batch
type BatchItemResult struct {
	EntryId  string `json:"entryId"`
	FileName string `json:"fileName"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// BatchResult represents the result of a bulk upload, available once every request has settled.
type BatchResult struct {
	ID         string            `json:"id"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt"`
	Total      int               `json:"total"`
	Success    int               `json:"success"`
	Failed     int               `json:"failed"`
	Results    []BatchItemResult `json:"results"`
}

// Finished reports whether the batch has settled.
func (b BatchResult) Finished() bool {
	return !b.FinishedAt.IsZero()
}
