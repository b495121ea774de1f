package types

const (
	NotifyTypeInfo           = "info"
	NotifyTypeSelected       = "files_selected"
	NotifyTypeRemoved        = "entry_removed"
	NotifyTypeCleared        = "entries_cleared"
	NotifyTypeStatusChanged  = "status_changed"
	NotifyTypeUploadStart    = "upload_start"
	NotifyTypeUploadProgress = "upload_progress"
	NotifyTypeUploadEnd      = "upload_end"
	NotifyTypeUploadFailed   = "upload_failed"
	NotifyTypeBatchStart     = "batch_start"
	NotifyTypeBatchEnd       = "batch_end"
	NotifyTypeSnapshot       = "snapshot"
)

// Notification represents a notification message structure
type Notification struct {
	Type    string         `json:"type,omitempty"`    // Notification type, e.g. "upload_start", "upload_end", etc.
	Title   string         `json:"title,omitempty"`   // Notification title
	Message string         `json:"message,omitempty"` // Notification message/content
	Data    map[string]any `json:"data,omitempty"`    // Additional data fields
}
