package types

// Icon is the coarse family of a media type, used to pick a row icon.
type Icon string

const (
	IconImage Icon = "image"
	IconVideo Icon = "video"
	IconAudio Icon = "audio"
	IconPDF   Icon = "pdf"
	IconFile  Icon = "file"
)

// SingleView is what the single uploader shows for its current state.
type SingleView struct {
	HasFile          bool         `json:"hasFile"`
	FileName         string       `json:"fileName,omitempty"`
	Size             string       `json:"size,omitempty"`
	FileType         string       `json:"fileType,omitempty"`
	Status           UploadStatus `json:"status"`
	ShowUploadButton bool         `json:"showUploadButton"`
	SuccessMessage   string       `json:"successMessage,omitempty"`
	ErrorMessage     string       `json:"errorMessage,omitempty"`
}

// EntryRow is one row of the multi uploader list.
type EntryRow struct {
	ID            string `json:"id"`
	Icon          Icon   `json:"icon"`
	FileName      string `json:"fileName"`
	Size          string `json:"size"`
	FileType      string `json:"fileType"`
	ShowRemove    bool   `json:"showRemove"`
	ProgressText  string `json:"progressText"`
	ProgressWidth int    `json:"progressWidth"` // percent of the bar that is filled
	Completed     bool   `json:"completed"`
	Failed        bool   `json:"failed,omitempty"`
}

// MultiView is what the multi uploader shows for its current state.
type MultiView struct {
	Rows          []EntryRow `json:"rows"`
	Uploading     bool       `json:"uploading"`
	ShowUploadAll bool       `json:"showUploadAll"`
	ShowClearAll  bool       `json:"showClearAll"`
}
