package uploader

import (
	"fmt"

	"github.com/moyoez/fileuploader/tool"
	"github.com/moyoez/fileuploader/types"
)

const (
	SuccessMessage = "File uploaded successfully!"
	ErrorMessage   = "Upload failed. Please try again."

	ProgressCompleted = "Completed"
	ProgressFailed    = "Failed"
)

// SingleViewOf maps single uploader state to its view.
func SingleViewOf(file *types.File, status types.UploadStatus) types.SingleView {
	view := types.SingleView{Status: status}
	if file != nil {
		view.HasFile = true
		view.FileName = file.Name
		view.Size = tool.FormatKB(file.Size)
		view.FileType = file.Type
		view.ShowUploadButton = status != types.StatusUploading
	}
	switch status {
	case types.StatusSuccess:
		view.SuccessMessage = SuccessMessage
	case types.StatusError:
		view.ErrorMessage = ErrorMessage
	}
	return view
}

// MultiViewOf maps multi uploader state to its view.
func MultiViewOf(entries []types.TrackedEntry, uploading bool) types.MultiView {
	view := types.MultiView{
		Rows:          make([]types.EntryRow, 0, len(entries)),
		Uploading:     uploading,
		ShowUploadAll: len(entries) > 0 && !uploading,
		ShowClearAll:  len(entries) > 0,
	}
	for _, e := range entries {
		view.Rows = append(view.Rows, entryRow(e, uploading))
	}
	return view
}

func entryRow(e types.TrackedEntry, uploading bool) types.EntryRow {
	row := types.EntryRow{
		ID:            e.ID,
		Icon:          tool.IconFor(e.File.Type),
		FileName:      e.File.Name,
		Size:          tool.FormatFileSize(e.File.Size),
		FileType:      tool.DisplayType(e.File.Type),
		ShowRemove:    !uploading,
		ProgressWidth: e.Progress,
		Completed:     e.Completed,
		Failed:        e.Failed,
	}
	switch {
	case e.Completed:
		row.ProgressText = ProgressCompleted
	case e.Failed:
		row.ProgressText = ProgressFailed
	default:
		row.ProgressText = fmt.Sprintf("%d%%", e.Progress)
	}
	return row
}
