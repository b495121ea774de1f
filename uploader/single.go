package uploader

import (
	"context"
	"fmt"
	"sync"

	"github.com/moyoez/fileuploader/tool"
	"github.com/moyoez/fileuploader/types"
)

// Single uploads one selected file at a time.
type Single struct {
	mu       sync.Mutex
	sender   Sender
	opts     Options
	selected *types.File
	status   types.UploadStatus
}

func NewSingle(sender Sender, opts Options) *Single {
	return &Single{
		sender: sender,
		opts:   opts,
		status: types.StatusIdle,
	}
}

// SelectFile replaces the selection. The status is left alone.
func (s *Single) SelectFile(file types.File) {
	s.mu.Lock()
	s.selected = &file
	s.mu.Unlock()

	s.opts.emit(&types.Notification{
		Type:    types.NotifyTypeSelected,
		Title:   "File Selected",
		Message: file.Name,
		Data: map[string]any{
			"component": "single",
			"fileName":  file.Name,
			"size":      file.Size,
			"fileType":  file.Type,
		},
	})
}

// Selected returns the current selection.
func (s *Single) Selected() (types.File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return types.File{}, false
	}
	return *s.selected, true
}

func (s *Single) Status() types.UploadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// UploadSelected posts the selected file and blocks until the request settles.
// The returned error is for the caller's logs; the component only keeps success or error.
func (s *Single) UploadSelected(ctx context.Context) error {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return ErrNoFileSelected
	}
	if s.status == types.StatusUploading {
		s.mu.Unlock()
		return ErrUploadInFlight
	}
	file := *s.selected
	s.status = types.StatusUploading
	s.mu.Unlock()
	s.emitStatus(file, types.StatusUploading, nil)

	err := s.sender.UploadFile(ctx, file, nil)

	next := types.StatusSuccess
	if err != nil {
		next = types.StatusError
		tool.DefaultLogger.Warnf("[Single] Upload of %s failed: %v", file.Name, err)
	} else {
		tool.DefaultLogger.Infof("[Single] Uploaded %s", file.Name)
	}
	s.mu.Lock()
	s.status = next
	s.mu.Unlock()
	s.emitStatus(file, next, err)

	if err != nil {
		return fmt.Errorf("upload %s: %w", file.Name, err)
	}
	return nil
}

func (s *Single) emitStatus(file types.File, status types.UploadStatus, err error) {
	data := map[string]any{
		"component": "single",
		"fileName":  file.Name,
		"status":    string(status),
	}
	if err != nil {
		data["error"] = err.Error()
	}
	s.opts.emit(&types.Notification{
		Type:    types.NotifyTypeStatusChanged,
		Title:   "Upload " + string(status),
		Message: file.Name,
		Data:    data,
	})
}

// View maps the current state to what should be shown.
func (s *Single) View() types.SingleView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SingleViewOf(s.selected, s.status)
}
