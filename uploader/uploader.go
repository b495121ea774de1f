// Package uploader holds the two upload components: Single keeps one selected file and a status,
// Multi keeps an ordered list of tracked entries and uploads them concurrently.
//
// Both are plain instance-local state machines guarded by a mutex. Views are computed from a
// snapshot of that state, see View.
package uploader

import (
	"context"
	"errors"

	"github.com/moyoez/fileuploader/transfer"
	"github.com/moyoez/fileuploader/types"
)

var (
	ErrNoFileSelected  = errors.New("no file selected")
	ErrNothingToUpload = errors.New("no files to upload")
	ErrUploadInFlight  = errors.New("upload already in progress")
)

// Sender performs one upload request. transfer.Client is the production implementation.
type Sender interface {
	UploadFile(ctx context.Context, file types.File, onProgress transfer.ProgressFunc) error
}

// EventFunc receives state changes. It is called outside the component lock, so it may read the
// component back.
type EventFunc func(notification *types.Notification)

// Options configure a component.
type Options struct {
	OnEvent EventFunc

	// MarkFailedEntries makes Multi flag entries whose request failed. When false a failed entry
	// keeps its last progress and nothing else.
	MarkFailedEntries bool
}

func (o Options) emit(notification *types.Notification) {
	if o.OnEvent != nil && notification != nil {
		o.OnEvent(notification)
	}
}
