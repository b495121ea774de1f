package uploader

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/moyoez/fileuploader/tool"
	"github.com/moyoez/fileuploader/transfer"
	"github.com/moyoez/fileuploader/types"
)

// Multi tracks an ordered list of files and uploads all of them at once.
type Multi struct {
	mu        sync.Mutex
	sender    Sender
	opts      Options
	entries   []types.TrackedEntry
	uploading bool
}

func NewMulti(sender Sender, opts Options) *Multi {
	return &Multi{
		sender: sender,
		opts:   opts,
	}
}

// SelectFiles appends one entry per file. Every selection gets a fresh id, so picking the same
// file twice yields two entries.
func (m *Multi) SelectFiles(files ...types.File) []types.TrackedEntry {
	if len(files) == 0 {
		return nil
	}
	added := make([]types.TrackedEntry, 0, len(files))
	for _, file := range files {
		added = append(added, types.TrackedEntry{
			ID:   tool.GenerateRandomUUID(),
			File: file,
		})
	}

	m.mu.Lock()
	m.entries = append(m.entries, added...)
	m.mu.Unlock()

	ids := make([]string, len(added))
	for i, e := range added {
		ids[i] = e.ID
	}
	m.opts.emit(&types.Notification{
		Type:  types.NotifyTypeSelected,
		Title: "Files Selected",
		Data: map[string]any{
			"component": "multi",
			"entryIds":  ids,
		},
	})
	return added
}

// RemoveEntry drops the entry with id. Unknown ids are ignored. Removal is refused while a batch
// is in flight.
func (m *Multi) RemoveEntry(id string) error {
	m.mu.Lock()
	if m.uploading {
		m.mu.Unlock()
		return ErrUploadInFlight
	}
	before := len(m.entries)
	m.entries = slices.DeleteFunc(m.entries, func(e types.TrackedEntry) bool {
		return e.ID == id
	})
	removed := len(m.entries) != before
	m.mu.Unlock()

	if removed {
		m.opts.emit(&types.Notification{
			Type: types.NotifyTypeRemoved,
			Data: map[string]any{"component": "multi", "entryId": id},
		})
	}
	return nil
}

// ClearAll empties the list, even during a batch. Late callbacks of that batch find nothing to
// update and are dropped.
func (m *Multi) ClearAll() {
	m.mu.Lock()
	m.entries = nil
	m.mu.Unlock()

	m.opts.emit(&types.Notification{
		Type: types.NotifyTypeCleared,
		Data: map[string]any{"component": "multi"},
	})
}

// Entries returns a copy of the list in insertion order.
func (m *Multi) Entries() []types.TrackedEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries)
}

// Entry returns the entry with id.
func (m *Multi) Entry(id string) (types.TrackedEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, true
		}
	}
	return types.TrackedEntry{}, false
}

func (m *Multi) Uploading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploading
}

// View maps the current state to what should be shown.
func (m *Multi) View() types.MultiView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MultiViewOf(m.entries, m.uploading)
}

// Batch is one running bulk upload.
type Batch struct {
	ID     string
	done   chan struct{}
	result types.BatchResult
}

// Done is closed once every request of the batch has settled.
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Wait blocks until the batch settles and returns its result.
func (b *Batch) Wait() types.BatchResult {
	<-b.done
	return b.result
}

// UploadAll uploads every entry currently in the list and blocks until all requests settled.
func (m *Multi) UploadAll(ctx context.Context) (types.BatchResult, error) {
	batch, err := m.StartUploadAll(ctx)
	if err != nil {
		return types.BatchResult{}, err
	}
	return batch.Wait(), nil
}

// StartUploadAll starts a batch and returns without waiting. It is a no-op returning
// ErrNothingToUpload or ErrUploadInFlight when the list is empty or a batch is running.
func (m *Multi) StartUploadAll(ctx context.Context) (*Batch, error) {
	m.mu.Lock()
	if m.uploading {
		m.mu.Unlock()
		return nil, ErrUploadInFlight
	}
	if len(m.entries) == 0 {
		m.mu.Unlock()
		return nil, ErrNothingToUpload
	}
	m.uploading = true
	// a retried entry starts clean, it keeps only its last progress
	for i := range m.entries {
		m.entries[i].Failed = false
		m.entries[i].Error = ""
	}
	snapshot := slices.Clone(m.entries)
	m.mu.Unlock()

	batch := &Batch{
		ID:   tool.GenerateShortID(),
		done: make(chan struct{}),
		result: types.BatchResult{
			StartedAt: time.Now(),
			Total:     len(snapshot),
			Results:   make([]types.BatchItemResult, len(snapshot)),
		},
	}
	batch.result.ID = batch.ID

	tool.DefaultLogger.Infof("[Batch %s] Uploading %d files", batch.ID, len(snapshot))
	m.opts.emit(&types.Notification{
		Type:  types.NotifyTypeBatchStart,
		Title: "Upload Started",
		Data: map[string]any{
			"component":  "multi",
			"batchId":    batch.ID,
			"totalFiles": len(snapshot),
		},
	})

	var wg sync.WaitGroup
	for i, entry := range snapshot {
		wg.Add(1)
		go func(i int, id string, file types.File) {
			defer wg.Done()
			batch.result.Results[i] = m.uploadEntry(ctx, batch.ID, id, file)
		}(i, entry.ID, entry.File)
	}

	go func() {
		wg.Wait()
		for _, r := range batch.result.Results {
			if r.Success {
				batch.result.Success++
			} else {
				batch.result.Failed++
			}
		}
		batch.result.FinishedAt = time.Now()

		m.mu.Lock()
		m.uploading = false
		m.mu.Unlock()

		tool.DefaultLogger.Infof("[Batch %s] Finished: %d succeeded, %d failed", batch.ID, batch.result.Success, batch.result.Failed)
		m.opts.emit(&types.Notification{
			Type:  types.NotifyTypeBatchEnd,
			Title: "Upload Completed",
			Data: map[string]any{
				"component":    "multi",
				"batchId":      batch.ID,
				"totalFiles":   batch.result.Total,
				"successFiles": batch.result.Success,
				"failedFiles":  batch.result.Failed,
			},
		})
		close(batch.done)
	}()
	return batch, nil
}

func (m *Multi) uploadEntry(ctx context.Context, batchId, id string, file types.File) types.BatchItemResult {
	result := types.BatchItemResult{EntryId: id, FileName: file.Name}

	m.opts.emit(&types.Notification{
		Type: types.NotifyTypeUploadStart,
		Data: map[string]any{"component": "multi", "batchId": batchId, "entryId": id, "fileName": file.Name},
	})

	err := m.sender.UploadFile(ctx, file, func(loaded, total int64) {
		percent := transfer.ProgressPercent(loaded, total)
		if !m.updateEntry(id, func(e *types.TrackedEntry) { e.Progress = percent }) {
			return
		}
		m.opts.emit(&types.Notification{
			Type: types.NotifyTypeUploadProgress,
			Data: map[string]any{"component": "multi", "batchId": batchId, "entryId": id, "progress": percent},
		})
	})
	if err != nil {
		tool.DefaultLogger.Errorf("[Batch %s] Upload of %s failed: %v", batchId, file.Name, err)
		result.Error = err.Error()
		if m.opts.MarkFailedEntries {
			m.updateEntry(id, func(e *types.TrackedEntry) {
				e.Failed = true
				e.Error = err.Error()
			})
		}
		m.opts.emit(&types.Notification{
			Type:    types.NotifyTypeUploadFailed,
			Message: err.Error(),
			Data:    map[string]any{"component": "multi", "batchId": batchId, "entryId": id, "fileName": file.Name},
		})
		return result
	}

	result.Success = true
	m.updateEntry(id, func(e *types.TrackedEntry) {
		e.Completed = true
		e.Failed = false
		e.Error = ""
	})
	m.opts.emit(&types.Notification{
		Type: types.NotifyTypeUploadEnd,
		Data: map[string]any{"component": "multi", "batchId": batchId, "entryId": id, "fileName": file.Name},
	})
	return result
}

// updateEntry applies fn to the entry with id. It reports false when the entry is gone.
func (m *Multi) updateEntry(id string, fn func(e *types.TrackedEntry)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ID == id {
			fn(&m.entries[i])
			return true
		}
	}
	return false
}
