package uploader

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/moyoez/fileuploader/tool"
	"github.com/moyoez/fileuploader/transfer"
	"github.com/moyoez/fileuploader/types"
)

// senderFunc adapts a function to Sender.
type senderFunc func(ctx context.Context, file types.File, onProgress transfer.ProgressFunc) error

func (f senderFunc) UploadFile(ctx context.Context, file types.File, onProgress transfer.ProgressFunc) error {
	return f(ctx, file, onProgress)
}

func okSender() Sender {
	return senderFunc(func(ctx context.Context, file types.File, onProgress transfer.ProgressFunc) error {
		return nil
	})
}

// gatedSender blocks each upload until its file name is released.
type gatedSender struct {
	mu      sync.Mutex
	gates   map[string]chan error
	started chan string
}

func newGatedSender(names ...string) *gatedSender {
	g := &gatedSender{
		gates:   make(map[string]chan error, len(names)),
		started: make(chan string, len(names)),
	}
	for _, n := range names {
		g.gates[n] = make(chan error, 1)
	}
	return g
}

func (g *gatedSender) UploadFile(ctx context.Context, file types.File, onProgress transfer.ProgressFunc) error {
	g.mu.Lock()
	gate := g.gates[file.Name]
	g.mu.Unlock()
	g.started <- file.Name
	return <-gate
}

func (g *gatedSender) release(name string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gates[name] <- err
}

func (g *gatedSender) waitStarted(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-g.started:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d uploads started", i, n)
		}
	}
}

func textFile(name string) types.File {
	return tool.FileFromBytes(name, "text/plain", []byte(name))
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
