package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moyoez/fileuploader/api/models"
	"github.com/moyoez/fileuploader/transfer"
	"github.com/moyoez/fileuploader/types"
	"github.com/moyoez/fileuploader/uploader"
)

// fakeSender records uploads and fails the ones named in fail.
type fakeSender struct {
	fail    map[string]bool
	release chan struct{}
}

func (f *fakeSender) UploadFile(ctx context.Context, file types.File, onProgress transfer.ProgressFunc) error {
	if f.release != nil {
		<-f.release
	}
	if onProgress != nil {
		onProgress(file.Size, file.Size)
	}
	if f.fail[file.Name] {
		return errors.New("rejected")
	}
	return nil
}

// setupRouter creates a test router with the dashboard endpoints
func setupRouter(sender uploader.Sender, stageFolder string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	single := NewSingleController(uploader.NewSingle(sender, uploader.Options{}))
	multi := NewMultiController(uploader.NewMulti(sender, uploader.Options{MarkFailedEntries: true}))
	stage := NewStageController(stageFolder)

	router.POST("/api/echo/v1/post", HandleEcho)
	self := router.Group("/api/self/v1")
	{
		self.POST("/stage", stage.HandleStage)
		self.DELETE("/stage/:id", stage.HandleUnstage)
		self.GET("/single", single.HandleView)
		self.POST("/single/select", single.HandleSelect)
		self.POST("/single/upload", single.HandleUpload)
		self.GET("/multi", multi.HandleView)
		self.POST("/multi/select", multi.HandleSelect)
		self.DELETE("/multi/entries/:id", multi.HandleRemove)
		self.DELETE("/multi/entries", multi.HandleClear)
		self.POST("/multi/upload", multi.HandleUpload)
		self.GET("/multi/batches/:id", multi.HandleBatch)
		self.GET("/create-qr-code", DashboardQRCode)
	}
	return router
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestSingleSelectAndUpload(t *testing.T) {
	router := setupRouter(&fakeSender{}, t.TempDir())

	w := doJSON(router, http.MethodPost, "/api/self/v1/single/upload", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("upload without selection: expected 400, got %d", w.Code)
	}

	path := writeTempFile(t, "notes.txt", strings.Repeat("x", 2048))
	w = doJSON(router, http.MethodPost, "/api/self/v1/single/select", types.FileInput{FileUrl: "file://" + path})
	if w.Code != http.StatusOK {
		t.Fatalf("select: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	selected := decode[struct{ Data types.SingleView }](t, w).Data
	if !selected.HasFile || selected.FileName != "notes.txt" || selected.Size != "2.00 KB" || !selected.ShowUploadButton {
		t.Errorf("unexpected view after select: %+v", selected)
	}

	w = doJSON(router, http.MethodPost, "/api/self/v1/single/upload", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	uploaded := decode[struct{ Data types.SingleView }](t, w).Data
	if uploaded.Status != types.StatusSuccess || uploaded.SuccessMessage == "" {
		t.Errorf("unexpected view after upload: %+v", uploaded)
	}
}

func TestSingleUploadFailure(t *testing.T) {
	router := setupRouter(&fakeSender{fail: map[string]bool{"bad.txt": true}}, t.TempDir())
	path := writeTempFile(t, "bad.txt", "x")
	doJSON(router, http.MethodPost, "/api/self/v1/single/select", types.FileInput{FileUrl: "file://" + path})

	w := doJSON(router, http.MethodPost, "/api/self/v1/single/upload", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	resp := decode[struct {
		Error string
		Data  types.SingleView
	}](t, w)
	if resp.Data.Status != types.StatusError || resp.Data.ErrorMessage != uploader.ErrorMessage {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestSingleSelectRejectsBadInput(t *testing.T) {
	router := setupRouter(&fakeSender{}, t.TempDir())
	tests := []struct {
		name   string
		input  types.FileInput
		status int
	}{
		{"empty", types.FileInput{}, http.StatusBadRequest},
		{"http url", types.FileInput{FileUrl: "https://example.com/a.txt"}, http.StatusBadRequest},
		{"missing stage", types.FileInput{StagedId: "nope"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/api/self/v1/single/select", tt.input)
			if w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestMultiSelectRemoveAndClear(t *testing.T) {
	router := setupRouter(&fakeSender{}, t.TempDir())
	a := writeTempFile(t, "a.png", "aa")
	b := writeTempFile(t, "b.txt", "bb")

	w := doJSON(router, http.MethodPost, "/api/self/v1/multi/select", types.MultiSelectRequest{
		Files: []types.FileInput{{FileUrl: "file://" + a}, {FileUrl: "file://" + b}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("select: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[struct {
		EntryIds []string
		Data     types.MultiView
	}](t, w)
	if len(resp.EntryIds) != 2 || len(resp.Data.Rows) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Data.Rows[0].Icon != types.IconImage || resp.Data.Rows[0].Size != "2.0 B" {
		t.Errorf("unexpected first row: %+v", resp.Data.Rows[0])
	}

	w = doJSON(router, http.MethodDelete, "/api/self/v1/multi/entries/"+resp.EntryIds[0], nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d", w.Code)
	}
	rows := decode[struct{ Data types.MultiView }](t, w).Data.Rows
	if len(rows) != 1 || rows[0].FileName != "b.txt" {
		t.Errorf("unexpected rows after remove: %+v", rows)
	}

	w = doJSON(router, http.MethodDelete, "/api/self/v1/multi/entries", nil)
	if view := decode[struct{ Data types.MultiView }](t, w).Data; len(view.Rows) != 0 || view.ShowClearAll {
		t.Errorf("unexpected view after clear: %+v", view)
	}
}

func TestMultiSelectIsAllOrNothing(t *testing.T) {
	router := setupRouter(&fakeSender{}, t.TempDir())
	a := writeTempFile(t, "a.txt", "a")

	w := doJSON(router, http.MethodPost, "/api/self/v1/multi/select", types.MultiSelectRequest{
		Files: []types.FileInput{{FileUrl: "file://" + a}, {StagedId: "gone"}},
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	w = doJSON(router, http.MethodGet, "/api/self/v1/multi", nil)
	if rows := decode[struct{ Data types.MultiView }](t, w).Data.Rows; len(rows) != 0 {
		t.Errorf("nothing should be appended, got %+v", rows)
	}
}

func TestMultiUploadLifecycle(t *testing.T) {
	sender := &fakeSender{release: make(chan struct{}), fail: map[string]bool{"b.txt": true}}
	router := setupRouter(sender, t.TempDir())

	w := doJSON(router, http.MethodPost, "/api/self/v1/multi/upload", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty upload: expected 400, got %d", w.Code)
	}

	a := writeTempFile(t, "a.txt", "a")
	b := writeTempFile(t, "b.txt", "b")
	w = doJSON(router, http.MethodPost, "/api/self/v1/multi/select", types.MultiSelectRequest{
		Files: []types.FileInput{{FileUrl: "file://" + a}, {FileUrl: "file://" + b}},
	})
	ids := decode[struct{ EntryIds []string }](t, w).EntryIds

	w = doJSON(router, http.MethodPost, "/api/self/v1/multi/upload", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("upload: expected 202, got %d: %s", w.Code, w.Body.String())
	}
	started := decode[struct {
		BatchId string
		Data    types.MultiView
	}](t, w)
	if started.BatchId == "" || !started.Data.Uploading || started.Data.ShowUploadAll {
		t.Errorf("unexpected upload response: %+v", started)
	}

	if w := doJSON(router, http.MethodPost, "/api/self/v1/multi/upload", nil); w.Code != http.StatusConflict {
		t.Errorf("second upload: expected 409, got %d", w.Code)
	}
	if w := doJSON(router, http.MethodDelete, "/api/self/v1/multi/entries/"+ids[0], nil); w.Code != http.StatusConflict {
		t.Errorf("remove while uploading: expected 409, got %d", w.Code)
	}
	w = doJSON(router, http.MethodGet, "/api/self/v1/multi/batches/"+started.BatchId, nil)
	if w.Code != http.StatusOK || decode[struct{ Finished bool }](t, w).Finished {
		t.Errorf("running batch: got %d %s", w.Code, w.Body.String())
	}

	close(sender.release)

	var result types.BatchResult
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r, ok := models.GetBatchResult(started.BatchId); ok && r.Finished() {
			result = r
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if result.Success != 1 || result.Failed != 1 {
		t.Fatalf("unexpected batch result: %+v", result)
	}

	w = doJSON(router, http.MethodGet, "/api/self/v1/multi", nil)
	view := decode[struct{ Data types.MultiView }](t, w).Data
	if view.Uploading || view.Rows[0].ProgressText != uploader.ProgressCompleted || view.Rows[1].ProgressText != uploader.ProgressFailed {
		t.Errorf("unexpected view after batch: %+v", view)
	}

	if w := doJSON(router, http.MethodGet, "/api/self/v1/multi/batches/unknown", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown batch: expected 404, got %d", w.Code)
	}
}

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile(field, name)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte(content))
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestStageThenSelect(t *testing.T) {
	folder := t.TempDir()
	router := setupRouter(&fakeSender{}, folder)

	body, contentType := multipartBody(t, "file", map[string]string{"report.txt": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/self/v1/stage", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("stage: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	staged := decode[struct{ Data []types.StagedFile }](t, w).Data
	if len(staged) != 1 || staged[0].FileName != "report.txt" || staged[0].Size != 5 {
		t.Fatalf("unexpected staged files: %+v", staged)
	}
	if data, err := os.ReadFile(filepath.Join(folder, "report.txt")); err != nil || string(data) != "hello" {
		t.Errorf("staged file on disk: %q, %v", data, err)
	}

	w = doJSON(router, http.MethodPost, "/api/self/v1/single/select", types.FileInput{StagedId: staged[0].ID})
	if w.Code != http.StatusOK {
		t.Fatalf("select staged: expected 200, got %d", w.Code)
	}
	if view := decode[struct{ Data types.SingleView }](t, w).Data; view.FileName != "report.txt" {
		t.Errorf("unexpected view: %+v", view)
	}

	w = doJSON(router, http.MethodDelete, "/api/self/v1/stage/"+staged[0].ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("unstage: expected 200, got %d", w.Code)
	}
	if _, err := os.Stat(filepath.Join(folder, "report.txt")); !os.IsNotExist(err) {
		t.Errorf("staged file should be deleted, stat err = %v", err)
	}
	if w := doJSON(router, http.MethodDelete, "/api/self/v1/stage/"+staged[0].ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("second unstage: expected 404, got %d", w.Code)
	}
}

func TestStageRequiresFile(t *testing.T) {
	router := setupRouter(&fakeSender{}, t.TempDir())
	body, contentType := multipartBody(t, "other", map[string]string{"a.txt": "a"})
	req := httptest.NewRequest(http.MethodPost, "/api/self/v1/stage", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleEcho(t *testing.T) {
	router := setupRouter(&fakeSender{}, t.TempDir())
	body, contentType := multipartBody(t, "file", map[string]string{"hello.txt": "hello world"})
	req := httptest.NewRequest(http.MethodPost, "/api/echo/v1/post", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[struct{ Files map[string][]EchoFile }](t, w)
	got := resp.Files["file"]
	if len(got) != 1 || got[0].FileName != "hello.txt" || got[0].Size != 11 {
		t.Errorf("unexpected echo: %+v", resp)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/echo/v1/post", strings.NewReader("plain"))
	req.Header.Set("Content-Type", "text/plain")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("non multipart: expected 400, got %d", w.Code)
	}
}

func TestDashboardQRCode(t *testing.T) {
	router := setupRouter(&fakeSender{}, t.TempDir())

	w := doJSON(router, http.MethodGet, "/api/self/v1/create-qr-code?data=http%3A%2F%2F127.0.0.1&size=100x100", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("expected png, got %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a png")
	}

	w = doJSON(router, http.MethodGet, "/api/self/v1/create-qr-code", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("without data: expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("X-QR-Content"); got != "http://example.com/api/self/v1/status" {
		t.Errorf("without data the code should open the dashboard, got %q", got)
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int{"": 0, "200": 200, "300x300": 300, " 64 x 64": 64, "abc": 0, "-5": 0}
	for in, want := range tests {
		if got := parseSize(in); got != want {
			t.Errorf("parseSize(%q) = %d, want %d", in, got, want)
		}
	}
}
