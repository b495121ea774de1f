package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"golang.org/x/time/rate"

	"github.com/moyoez/fileuploader/tool"
	"github.com/moyoez/fileuploader/types"
)

// Client posts one file per request as a multipart form to a fixed endpoint.
type Client struct {
	HTTP      *http.Client
	Endpoint  string
	FieldName string

	progressPerSecond float64
}

// NewClient builds a Client from the app config.
func NewClient(cfg *types.AppConfig) *Client {
	return &Client{
		HTTP:              tool.NewHTTPClientFromConfig(cfg),
		Endpoint:          cfg.Endpoint,
		FieldName:         cfg.FieldName,
		progressPerSecond: cfg.ProgressPerSecond,
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartFrame returns the bytes before and after the file payload.
func multipartFrame(fieldName string, file types.File) (head, tail []byte, contentType string, err error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fileType := file.Type
	if fileType == "" {
		fileType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(fieldName), quoteEscaper.Replace(file.Name)))
	h.Set("Content-Type", fileType)
	if _, err := mw.CreatePart(h); err != nil {
		return nil, nil, "", err
	}
	head = bytes.Clone(buf.Bytes())
	buf.Reset()
	if err := mw.Close(); err != nil {
		return nil, nil, "", err
	}
	tail = bytes.Clone(buf.Bytes())
	return head, tail, mw.FormDataContentType(), nil
}

// UploadFile sends file to the endpoint under the configured field.
// Any 2xx is success; the response body is drained and discarded.
func (c *Client) UploadFile(ctx context.Context, file types.File, onProgress ProgressFunc) error {
	return c.UploadFileWithLimiter(ctx, file, NewProgressLimiter(c.progressPerSecond), onProgress)
}

// UploadFileWithLimiter is UploadFile with an explicit progress limiter (nil disables throttling).
func (c *Client) UploadFileWithLimiter(ctx context.Context, file types.File, limiter *rate.Limiter, onProgress ProgressFunc) error {
	if c.Endpoint == "" {
		return fmt.Errorf("invalid parameters: endpoint must not be empty")
	}
	fieldName := c.FieldName
	if fieldName == "" {
		fieldName = tool.DefaultFieldName
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("upload cancelled: %w", ctx.Err())
	default:
	}

	head, tail, contentType, err := multipartFrame(fieldName, file)
	if err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	payload, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file.Name, err)
	}
	defer func() {
		if err := payload.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close %s: %v", file.Name, err)
		}
	}()

	var total int64
	if file.Size >= 0 {
		total = int64(len(head)) + file.Size + int64(len(tail))
	}
	body := newProgressReader(io.MultiReader(bytes.NewReader(head), payload, bytes.NewReader(tail)), total, limiter, onProgress)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if total > 0 {
		req.ContentLength = total
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("upload cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("failed to send upload request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	tool.DefaultLogger.Debugf("Uploaded %s (%s) to %s", file.Name, tool.FormatFileSize(file.Size), c.Endpoint)
	return nil
}

// StatusError is a non-2xx answer from the endpoint.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upload request failed: %s", e.Status)
}
