package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxErrorBody caps how much of a failed response is kept in StatusError.
const maxErrorBody = 4 << 10

var ErrTransport = errors.New("backend unreachable")

// StatusError is returned for any non-2xx backend response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: backend returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsStatus reports whether err is a StatusError with one of the given codes.
func IsStatus(err error, codes ...int) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	for _, c := range codes {
		if se.StatusCode == c {
			return true
		}
	}
	return false
}

type requestIDKey struct{}

// WithRequestID makes outgoing calls carry id in X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s body: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, body, "application/json", out)
}

// PostForm sends fields as multipart/form-data, the encoding the backend expects
// for login and registration.
func (c *Client) PostForm(ctx context.Context, path string, fields map[string]string, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("encode %s form: %w", path, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encode %s form: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, buf.Bytes(), w.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	reqID := RequestID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("backend call failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", reqID),
			slog.Any("err", err),
		)
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrTransport, err)
	}
	defer resp.Body.Close()

	c.log.Debug("backend call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)),
		slog.String("request_id", reqID),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
