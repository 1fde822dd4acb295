package backend

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
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidsub/internal/config"
	"vidsub/internal/logging"
	"vidsub/internal/services"
)

const (
	component = "backend"

	defaultRequestTimeout = 30 * time.Second
	defaultUploadTimeout  = 10 * time.Minute
	maxResponseBytes      = 32 << 20

	// RequestIDHeader carries the per-submission correlation ID.
	RequestIDHeader = "X-Request-ID"
)

// HTTPDoer describes the HTTP client used by the backend client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues requests against the subtitle service.
type Client struct {
	baseURL        string
	doer           HTTPDoer
	requestTimeout time.Duration
	uploadTimeout  time.Duration
	logger         *slog.Logger
	newRequestID   func() string
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.doer = doer
		}
	}
}

// WithTimeouts overrides the per-request deadlines. Zero leaves a value unchanged.
func WithTimeouts(request, upload time.Duration) Option {
	return func(c *Client) {
		if request > 0 {
			c.requestTimeout = request
		}
		if upload > 0 {
			c.uploadTimeout = upload
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, component)
	}
}

// WithRequestIDSource overrides how correlation IDs are minted when the
// context does not already carry one.
func WithRequestIDSource(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newRequestID = fn
		}
	}
}

// NewClient constructs a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:        strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		doer:           http.DefaultClient,
		requestTimeout: defaultRequestTimeout,
		uploadTimeout:  defaultUploadTimeout,
		logger:         logging.NewComponentLogger(nil, component),
		newRequestID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// NewFromConfig builds a client using the server section of cfg.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) *Client {
	base := []Option{WithLogger(logger)}
	if cfg != nil {
		base = append(base, WithTimeouts(cfg.RequestTimeout(), cfg.UploadTimeout()))
		return NewClient(cfg.Server.BaseURL, append(base, opts...)...)
	}
	return NewClient("", append(base, opts...)...)
}

// BaseURL returns the service root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Upload describes a video to send to the service.
type Upload struct {
	// Name is the filename reported in the multipart part.
	Name        string
	ContentType string
	Body        io.Reader
	Language    string
	// OnProgress, when set, receives the cumulative bytes read from Body.
	OnProgress func(sent int64)
}

// SubmitFile streams a video to /process as multipart form data.
func (c *Client) SubmitFile(ctx context.Context, upload Upload) (SubmitResponse, error) {
	const op = "submit file"
	if upload.Body == nil {
		return SubmitResponse{}, services.Wrap(services.ErrValidation, component, op, "video body required", nil)
	}

	ctx, cancel := withTimeout(ctx, c.uploadTimeout)
	defer cancel()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeUpload(mw, upload)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("process"), pr)
	if err != nil {
		pr.CloseWithError(err)
		return SubmitResponse{}, services.Wrap(services.ErrTransport, component, op, "build request", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var raw rawResponse
	if err := c.do(req, op, &raw); err != nil {
		return SubmitResponse{}, err
	}
	return submitResponse(raw, op)
}

// SubmitYouTube asks the service to fetch and transcribe a YouTube video.
func (c *Client) SubmitYouTube(ctx context.Context, videoURL, language string) (SubmitResponse, error) {
	const op = "submit youtube"
	payload, err := json.Marshal(map[string]string{
		"youtube_url": strings.TrimSpace(videoURL),
		"language":    language,
	})
	if err != nil {
		return SubmitResponse{}, services.Wrap(services.ErrTransport, component, op, "encode request", err)
	}

	ctx, cancel := withTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("process_youtube"), bytes.NewReader(payload))
	if err != nil {
		return SubmitResponse{}, services.Wrap(services.ErrTransport, component, op, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var raw rawResponse
	if err := c.do(req, op, &raw); err != nil {
		return SubmitResponse{}, err
	}
	return submitResponse(raw, op)
}

// Progress fetches the current status of a job.
func (c *Client) Progress(ctx context.Context, taskID string) (JobStatus, error) {
	const op = "progress"
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return JobStatus{}, services.Wrap(services.ErrValidation, component, op, "task id required", nil)
	}

	ctx, cancel := withTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("progress", url.PathEscape(taskID)), nil)
	if err != nil {
		return JobStatus{}, services.Wrap(services.ErrTransport, component, op, "build request", err)
	}

	var raw rawResponse
	if err := c.do(req, op, &raw); err != nil {
		return JobStatus{}, err
	}

	status := JobStatus{
		TaskID:  taskID,
		State:   parseState(raw.Status),
		Message: strings.TrimSpace(raw.Message),
		Error:   strings.TrimSpace(raw.Error),
		Result:  raw.subtitle(),
	}
	if raw.Progress.set {
		status.Progress = clampProgress(raw.Progress.value)
	}
	if status.Error != "" && status.State != StateCompleted {
		status.State = StateFailed
	}
	if status.State == StateCompleted && !raw.Progress.set {
		status.Progress = 100
	}
	return status, nil
}

// SetupInfo fetches the service's capability report.
func (c *Client) SetupInfo(ctx context.Context) (SetupInfo, error) {
	const op = "setup info"

	ctx, cancel := withTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("setup_info"), nil)
	if err != nil {
		return SetupInfo{}, services.Wrap(services.ErrTransport, component, op, "build request", err)
	}

	var raw rawSetupInfo
	if err := c.do(req, op, &raw); err != nil {
		return SetupInfo{}, err
	}
	return raw.normalize(), nil
}

// StatusError is returned (wrapped in services.ErrTransport) for non-2xx replies.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(req *http.Request, op string, out any) error {
	requestID, ok := services.RequestIDFromContext(req.Context())
	if !ok {
		requestID = c.newRequestID()
	}
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")

	logger := logging.WithContext(req.Context(), c.logger)
	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		if errors.Is(req.Context().Err(), context.Canceled) {
			return context.Canceled
		}
		logger.Debug("backend request failed",
			logging.String("method", req.Method),
			logging.String("path", req.URL.Path),
			logging.Error(err),
		)
		return services.Wrap(services.ErrTransport, component, op, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return services.Wrap(services.ErrTransport, component, op, "read response", err)
	}

	logger.Debug("backend request",
		logging.String("method", req.Method),
		logging.String("path", req.URL.Path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return services.Wrap(services.ErrTransport, component, op, "", &StatusError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		})
	}
	if err := json.Unmarshal(body, out); err != nil {
		return services.Wrap(services.ErrTransport, component, op, "decode response", err)
	}
	return nil
}

func (c *Client) endpoint(parts ...string) string {
	return c.baseURL + "/" + strings.Join(parts, "/")
}

func submitResponse(raw rawResponse, op string) (SubmitResponse, error) {
	resp := SubmitResponse{
		TaskID:  strings.TrimSpace(raw.TaskID),
		Message: strings.TrimSpace(raw.Message),
		Result:  raw.subtitle(),
	}
	if resp.TaskID == "" && resp.Result == nil {
		msg := strings.TrimSpace(raw.Error)
		if msg == "" {
			msg = "response carried neither a task id nor subtitles"
		}
		return SubmitResponse{}, services.Wrap(services.ErrApplication, component, op, msg, nil)
	}
	return resp, nil
}

func writeUpload(mw *multipart.Writer, upload Upload) error {
	if err := mw.WriteField("language", upload.Language); err != nil {
		return fmt.Errorf("write language field: %w", err)
	}
	name := strings.TrimSpace(upload.Name)
	if name == "" {
		name = "video"
	}
	contentType := strings.TrimSpace(upload.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename="%s"`, quoteEscaper.Replace(name)))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create video part: %w", err)
	}
	var src io.Reader = upload.Body
	if upload.OnProgress != nil {
		src = &countingReader{r: upload.Body, report: upload.OnProgress}
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy video: %w", err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

type countingReader struct {
	r      io.Reader
	sent   int64
	report func(int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.sent += int64(n)
		c.report(c.sent)
	}
	return n, err
}

func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Error); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

func clampProgress(value float64) float64 {
	switch {
	case value < 0:
		return 0
	case value > 100:
		return 100
	default:
		return value
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
