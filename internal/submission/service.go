package submission

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"vidsub/internal/logging"
	"vidsub/internal/services"
	"vidsub/internal/services/backend"
	"vidsub/internal/subtitles"
)

const component = "submission"

// Source names the input modality of a submission.
type Source string

const (
	SourceFile    Source = "file"
	SourceYouTube Source = "youtube"
)

// Backend is the subset of the backend client used for submissions.
type Backend interface {
	SubmitFile(ctx context.Context, upload backend.Upload) (backend.SubmitResponse, error)
	SubmitYouTube(ctx context.Context, videoURL, language string) (backend.SubmitResponse, error)
}

// Submission is an accepted job: either a task to poll or an immediate
// result.
type Submission struct {
	Source   Source
	Input    string
	Language string
	// BaseName is the derived output name without extension.
	BaseName string
	TaskID   string
	Message  string
	Result   *backend.SubtitleResult
}

// Direct reports whether the backend answered with subtitles immediately.
func (s Submission) Direct() bool {
	return s.Result != nil
}

// Service validates and dispatches submissions.
type Service struct {
	backend  Backend
	detector Detector
	maxBytes int64
	logger   *slog.Logger
}

// Option customizes the service.
type Option func(*Service)

// WithDetector overrides MIME detection.
func WithDetector(d Detector) Option {
	return func(s *Service) {
		if d != nil {
			s.detector = d
		}
	}
}

// WithMaxBytes overrides the upload size cap.
func WithMaxBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logging.NewComponentLogger(logger, component)
	}
}

// NewService constructs a submission service.
func NewService(b Backend, opts ...Option) *Service {
	s := &Service{
		backend:  b,
		detector: SniffDetector{},
		maxBytes: DefaultMaxBytes,
		logger:   logging.NewComponentLogger(nil, component),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitFile validates path and uploads it. onProgress, when set, receives
// cumulative bytes sent.
func (s *Service) SubmitFile(ctx context.Context, path, lang string, onProgress func(sent, total int64)) (Submission, error) {
	video, err := ValidateFile(path, s.maxBytes, s.detector)
	if err != nil {
		return Submission{}, err
	}
	code, err := NormalizeLanguage(lang)
	if err != nil {
		return Submission{}, err
	}

	ctx = services.WithSource(ctx, string(SourceFile))
	logger := logging.WithContext(ctx, s.logger)

	file, err := os.Open(video.Path)
	if err != nil {
		return Submission{}, fmt.Errorf("open video: %w", err)
	}
	defer file.Close()

	upload := backend.Upload{
		Name:        video.Name,
		ContentType: video.ContentType,
		Body:        file,
		Language:    code,
	}
	if onProgress != nil {
		upload.OnProgress = func(sent int64) { onProgress(sent, video.Size) }
	}

	logger.Info("uploading video",
		logging.String("file", video.Name),
		logging.Int("bytes", int(video.Size)),
		logging.String("content_type", video.ContentType),
		logging.String("language", code),
	)
	resp, err := s.backend.SubmitFile(ctx, upload)
	if err != nil {
		return Submission{}, err
	}
	sub := s.accept(logger, resp)
	sub.Source = SourceFile
	sub.Input = video.Path
	sub.Language = code
	sub.BaseName = subtitles.NameFromVideo(video.Path)
	return sub, nil
}

// SubmitURL validates a YouTube URL and submits it.
func (s *Service) SubmitURL(ctx context.Context, rawURL, lang string) (Submission, error) {
	videoURL, err := ValidateURL(rawURL)
	if err != nil {
		return Submission{}, err
	}
	code, err := NormalizeLanguage(lang)
	if err != nil {
		return Submission{}, err
	}

	ctx = services.WithSource(ctx, string(SourceYouTube))
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("submitting youtube url",
		logging.String("url", videoURL),
		logging.String("language", code),
	)
	resp, err := s.backend.SubmitYouTube(ctx, videoURL, code)
	if err != nil {
		return Submission{}, err
	}
	sub := s.accept(logger, resp)
	sub.Source = SourceYouTube
	sub.Input = videoURL
	sub.Language = code
	sub.BaseName = subtitles.NameFromURL(videoURL)
	return sub, nil
}

func (s *Service) accept(logger *slog.Logger, resp backend.SubmitResponse) Submission {
	sub := Submission{TaskID: resp.TaskID, Message: resp.Message, Result: resp.Result}
	if resp.Direct() {
		if resp.Result.Warning != "" {
			logger.Info("service returned subtitles with a warning",
				logging.String(logging.FieldEventType, "direct_result_warning"),
				logging.String("warning", resp.Result.Warning),
			)
		}
		logger.Info("received subtitles directly")
		return sub
	}
	logger.Info("job accepted", logging.String(logging.FieldTaskID, resp.TaskID))
	return sub
}
