package submission

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"

	"vidsub/internal/language"
	"vidsub/internal/messages"
	"vidsub/internal/services"
)

// DefaultMaxBytes is the upload cap when none is configured.
const DefaultMaxBytes int64 = 100 << 20

var youtubeURLPattern = regexp.MustCompile(`(?i)^(https?://)?(www\.|m\.)?(youtube\.com|youtu\.be)/.+`)

// ValidationError is a rejected input. Key and Args render the localized
// explanation.
type ValidationError struct {
	Key  messages.Key
	Args []any
}

func (e *ValidationError) Error() string {
	return messages.New("en").T(e.Key, e.Args...)
}

// Unwrap tags the error with services.ErrValidation.
func (e *ValidationError) Unwrap() error {
	return services.ErrValidation
}

func reject(key messages.Key, args ...any) error {
	return &ValidationError{Key: key, Args: args}
}

// VideoFile is a local file that passed validation.
type VideoFile struct {
	Path        string
	Name        string
	Size        int64
	ContentType string
}

// ValidateFile checks that path names a regular video file of at most
// maxBytes.
func ValidateFile(path string, maxBytes int64, detector Detector) (VideoFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return VideoFile{}, reject(messages.FileRequired)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if detector == nil {
		detector = SniffDetector{}
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return VideoFile{}, reject(messages.FileMissing, path)
		}
		return VideoFile{}, fmt.Errorf("stat video: %w", err)
	}
	if !info.Mode().IsRegular() {
		return VideoFile{}, reject(messages.FileNotRegular, path)
	}
	if info.Size() > maxBytes {
		return VideoFile{}, reject(messages.FileTooLarge,
			humanize.IBytes(uint64(info.Size())), humanize.IBytes(uint64(maxBytes)))
	}

	contentType, err := detector.Detect(path)
	if err != nil {
		return VideoFile{}, fmt.Errorf("detect video type: %w", err)
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "video/") {
		return VideoFile{}, reject(messages.FileNotVideo, filepath.Base(path), contentType)
	}

	return VideoFile{
		Path:        path,
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: contentType,
	}, nil
}

// ValidateURL checks that raw is a YouTube URL and returns it trimmed.
func ValidateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", reject(messages.URLRequired)
	}
	if !youtubeURLPattern.MatchString(raw) {
		return "", reject(messages.URLInvalid, raw)
	}
	return raw, nil
}

// ValidateTaskID checks that id names a job and returns it trimmed.
func ValidateTaskID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", reject(messages.TaskIDRequired)
	}
	return id, nil
}

// NormalizeLanguage resolves user input to a supported language code.
func NormalizeLanguage(input string) (string, error) {
	code, ok := language.Normalize(input)
	if !ok {
		return "", reject(messages.LanguageUnsupported, input)
	}
	return code, nil
}
