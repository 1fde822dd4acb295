package submission

import (
	"path/filepath"
	"strings"

	"github.com/wailsapp/mimetype"
)

const octetStream = "application/octet-stream"

// Detector reports the MIME type of a file.
type Detector interface {
	Detect(path string) (string, error)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(path string) (string, error)

// Detect implements Detector.
func (f DetectorFunc) Detect(path string) (string, error) { return f(path) }

var videoExtensions = map[string]string{
	".3gp":  "video/3gpp",
	".avi":  "video/x-msvideo",
	".flv":  "video/x-flv",
	".m4v":  "video/x-m4v",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".mp4":  "video/mp4",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".ogv":  "video/ogg",
	".ts":   "video/mp2t",
	".webm": "video/webm",
	".wmv":  "video/x-ms-wmv",
}

// SniffDetector inspects file content, falling back to the extension when
// the content is not recognized.
type SniffDetector struct{}

// Detect implements Detector.
func (SniffDetector) Detect(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	detected := mediaType(mt.String())
	if detected == "" || detected == octetStream {
		if byExt, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]; ok {
			return byExt, nil
		}
		return octetStream, nil
	}
	return detected, nil
}

func mediaType(value string) string {
	if i := strings.IndexByte(value, ';'); i >= 0 {
		value = value[:i]
	}
	return strings.ToLower(strings.TrimSpace(value))
}
