package subtitles

import (
	"path/filepath"
	"regexp"
	"strings"

	"vidsub/internal/textutil"
)

// DefaultBaseName is used when no better name can be derived.
const DefaultBaseName = "subtitles"

var youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com\/(?:[^\/]+\/.+\/|(?:v|e(?:mbed)?)\/|.*[?&]v=)|youtu\.be\/)([^"&?\/\s]{11})`)

// YouTubeID extracts the 11-character video ID from a YouTube URL.
func YouTubeID(rawURL string) (string, bool) {
	m := youtubeIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// NameFromVideo strips directory and extension from a video path.
func NameFromVideo(path string) string {
	base := filepath.Base(strings.TrimSpace(path))
	if base == "." || base == string(filepath.Separator) {
		return DefaultBaseName
	}
	return cleanBase(strings.TrimSuffix(base, filepath.Ext(base)))
}

// NameFromURL returns the YouTube ID of rawURL, or the default name.
func NameFromURL(rawURL string) string {
	if id, ok := YouTubeID(rawURL); ok {
		return id
	}
	return DefaultBaseName
}

// SRTFilename returns base with an ".srt" extension, sanitized for use as a
// file name.
func SRTFilename(base string) string {
	base = strings.TrimSpace(base)
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".srt") {
		base = strings.TrimSuffix(base, ext)
	}
	return cleanBase(base) + ".srt"
}

func cleanBase(base string) string {
	base = strings.Trim(textutil.SanitizeFileName(base), ". ")
	if base == "" {
		return DefaultBaseName
	}
	return base
}
