package subtitles

import (
	"regexp"
	"strings"
)

var (
	// "12 00:00:01,000 --> ..." on one line.
	gluedIndexPattern = regexp.MustCompile(`(?m)^[ \t]*(\d+)[ \t]+(\d{2}:\d{2}:\d{2},\d{3}[ \t]*-->)`)
	// "...end of text 3 00:00:05,000 -->" where the index lost its line, with
	// or without a break before the timestamp.
	gluedTextPattern = regexp.MustCompile(`([^\s\d:,])[ \t]*(\d+)[ \t]*\n?(\d{2}:\d{2}:\d{2},\d{3}[ \t]*-->)`)
	srtPattern       = regexp.MustCompile(`(?m)^[ \t]*\d+[ \t]*\n[ \t]*\d{2}:\d{2}:\d{2},\d{3} --> \d{2}:\d{2}:\d{2},\d{3}`)
)

// Normalize repairs common damage in service output so block detection can
// rely on one index line followed by one timestamp line.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = gluedIndexPattern.ReplaceAllString(text, "$1\n$2")
	text = gluedTextPattern.ReplaceAllString(text, "$1\n\n$2\n$3")
	return text
}

// LooksLikeSRT reports whether normalized text contains at least one
// "<index>\n<HH:MM:SS,mmm> --> <HH:MM:SS,mmm>" cue header.
func LooksLikeSRT(text string) bool {
	return srtPattern.MatchString(text)
}
