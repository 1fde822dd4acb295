package subtitles

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func parseRange(line string) (time.Duration, time.Duration, error) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time range %q", line)
	}
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimestamp(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ParseTimestamp parses "HH:MM:SS,mmm" (a period is accepted as the decimal
// separator).
func ParseTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	return total, nil
}

// FormatTimestamp renders d as "HH:MM:SS,mmm".
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	hours := ms / 3_600_000
	ms %= 3_600_000
	minutes := ms / 60_000
	ms %= 60_000
	seconds := ms / 1000
	ms %= 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, ms)
}

// Validate checks a parsed document for format issues. An empty slice means
// no issues were found.
func Validate(doc Document) []string {
	var issues []string
	if !doc.SRT {
		return append(issues, "not_srt")
	}
	if len(doc.Blocks) == 0 {
		return append(issues, "no_cues")
	}
	var prevEnd time.Duration
	for i, block := range doc.Blocks {
		start, end, err := parseRange(block.Timestamp)
		if err != nil {
			issues = append(issues, fmt.Sprintf("timestamp_parse_error: cue %d", block.Index))
			continue
		}
		if end < start {
			issues = append(issues, fmt.Sprintf("negative_duration: cue %d", block.Index))
		}
		if i > 0 && start < prevEnd {
			issues = append(issues, fmt.Sprintf("overlap: cue %d", block.Index))
		}
		if strings.TrimSpace(block.Text) == "" {
			issues = append(issues, fmt.Sprintf("empty_text: cue %d", block.Index))
		}
		prevEnd = end
	}
	return issues
}
