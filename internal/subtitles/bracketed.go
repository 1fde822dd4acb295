package subtitles

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	bracketLinePattern = regexp.MustCompile(`^\[(\d{2}:\d{2}:\d{2})[.,](\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2})[.,](\d{3})\]\s*(.*)$`)
	bracketDetect      = regexp.MustCompile(`(?m)^\s*\[\d{2}:\d{2}:\d{2}[.,]\d{3}\s*-->\s*\d{2}:\d{2}:\d{2}[.,]\d{3}\]`)
)

// IsBracketed reports whether text uses "[HH:MM:SS.mmm --> HH:MM:SS.mmm]"
// cue headers.
func IsBracketed(text string) bool {
	return bracketDetect.MatchString(text)
}

// ConvertBracketed rewrites a bracketed transcript as indexed SRT with comma
// decimals. Text on the header line itself is kept as the first cue line.
// Lines before the first header are discarded.
func ConvertBracketed(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	type cue struct {
		stamp string
		lines []string
	}
	var cues []cue
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := bracketLinePattern.FindStringSubmatch(trimmed); m != nil {
			c := cue{stamp: m[1] + "," + m[2] + " --> " + m[3] + "," + m[4]}
			if rest := strings.TrimSpace(m[5]); rest != "" {
				c.lines = append(c.lines, rest)
			}
			cues = append(cues, c)
			continue
		}
		if len(cues) == 0 || trimmed == "" {
			continue
		}
		last := &cues[len(cues)-1]
		last.lines = append(last.lines, trimmed)
	}

	var b strings.Builder
	for i, c := range cues {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('\n')
		b.WriteString(c.stamp)
		if len(c.lines) > 0 {
			b.WriteByte('\n')
			b.WriteString(strings.Join(c.lines, "\n"))
		}
	}
	return b.String()
}

// ToSRT returns text ready to write to an .srt file.
func ToSRT(text string) string {
	if IsBracketed(text) {
		return ConvertBracketed(text)
	}
	return Normalize(text)
}
