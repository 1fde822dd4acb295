package subtitles

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrEmpty is returned when there is no subtitle text to render.
var ErrEmpty = errors.New("subtitle text is empty")

var (
	indexLinePattern     = regexp.MustCompile(`^\d+$`)
	timestampLinePattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}[,.]\d{3}\s*-->`)
)

// Block is one displayable cue.
type Block struct {
	Index     int           `json:"index"`
	Timestamp string        `json:"timestamp"`
	Text      string        `json:"text"`
	Start     time.Duration `json:"-"`
	End       time.Duration `json:"-"`

	timed bool
}

// Span returns the cue's time range in canonical "HH:MM:SS,mmm --> HH:MM:SS,mmm"
// form, or the timestamp line as given when it could not be parsed.
func (b Block) Span() string {
	if !b.timed {
		return b.Timestamp
	}
	return FormatTimestamp(b.Start) + " --> " + FormatTimestamp(b.End)
}

// Lines returns the cue text split into display lines.
func (b Block) Lines() []string {
	if b.Text == "" {
		return nil
	}
	return strings.Split(b.Text, "\n")
}

// Document is parsed subtitle text ready for rendering.
type Document struct {
	// Text is the normalized input.
	Text   string  `json:"text"`
	SRT    bool    `json:"srt"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Lines returns the raw body split into display lines.
func (d Document) Lines() []string {
	return strings.Split(strings.TrimRight(d.Text, "\n"), "\n")
}

// Parse normalizes text and splits it into blocks. Bracketed transcripts are
// converted to SRT first. Text that is not recognizably SRT yields a
// Document with SRT=false and no blocks.
func Parse(text string) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return Document{}, ErrEmpty
	}
	if IsBracketed(text) {
		text = ConvertBracketed(text)
	}
	normalized := Normalize(text)
	doc := Document{Text: normalized}
	if !LooksLikeSRT(normalized) {
		return doc, nil
	}
	doc.SRT = true
	doc.Blocks = splitBlocks(normalized)
	return doc, nil
}

func splitBlocks(text string) []Block {
	lines := strings.Split(text, "\n")
	var (
		blocks   []Block
		current  []string
		hasStamp bool
	)
	flush := func() {
		if block, ok := buildBlock(current, len(blocks)+1); ok {
			blocks = append(blocks, block)
		}
		current = current[:0]
		hasStamp = false
	}
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		startsCue := indexLinePattern.MatchString(trimmed) &&
			i+1 < len(lines) && timestampLinePattern.MatchString(strings.TrimSpace(lines[i+1]))
		if startsCue && len(current) > 0 {
			flush()
		}
		// A block holds one timestamp; a second one opens the next cue.
		if timestampLinePattern.MatchString(trimmed) {
			if hasStamp {
				flush()
			}
			hasStamp = true
		}
		current = append(current, trimmed)
	}
	flush()
	return blocks
}

func buildBlock(lines []string, fallbackIndex int) (Block, bool) {
	stampAt := -1
	for i, line := range lines {
		if strings.Contains(line, "-->") {
			stampAt = i
			break
		}
	}
	if stampAt < 0 {
		return Block{}, false
	}
	block := Block{
		Index:     fallbackIndex,
		Timestamp: lines[stampAt],
		Text:      strings.Join(lines[stampAt+1:], "\n"),
	}
	if stampAt > 0 {
		if n, err := strconv.Atoi(lines[stampAt-1]); err == nil {
			block.Index = n
		}
	}
	if start, end, err := parseRange(block.Timestamp); err == nil {
		block.Start = start
		block.End = end
		block.timed = true
	}
	return block, true
}

// PlainText returns every block's text joined by blank lines, or the raw
// body when the document is not SRT.
func (d Document) PlainText() string {
	if !d.SRT {
		return strings.TrimSpace(d.Text)
	}
	parts := make([]string, 0, len(d.Blocks))
	for _, block := range d.Blocks {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}
