package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"vidsub/internal/fileutil"
	"vidsub/internal/logging"
	"vidsub/internal/services/backend"
	"vidsub/internal/subtitles"
)

const component = "session"

var (
	// ErrNoResult is returned by Save and Copy before a result is available.
	ErrNoResult = errors.New("no subtitle result")
	// ErrNoBlock is returned by Copy for an unknown block index.
	ErrNoBlock = errors.New("no such subtitle block")
)

// Phase is the coarse state of the session.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhasePolling    Phase = "polling"
	PhaseDone       Phase = "done"
	PhaseFailed     Phase = "failed"
)

// Snapshot is a copy of the session state for rendering.
type Snapshot struct {
	Phase    Phase
	TaskID   string
	BaseName string
	Progress float64
	Message  string
	Stalled  bool
	Warning  string
	Err      error
}

// Session is the view-model for one CLI run. It is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	outputDir string
	copyText  func(string) error
	logger    *slog.Logger

	generation int
	cancel     context.CancelFunc

	snap   Snapshot
	result *backend.SubtitleResult
	doc    subtitles.Document
}

// Option customizes a session.
type Option func(*Session)

// WithClipboard overrides the clipboard writer.
func WithClipboard(fn func(string) error) Option {
	return func(s *Session) {
		if fn != nil {
			s.copyText = fn
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logging.NewComponentLogger(logger, component)
	}
}

// New returns an idle session saving into outputDir.
func New(outputDir string, opts ...Option) *Session {
	s := &Session{
		outputDir: outputDir,
		copyText:  clipboard.WriteAll,
		logger:    logging.NewComponentLogger(nil, component),
		snap:      Snapshot{Phase: PhaseIdle},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin starts a new submission derived from parent, canceling the previous
// one. The returned done func releases the submission's context.
func (s *Session) Begin(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	if s.cancel != nil {
		s.logger.Debug("canceling previous submission")
		s.cancel()
	}
	s.generation++
	gen := s.generation
	s.cancel = cancel
	s.snap = Snapshot{Phase: PhaseSubmitting}
	s.result = nil
	s.doc = subtitles.Document{}
	s.mu.Unlock()

	done := func() {
		cancel()
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation == gen {
			s.cancel = nil
		}
	}
	return ctx, done
}

// Accepted records the job the backend created.
func (s *Session) Accepted(taskID, baseName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Phase = PhasePolling
	s.snap.TaskID = taskID
	s.snap.BaseName = baseName
}

// Observe records a progress report.
func (s *Session) Observe(progress float64, message string, stalled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Progress = progress
	s.snap.Message = message
	s.snap.Stalled = stalled
}

// Complete stores result and parses it for display. A blank or default
// baseName falls back to the name the service suggested.
func (s *Session) Complete(baseName string, result *backend.SubtitleResult) (subtitles.Document, error) {
	if result == nil {
		return subtitles.Document{}, ErrNoResult
	}
	doc, err := subtitles.Parse(result.Text)
	if err != nil {
		return subtitles.Document{}, err
	}
	name := strings.TrimSpace(baseName)
	if (name == "" || name == subtitles.DefaultBaseName) && strings.TrimSpace(result.Filename) != "" {
		name = subtitles.NameFromVideo(result.Filename)
	}
	if name == "" {
		name = subtitles.DefaultBaseName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	s.doc = doc
	s.snap.Phase = PhaseDone
	s.snap.BaseName = name
	s.snap.Progress = 100
	s.snap.Warning = result.Warning
	s.snap.Err = nil
	return doc, nil
}

// Fail records a terminal error.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Phase = PhaseFailed
	s.snap.Err = err
}

// Current returns a copy of the session state.
func (s *Session) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Document returns the parsed result, if any.
func (s *Session) Document() (subtitles.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc, s.result != nil
}

// Save writes the result as <name>.srt in the output directory. Bracketed
// transcripts are converted first. Without force an existing file is kept
// and a numbered name is chosen instead.
func (s *Session) Save(force bool) (string, error) {
	s.mu.Lock()
	result := s.result
	name := s.snap.BaseName
	dir := s.outputDir
	s.mu.Unlock()

	if result == nil {
		return "", ErrNoResult
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	target := filepath.Join(dir, subtitles.SRTFilename(name))
	if !force {
		unique, err := fileutil.UniquePath(target)
		if err != nil {
			return "", err
		}
		target = unique
	}

	body := strings.TrimRight(subtitles.ToSRT(result.Text), "\n") + "\n"
	if err := fileutil.WriteFileAtomic(target, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("save subtitles: %w", err)
	}
	s.logger.Info("subtitles saved", logging.String("path", target), logging.Int("bytes", len(body)))
	return target, nil
}

// Copy puts subtitle text on the clipboard. block 0 copies every cue's
// text; a positive block copies the cue with that index.
func (s *Session) Copy(block int) error {
	s.mu.Lock()
	doc := s.doc
	ok := s.result != nil
	s.mu.Unlock()

	if !ok {
		return ErrNoResult
	}
	text, err := TextFor(doc, block)
	if err != nil {
		return err
	}
	if err := s.copyText(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// TextFor returns the copyable text of doc: everything for block 0, or the
// text of the cue whose index is block.
func TextFor(doc subtitles.Document, block int) (string, error) {
	if block <= 0 {
		return doc.PlainText(), nil
	}
	for _, b := range doc.Blocks {
		if b.Index == block {
			return b.Text, nil
		}
	}
	return "", fmt.Errorf("%w: %d", ErrNoBlock, block)
}
