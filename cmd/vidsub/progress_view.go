package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"

	"vidsub/internal/logging"
	"vidsub/internal/messages"
	"vidsub/internal/poller"
	"vidsub/internal/session"
)

const clearLine = "\r\033[2K"

// progressView draws upload and job progress. On a terminal it redraws one
// line with a progress bar; otherwise it prints a line per 10% step.
type progressView struct {
	out     io.Writer
	printer *messages.Printer
	live    bool
	sess    *session.Session

	mu          sync.Mutex
	bar         progress.Model
	sampler     *logging.ProgressSampler
	drawn       bool
	uploadShown bool
	uploadPct   int
}

func newProgressView(out io.Writer, printer *messages.Printer, live bool, sess *session.Session) *progressView {
	return &progressView{
		out:       out,
		printer:   printer,
		live:      live,
		sess:      sess,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
		sampler:   logging.NewProgressSampler(10),
		uploadPct: -1,
	}
}

// Note prints a standalone line, clearing any live line first.
func (v *progressView) Note(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clearLocked()
	fmt.Fprintln(v.out, text)
}

// Upload returns a byte-count callback for a file upload labeled name.
func (v *progressView) Upload(name string) func(sent, total int64) {
	label := v.printer.T(messages.Uploading, name)
	return func(sent, total int64) {
		v.mu.Lock()
		defer v.mu.Unlock()
		if !v.live {
			if !v.uploadShown {
				v.uploadShown = true
				fmt.Fprintf(v.out, "%s (%s)\n", label, humanize.IBytes(uint64(max(total, 0))))
			}
			return
		}
		pct := 100
		if total > 0 {
			pct = int(sent * 100 / total)
		}
		if pct == v.uploadPct {
			return
		}
		v.uploadPct = pct
		line := fmt.Sprintf("%s %s %s / %s", label, v.bar.ViewAs(float64(pct)/100),
			humanize.IBytes(uint64(max(sent, 0))), humanize.IBytes(uint64(max(total, 0))))
		v.drawLocked(line)
	}
}

// Progress implements poller.Observer.
func (v *progressView) Progress(update poller.Update) {
	if v.sess != nil {
		v.sess.Observe(update.Progress, update.Message, update.Stalled)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	label := v.printer.T(messages.Processing)
	var tail []string
	if msg := strings.TrimSpace(update.Message); msg != "" {
		tail = append(tail, msg)
	}
	if update.Stalled {
		tail = append(tail, "("+v.printer.T(messages.StallHint)+")")
	}
	suffix := ""
	if len(tail) > 0 {
		suffix = "  " + strings.Join(tail, " ")
	}

	if v.live {
		v.drawLocked(fmt.Sprintf("%s %s %3.0f%%%s", label, v.bar.ViewAs(update.Progress/100), update.Progress, suffix))
		return
	}
	if v.sampler.ShouldLog(update.Progress, string(update.State)) {
		fmt.Fprintf(v.out, "%s %.0f%%%s\n", label, update.Progress, suffix)
	}
}

// PollError implements poller.Observer.
func (v *progressView) PollError(_ int, consecutive int, _ error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	line := v.printer.T(messages.PollRetrying, consecutive)
	if v.live {
		v.drawLocked(line)
		return
	}
	if consecutive == 1 {
		fmt.Fprintln(v.out, line)
	}
}

// Finish clears the live line.
func (v *progressView) Finish() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clearLocked()
}

func (v *progressView) drawLocked(line string) {
	fmt.Fprint(v.out, clearLine+line)
	v.drawn = true
}

func (v *progressView) clearLocked() {
	if v.drawn {
		fmt.Fprint(v.out, clearLine)
		v.drawn = false
	}
}
