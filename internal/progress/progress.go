// Package progress renders pipeline progress on stderr.
package progress

import (
	"fmt"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar for one pipeline stage.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
}

// NewTracker creates a progress bar with the given label and total count.
func NewTracker(label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label}
}

// Set moves the bar to an absolute position. Safe for concurrent use.
func (t *Tracker) Set(current int) {
	t.bar.Set(current)
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *Tracker) Tick() {
	t.bar.Add(1)
}

// FinishSuccess clears the bar completely (no output).
func (t *Tracker) FinishSuccess() {
	t.bar.Finish()
	t.bar.Clear()
}

// FinishError clears the bar and prints an error message to stderr.
func (t *Tracker) FinishError(err error) {
	t.bar.Finish()
	t.bar.Clear()
	fmt.Fprintf(os.Stderr, "  %s error: %v\n", t.label, err)
}

// Console adapts pipeline progress events onto per-stage progress bars.
// Events arrive as {stage, current, total}; a new bar starts whenever
// the stage name changes.
type Console struct {
	mu      sync.Mutex
	current *Tracker
	stage   string
	quiet   bool
}

// NewConsole creates a console progress consumer. With quiet set, all
// events are dropped.
func NewConsole(quiet bool) *Console {
	return &Console{quiet: quiet}
}

// Report consumes one progress event. Matches the pipeline.ProgressFunc
// signature.
func (c *Console) Report(stage string, current, total int, detail string) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if stage != c.stage {
		if c.current != nil {
			c.current.FinishSuccess()
		}
		label := stage
		if detail != "" {
			label = fmt.Sprintf("%s (%s)", stage, detail)
		}
		c.current = NewTracker(label, total)
		c.stage = stage
	}
	if c.current != nil {
		c.current.Set(current)
	}
}

// Close finishes any in-flight bar.
func (c *Console) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.FinishSuccess()
		c.current = nil
	}
}
