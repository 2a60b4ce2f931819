package progress

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/bridge/internal/domain"
	"github.com/trebuchet-org/bridge/internal/usecase"
)

// SpinnerProgressReporter shows per-network deployment progress behind a spinner.
// Events arrive from both network goroutines, so all state is guarded by mu.
type SpinnerProgressReporter struct {
	mu       sync.Mutex
	out      io.Writer
	spinner  *spinner.Spinner
	networks map[domain.Network]string
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		out:      out,
		spinner:  s,
		networks: make(map[domain.Network]string),
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.Stage {
	case usecase.StageSubmitting:
		r.networks[event.Network] = color.New(color.FgYellow).Sprint("submitting")
	case usecase.StageConfirming:
		r.networks[event.Network] = color.New(color.FgYellow).Sprintf("%d/%d confirmations", event.Current, event.Total)
	case usecase.StageConfirmed:
		r.networks[event.Network] = color.New(color.FgGreen).Sprint("✓ confirmed")
		r.println(color.New(color.FgGreen), event.Message)
	case usecase.StageCompleted:
		r.spinner.Stop()
		return
	}

	if event.Spinner && !r.spinner.Active() {
		r.spinner.Start()
	}
	r.spinner.Suffix = " " + r.display()
}

// Stop halts the spinner, if running
func (r *SpinnerProgressReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spinner.Stop()
}

// println prints above the spinner; callers hold mu
func (r *SpinnerProgressReporter) println(c *color.Color, message string) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// display renders the status of every network in deployment order
func (r *SpinnerProgressReporter) display() string {
	parts := make([]string, 0, len(domain.Networks))
	for _, network := range domain.Networks {
		status, ok := r.networks[network]
		if !ok {
			status = color.New(color.Faint).Sprint("pending")
		}
		parts = append(parts, fmt.Sprintf("%s: %s", network, status))
	}
	return strings.Join(parts, " · ")
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
