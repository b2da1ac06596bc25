package util

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// TerminalPrinter periodically flushes a set of per-worker output lines to
// the terminal on a single live-updating region.
type TerminalPrinter struct {
	outputs   []*ProgressLine
	frequency time.Duration
	doneCh    chan struct{}

	writer  *uilive.Writer
	writers []io.Writer
}

func NewTerminalPrinter(frequency time.Duration) *TerminalPrinter {
	return &TerminalPrinter{
		outputs:   make([]*ProgressLine, 0),
		frequency: frequency,
		doneCh:    make(chan struct{}),

		writer:  uilive.New(),
		writers: make([]io.Writer, 0),
	}
}

// NewLine allocates one live line. All lines must be allocated before Start.
func (t *TerminalPrinter) NewLine() *ProgressLine {
	out := NewProgressLine()
	t.outputs = append(t.outputs, out)
	t.writers = append(t.writers, t.writer.Newline())
	return out
}

// Start runs the refresh loop until Stop or ctx cancellation. The printer
// drives uilive by flushing directly, so there is no writer-side loop to
// stop; the goroutine just returns.
func (t *TerminalPrinter) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-t.doneCh:
				return
			case <-ctx.Done():
				return
			case <-time.After(t.frequency):
				t.print()
			}
		}
	}()
}

func (t *TerminalPrinter) Stop() {
	t.print()
	close(t.doneCh)
}

func (t *TerminalPrinter) print() {
	for i, output := range t.outputs {
		fmt.Fprint(t.writers[i], output.Get()+"\n")
	}
	t.writer.Flush()
}

// ProgressLine is a mutex-guarded string updated by a worker and read by the
// printer goroutine.
type ProgressLine struct {
	mu        *sync.Mutex
	printable string
}

func NewProgressLine() *ProgressLine {
	return &ProgressLine{
		mu: new(sync.Mutex),
	}
}

// Set updates the line (blocking).
func (p *ProgressLine) Set(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printable = s
}

// TrySet updates the line only if the printer is not reading it.
func (p *ProgressLine) TrySet(s string) bool {
	if !p.mu.TryLock() {
		return false
	}
	defer p.mu.Unlock()
	p.printable = s
	return true
}

func (p *ProgressLine) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printable
}
