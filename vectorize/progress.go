package vectorize

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports how far a long vectorize run has come. It is
// sized up front with the number of due tasks and prints a line each time
// at least reportInterval more tasks finish.
type ProgressTracker struct {
	mu sync.Mutex

	writer         io.Writer
	total          int
	reportInterval int

	done       int
	lastReport int
	begun      time.Time
	running    bool
}

// NewProgressTracker creates a tracker writing to writer, typically
// os.Stderr. A reportInterval of 1 reports after every task.
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start resets counters and begins timing.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.begun = time.Now()
	p.running = true
	p.done = 0
	p.lastReport = 0
}

// Increment records delta more finished tasks, reporting when due.
func (p *ProgressTracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running || delta <= 0 {
		return
	}
	p.done += delta
	if p.done >= p.lastReport+p.reportInterval {
		p.report()
		p.lastReport = p.done
	}
}

// Finish prints a closing summary and stops the tracker.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	elapsed := time.Since(p.begun).Round(time.Millisecond)
	fmt.Fprintf(p.writer, "done: %d of %d tasks embedded in %s\n", p.done, p.total, elapsed)
	p.running = false
}

// Elapsed returns the time since Start. Zero before Start is called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.begun.IsZero() {
		return 0
	}
	return time.Since(p.begun)
}

// report writes one progress line. Caller holds the lock.
func (p *ProgressTracker) report() {
	elapsed := time.Since(p.begun)
	rate := 0.0
	if seconds := elapsed.Seconds(); seconds > 0 {
		rate = float64(p.done) / seconds
	}
	fmt.Fprintf(p.writer, "embedded %d/%d tasks (%.1f/s)\n", p.done, p.total, rate)
}
