package recover

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

const reportInterval = 150 * time.Millisecond

// ProgressReporter aggregates per-worker progress counters and prints a
// single overwriting status line with percent complete and elapsed time,
// roughly every 150ms, per spec.md §4.5. It latches completed to true once
// the aggregate reaches 100% and never blocks the workers it's watching —
// it only ever reads their counters.
type ProgressReporter struct {
	out       io.Writer
	counters  []*atomic.Uint32
	total     uint32
	completed *atomic.Bool
}

// NewProgressReporter builds a reporter over the given per-worker counters
// and the total size of work they're dividing.
func NewProgressReporter(out io.Writer, counters []*atomic.Uint32, total uint32, completed *atomic.Bool) *ProgressReporter {
	return &ProgressReporter{out: out, counters: counters, total: total, completed: completed}
}

// Run blocks, printing status until completed is set (by this reporter
// reaching 100%, or by a worker finding a perfect match). Call it in its
// own goroutine.
func (r *ProgressReporter) Run() {
	if r.total == 0 {
		r.completed.Store(true)
		return
	}

	start := time.Now()
	for !r.completed.Load() {
		var sum uint64
		for _, c := range r.counters {
			sum += uint64(c.Load())
		}
		percent := 100 * float64(sum) / float64(r.total)
		if percent >= 100 {
			r.completed.Store(true)
		}
		fmt.Fprintf(r.out, "\rProgress: %.1f%% (%ds)", percent, int(time.Since(start).Seconds()))
		time.Sleep(reportInterval)
	}
	fmt.Fprint(r.out, "\r")
}
