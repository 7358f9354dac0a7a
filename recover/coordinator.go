package recover

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/dpetro/untwister/prng"
)

// SeedSearchOptions configures a brute-force seed search (C6).
type SeedSearchOptions struct {
	Algorithm     string
	Lower, Upper  uint32 // seed space [Lower, Upper)
	Depth         int
	Workers       int
	MinConfidence float64
	Progress      io.Writer // where the progress line is printed; nil disables it
}

// FindSeed spawns Workers brute-force workers over [Lower, Upper), plus one
// progress reporter, joins them, and returns every candidate they collected
// in worker-then-insertion order (spec.md §4.6). Duplicate seeds across
// workers cannot occur because intervals are disjoint, so no deduplication
// is performed.
func FindSeed(observations []uint32, opts SeedSearchOptions) ([]prng.Candidate, error) {
	if len(observations) == 0 {
		return nil, fmt.Errorf("recover: observations must be non-empty")
	}
	if opts.Depth <= 0 {
		return nil, fmt.Errorf("recover: depth must be positive, got %d", opts.Depth)
	}
	if opts.Workers <= 0 {
		return nil, fmt.Errorf("recover: workers must be positive, got %d", opts.Workers)
	}
	if opts.MinConfidence <= 0 || opts.MinConfidence > 100 {
		return nil, fmt.Errorf("recover: min confidence must be in (0, 100], got %v", opts.MinConfidence)
	}
	if _, err := prng.New(opts.Algorithm); err != nil {
		return nil, err
	}
	newPRNG := func() prng.PRNG { return prng.MustNew(opts.Algorithm) }

	intervals := Partition(opts.Lower, opts.Upper, opts.Workers)

	var completed atomic.Bool
	counters := make([]*atomic.Uint32, opts.Workers)
	for i := range counters {
		counters[i] = new(atomic.Uint32)
	}
	answers := make([][]prng.Candidate, opts.Workers)

	progressOut := opts.Progress
	if progressOut == nil {
		progressOut = io.Discard
	}
	reporter := NewProgressReporter(progressOut, counters, opts.Upper-opts.Lower, &completed)
	reporterDone := make(chan struct{})
	go func() {
		reporter.Run()
		close(reporterDone)
	}()

	var wg sync.WaitGroup
	wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		i := i
		go func() {
			defer wg.Done()
			answers[i] = bruteForce(newPRNG, observations, opts.MinConfidence, opts.Depth, intervals[i], &completed, counters[i])
		}()
	}
	wg.Wait()

	completed.Store(true)
	<-reporterDone

	var out []prng.Candidate
	for _, a := range answers {
		out = append(out, a...)
	}
	return out, nil
}
