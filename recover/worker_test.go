package recover

import (
	"sync/atomic"
	"testing"

	"github.com/dpetro/untwister/prng"
)

// lcgStub is a minimal deterministic generator for worker-level unit tests
// that don't need a full registered algorithm: Random() just returns the
// seed plus a step counter, so seed N's k-th output is N+k.
type lcgStub struct {
	seed uint32
	step uint32
}

func (s *lcgStub) Name() string                            { return "stub" }
func (s *lcgStub) Seed(v uint32)                            { s.seed = v; s.step = 0 }
func (s *lcgStub) GetSeed() uint32                          { return s.seed }
func (s *lcgStub) Random() uint32                           { out := s.seed + s.step; s.step++; return out }
func (s *lcgStub) StateSize() int                           { return 1 }
func (s *lcgStub) SetState(words []uint32)                  {}
func (s *lcgStub) GetState() []uint32                       { return []uint32{s.seed} }
func (s *lcgStub) SetEvidence(observations []uint32)        {}
func (s *lcgStub) Tune(forward, backward []uint32)          {}
func (s *lcgStub) PredictForward(n int) []uint32            { return nil }
func (s *lcgStub) PredictBackward(n int) []uint32           { return nil }
func (s *lcgStub) ReverseToSeed(maxIter int) (uint32, bool) { return 0, false }

func TestBruteForceFindsExactSeed(t *testing.T) {
	// seed 10 produces 10,11,12,... At depth 3 it is the only seed whose
	// outputs contain all three observations; a deeper search would also
	// accept seed 8 (8,9,10,11,12) under the subsequence match policy and
	// stop the scan there.
	observations := []uint32{10, 11, 12}
	var completed atomic.Bool
	var progress atomic.Uint32

	answers := bruteForce(func() prng.PRNG { return &lcgStub{} }, observations, 100, 3, Interval{Start: 0, End: 20}, &completed, &progress)

	found := false
	for _, a := range answers {
		if a.Seed == 10 && a.Confidence == 100 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected seed 10 at 100%% confidence, got %v", answers)
	}
	if !completed.Load() {
		t.Fatal("completed flag should be set after a perfect match")
	}
}

func TestBruteForceStopsOnCompletedFlag(t *testing.T) {
	observations := []uint32{999999} // unreachable within depth
	var completed atomic.Bool
	completed.Store(true)
	var progress atomic.Uint32

	answers := bruteForce(func() prng.PRNG { return &lcgStub{} }, observations, 100, 5, Interval{Start: 0, End: 1000}, &completed, &progress)
	if len(answers) != 0 {
		t.Fatalf("expected no answers when starting with completed already set, got %v", answers)
	}
	if progress.Load() != 0 {
		t.Fatalf("progress should not advance once completed is already set, got %d", progress.Load())
	}
}

func TestBruteForceProgressNeverExceedsIntervalLength(t *testing.T) {
	observations := []uint32{999999}
	var completed atomic.Bool
	var progress atomic.Uint32

	interval := Interval{Start: 100, End: 150}
	bruteForce(func() prng.PRNG { return &lcgStub{} }, observations, 100, 2, interval, &completed, &progress)

	if progress.Load() >= interval.Len() {
		t.Fatalf("progress %d should be < interval length %d", progress.Load(), interval.Len())
	}
}

func TestBruteForceMinConfidenceFiltersAnswers(t *testing.T) {
	observations := []uint32{10, 999999} // only first output ever matches
	var completed atomic.Bool
	var progress atomic.Uint32

	answers := bruteForce(func() prng.PRNG { return &lcgStub{} }, observations, 60, 3, Interval{Start: 0, End: 20}, &completed, &progress)
	for _, a := range answers {
		if a.Confidence < 60 {
			t.Fatalf("answer %+v below min confidence 60", a)
		}
	}
}
