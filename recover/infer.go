package recover

import (
	"fmt"

	"github.com/dpetro/untwister/prng"
)

// InferResult is the outcome of a state-inference search (spec.md §4.7).
type InferResult struct {
	// Insufficient is true when there were too few observations to run
	// inference at all (n <= state size); the caller should fall back to
	// brute force without treating this as an error.
	Insufficient bool

	// Matched is true when some window produced a perfect match over the
	// remaining evidence.
	Matched bool

	// HasSeed is true when a perfect match's state was successfully
	// reversed to a seed; Seed is only meaningful when this is set.
	HasSeed bool
	Seed    uint32

	// State is the recovered state: either the perfect-match state (when
	// Matched but !HasSeed) or the best-scoring state seen across all
	// windows (when !Matched and Confidence > 0).
	State []uint32

	// Confidence is 100 for a perfect match, the best window's score
	// otherwise, or 0 if no window scored above zero.
	Confidence float64
}

// InferState slides a window the size of the algorithm's internal state
// across observations, scoring each window's forward and backward
// predictions against the rest of the sequence, per spec.md §4.7. Windows
// are tried in ascending start index; it returns as soon as one produces a
// perfect match, attempting to reverse that state to a seed first.
//
// The backward-scoring loop intentionally never tests index 0 (guard is
// `o > 0`, not `o >= 0`) — this mirrors the original tool's behavior rather
// than "fixing" what may or may not be a one-off bug; see DESIGN.md.
func InferState(observations []uint32, algorithm string) (InferResult, error) {
	probe, err := prng.New(algorithm)
	if err != nil {
		return InferResult{}, err
	}
	k := probe.StateSize()
	n := len(observations)

	if n <= k {
		return InferResult{Insufficient: true}, nil
	}

	var (
		highscore float64
		bestState []uint32
	)

	for i := 0; i < n-k; i++ {
		gen, err := prng.New(algorithm)
		if err != nil {
			return InferResult{}, err
		}

		window := append([]uint32(nil), observations[i:i+k]...)
		evidenceForward := observations[:i]
		evidenceBackward := observations[i+k+1 : n]

		gen.SetState(window)
		gen.SetEvidence(observations)
		gen.Tune(evidenceForward, evidenceBackward)

		predictionsForward := gen.PredictForward(n - k - i)
		predictionsBackward := gen.PredictBackward(i)

		matches := 0

		obsIdx, predIdx := i+k, 0
		for obsIdx < n && predIdx < len(predictionsForward) {
			if observations[obsIdx] == predictionsForward[predIdx] {
				matches++
				obsIdx++
			}
			predIdx++
		}

		obsIdx, predIdx = i, 0
		for obsIdx > 0 && predIdx < len(predictionsBackward) {
			if observations[obsIdx] == predictionsBackward[predIdx] {
				matches++
				obsIdx--
			}
			predIdx++
		}

		if matches == n-k {
			if seed, ok := gen.ReverseToSeed(10000); ok {
				return InferResult{Matched: true, HasSeed: true, Seed: seed, Confidence: 100}, nil
			}
			return InferResult{Matched: true, State: gen.GetState(), Confidence: 100}, nil
		}

		score := 100 * float64(matches) / float64(n-k)
		if score > highscore {
			highscore = score
			bestState = gen.GetState()
		}
	}

	if highscore > 0 {
		return InferResult{State: bestState, Confidence: highscore}, nil
	}
	return InferResult{Confidence: 0}, nil
}

// String renders a human-readable summary line, used by the CLI.
func (r InferResult) String() string {
	switch {
	case r.Insufficient:
		return "not enough observations for state inference"
	case r.Matched && r.HasSeed:
		return fmt.Sprintf("found seed %d (state inference)", r.Seed)
	case r.Matched:
		return fmt.Sprintf("found state (state inference): %v", r.State)
	case r.Confidence > 0:
		return fmt.Sprintf("best state guess, confidence %.1f%%: %v", r.Confidence, r.State)
	default:
		return "state inference failed"
	}
}
