package recover

import (
	"sync/atomic"

	"github.com/dpetro/untwister/prng"
)

// bruteForce tests every seed in interval against observations using a
// freshly-seeded generator from newPRNG, exactly as spec.md §4.4 describes:
// the match cursor is monotone but tolerates intervening non-matches (a
// subsequence match, not a contiguous prefix match), so an unknown offset
// into the generator's stream doesn't prevent a match. It cooperatively
// halts between seed attempts when completed has been set by any worker,
// and sets completed itself on a perfect match so siblings stop too.
//
// interval.End is exclusive (matching Partition's half-open convention);
// this sidesteps the overflow that an inclusive `seed <= end` loop would
// hit when end is the maximum uint32 value.
func bruteForce(newPRNG func() prng.PRNG, observations []uint32, minConfidence float64, depth int, interval Interval, completed *atomic.Bool, progress *atomic.Uint32) []prng.Candidate {
	var answers []prng.Candidate
	gen := newPRNG()
	total := len(observations)

	for s := interval.Start; s < interval.End; s++ {
		gen.Seed(s)

		matches := 0
		for step := 0; step < depth; step++ {
			if gen.Random() == observations[matches] {
				matches++
				if matches == total {
					break
				}
			}
		}

		if completed.Load() {
			break
		}

		progress.Store(s - interval.Start)

		confidence := 100.0 * float64(matches) / float64(total)
		if confidence >= minConfidence {
			answers = append(answers, prng.Candidate{Seed: s, Confidence: confidence})
		}
		if matches == total {
			completed.Store(true)
		}
	}

	return answers
}
