// Package prng defines the capability contract that the recovery engine is
// built against, and a registry of concrete generators.
package prng

// PRNG is the uniform contract every supported generator implements. Most
// operations are mandatory (Name, Seed, GetSeed, Random, StateSize,
// SetState, GetState); the rest are best-effort hints some algorithms can't
// honor, and implementations are expected to return the zero value (empty
// slice, false) rather than panic when they can't.
type PRNG interface {
	// Name returns the registry identifier for this generator.
	Name() string

	// Seed installs a 32-bit seed, replacing internal state deterministically.
	Seed(value uint32)

	// GetSeed returns the last seed passed to Seed, or 0 if Seed was never called.
	GetSeed() uint32

	// Random advances state and returns the next output word.
	Random() uint32

	// StateSize is the number of 32-bit words that fully describe this
	// generator's internal state.
	StateSize() int

	// SetState installs the given words as internal state, bypassing Seed.
	// Shorter inputs are right-padded with zeros; longer inputs are
	// truncated to the first StateSize words.
	SetState(words []uint32)

	// GetState returns a snapshot of the current internal state.
	GetState() []uint32

	// SetEvidence provides the full observation sequence for algorithms
	// that need more context than a single window during Tune. Default
	// implementations may ignore it.
	SetEvidence(observations []uint32)

	// Tune lets an algorithm adjust internal parameters using the
	// observations on either side of a hypothesized state window. A no-op
	// for algorithms that don't need it.
	Tune(evidenceForward, evidenceBackward []uint32)

	// PredictForward returns the next n outputs the generator would
	// produce from its current state. Callers must treat state as
	// undefined after the call; obtain a fresh instance for independent
	// predictions.
	PredictForward(n int) []uint32

	// PredictBackward returns the previous n outputs the generator would
	// have produced to reach its current state, most recent first.
	PredictBackward(n int) []uint32

	// ReverseToSeed attempts to invert the current state back to a seed.
	// maxIter bounds the search. Returns false if inversion isn't possible
	// or doesn't converge within the bound.
	ReverseToSeed(maxIter int) (uint32, bool)
}

// Candidate is a recovered seed paired with how much of the observation
// sequence it reproduces, in (0, 100].
type Candidate struct {
	Seed       uint32
	Confidence float64
}

// BruteForceReverseToSeed is the fallback ReverseToSeed strategy for
// generators with no closed-form state inversion: reseed a scratch instance
// with each candidate in [0, maxIter) and compare its resulting state
// against target. new must return a fresh, unseeded instance of the same
// algorithm as the one target's state came from.
func BruteForceReverseToSeed(new func() PRNG, target []uint32, maxIter int) (uint32, bool) {
	for candidate := 0; candidate < maxIter; candidate++ {
		scratch := new()
		scratch.Seed(uint32(candidate))
		if statesEqual(scratch.GetState(), target) {
			return uint32(candidate), true
		}
	}
	return 0, false
}

func statesEqual(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
