// Package muslrand implements musl libc's random number generator, a
// 64-bit linear congruential generator, registered under the name "musl".
//
// Derived from musl's src/prng/rand.c (see rand/musl in this module's
// history). Unlike orbicfg's original package-level global, state lives on
// a struct so the recovery engine can give each worker its own private
// instance, per spec.
package muslrand

import "github.com/dpetro/untwister/prng"

const (
	multiplier uint64 = 6364136223846793005
	increment  uint64 = 1
)

func init() {
	prng.Register("musl", func() prng.PRNG { return New() })
}

// Musl is musl libc's rand()/random() generator. Its full internal state is
// a 64-bit integer, represented here as two 32-bit words (high, low).
type Musl struct {
	seed   uint32
	seeded bool
	state  uint64
}

// New returns an unseeded Musl generator.
func New() *Musl {
	return &Musl{}
}

func (m *Musl) Name() string { return "musl" }

func (m *Musl) Seed(value uint32) {
	m.seed = value
	m.seeded = true
	m.state = uint64(value - 1)
}

func (m *Musl) GetSeed() uint32 {
	if !m.seeded {
		return 0
	}
	return m.seed
}

func (m *Musl) Random() uint32 {
	m.state = multiplier*m.state + increment
	return uint32(m.state >> 33)
}

func (m *Musl) StateSize() int { return 2 }

// SetState installs the given words as the high/low halves of the 64-bit
// state. Padding matches prng.PRNG's general contract: short inputs are
// zero-padded, long ones truncated to the first StateSize words.
func (m *Musl) SetState(words []uint32) {
	m.seeded = false
	var hi, lo uint32
	if len(words) > 0 {
		hi = words[0]
	}
	if len(words) > 1 {
		lo = words[1]
	}
	m.state = uint64(hi)<<32 | uint64(lo)
}

func (m *Musl) GetState() []uint32 {
	return []uint32{uint32(m.state >> 32), uint32(m.state)}
}

func (m *Musl) SetEvidence(observations []uint32) {}

func (m *Musl) Tune(evidenceForward, evidenceBackward []uint32) {}

func (m *Musl) PredictForward(n int) []uint32 {
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = m.Random()
	}
	return out
}

// PredictBackward inverts the LCG step using the jump-ahead-by-negative-one
// technique (see advanceLCG64): since the multiplier is odd it has a
// well-defined modular inverse mod 2^64, so the step is exactly invertible.
func (m *Musl) PredictBackward(n int) []uint32 {
	out := make([]uint32, n)
	state := m.state
	for i := 0; i < n; i++ {
		state = advanceLCG64(state, negativeOne, multiplier, increment)
		out[i] = uint32(state >> 33)
	}
	return out
}

// ReverseToSeed falls back to brute force: only the upper 31 bits of state
// are ever observed as output, so the seed can't be recovered in closed
// form from an arbitrary window.
func (m *Musl) ReverseToSeed(maxIter int) (uint32, bool) {
	return prng.BruteForceReverseToSeed(func() prng.PRNG { return New() }, m.GetState(), maxIter)
}

// negativeOne is -1 mod 2^64, i.e. the "jump back one step" delta.
const negativeOne uint64 = 0xFFFFFFFFFFFFFFFF

// advanceLCG64 jumps an LCG state ahead (or behind, via a negative/wrapped
// delta) by delta steps without iterating, using the standard doubling
// technique for composing LCG jumps. Adapted from the PCG32 Advance/Retreat
// implementation (github.com/MichaelTJones/pcg via addrummond/iskiplist).
func advanceLCG64(state, delta, curMult, curPlus uint64) uint64 {
	accMult := uint64(1)
	accPlus := uint64(0)
	for delta > 0 {
		if delta&1 != 0 {
			accMult *= curMult
			accPlus = accPlus*curMult + curPlus
		}
		curPlus = (curMult + 1) * curPlus
		curMult *= curMult
		delta /= 2
	}
	return accMult*state + accPlus
}
