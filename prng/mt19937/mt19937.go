// Package mt19937 implements a 32-bit Mersenne Twister, registered under
// the name "mt19937".
//
// The generator and its tempering step are grounded in
// dullgiulio-cryptopals-challenge/set3/21-marsenne-twister; the untempering
// used by Tune is grounded in .../set3/23-mt-crack, credited there to
// Fred Akalin's cryptopals-python3.
package mt19937

import "github.com/dpetro/untwister/prng"

const (
	n = 624
	m = 397

	matrixA   = 0x9908b0df
	upperMask = 0x80000000
	lowerMask = 0x7fffffff
)

func init() {
	prng.Register("mt19937", func() prng.PRNG { return New() })
}

// MT19937 is a 32-bit Mersenne Twister with a 624-word state.
type MT19937 struct {
	seed     uint32
	seeded   bool
	state    [n]uint32
	index    int
	evidence []uint32
	tuned    bool
}

// New returns an unseeded MT19937 generator with index parked at n so the
// first Random() call twists before producing output.
func New() *MT19937 {
	return &MT19937{index: n}
}

func (t *MT19937) Name() string { return "mt19937" }

func (t *MT19937) Seed(value uint32) {
	t.seed = value
	t.seeded = true
	t.state[0] = value
	for i := 1; i < n; i++ {
		t.state[i] = 1812433253*(t.state[i-1]^(t.state[i-1]>>30)) + uint32(i)
	}
	t.index = n
}

func (t *MT19937) GetSeed() uint32 {
	if !t.seeded {
		return 0
	}
	return t.seed
}

func (t *MT19937) twist() {
	for i := 0; i < n; i++ {
		y := (t.state[i] & upperMask) + (t.state[(i+1)%n] & lowerMask)
		x := y >> 1
		if y&1 != 0 {
			x ^= matrixA
		}
		t.state[i] = t.state[(i+m)%n] ^ x
	}
	t.index = 0
}

func temper(y uint32) uint32 {
	y ^= y >> 11
	y ^= (y << 7) & 2636928640
	y ^= (y << 15) & 4022730752
	y ^= y >> 18
	return y
}

// untemper inverts temper. Grounded in set3/23-mt-crack's undoRightShiftXor
// / undoLeftShiftXorAnd, credited there to Fred Akalin's cryptopals-python3.
func untemper(y uint32) uint32 {
	y = undoRightShiftXor(y, 18)
	y = undoLeftShiftXorAnd(y, 15, 4022730752)
	y = undoLeftShiftXorAnd(y, 7, 2636928640)
	y = undoRightShiftXor(y, 11)
	return y
}

func getMSB(x, i uint32) uint32  { return (x >> (31 - i)) & 1 }
func setMSB(x, i, b uint32) uint32 { return x | (b << (31 - i)) }
func getLSB(x, i uint32) uint32  { return (x >> i) & 1 }
func setLSB(x, i, b uint32) uint32 { return x | (b << i) }

func undoRightShiftXor(y, s uint32) uint32 {
	z := uint32(0)
	for i := uint32(0); i < 32; i++ {
		z = setMSB(z, i, getMSB(y, i)^getMSB(z, i-s))
	}
	return z
}

func undoLeftShiftXorAnd(y, s, k uint32) uint32 {
	z := uint32(0)
	for i := uint32(0); i < 32; i++ {
		z = setLSB(z, i, getLSB(y, i)^(getLSB(z, i-s)&getLSB(k, i)))
	}
	return z
}

func (t *MT19937) Random() uint32 {
	if t.index >= n {
		t.twist()
	}
	y := temper(t.state[t.index])
	t.index++
	return y
}

func (t *MT19937) StateSize() int { return n }

// SetState installs words directly as the raw twister array, padding with
// zeros if short and truncating if long, then parks index at n so the next
// Random() twists from there.
func (t *MT19937) SetState(words []uint32) {
	t.seeded = false
	var padded [n]uint32
	copy(padded[:], words)
	t.state = padded
	t.index = n
	t.tuned = false
}

func (t *MT19937) GetState() []uint32 {
	out := make([]uint32, n)
	copy(out, t.state[:])
	return out
}

func (t *MT19937) SetEvidence(observations []uint32) {
	t.evidence = observations
}

// Tune corrects a state installed via SetState from a window of observed
// values: the only thing ever observable from this generator is tempered
// output, never the raw twister array, so the state-inference engine's
// "install the window as a hypothesized state" step (spec.md §4.7) hands
// SetState tempered words. Tune untempers them in place to recover the
// actual raw state before prediction. Called at most once per SetState.
func (t *MT19937) Tune(evidenceForward, evidenceBackward []uint32) {
	if t.tuned {
		return
	}
	for i := range t.state {
		t.state[i] = untemper(t.state[i])
	}
	t.tuned = true
}

func (t *MT19937) PredictForward(count int) []uint32 {
	out := make([]uint32, count)
	for i := 0; i < count; i++ {
		out[i] = t.Random()
	}
	return out
}

// PredictBackward is a no-op: untwisting the recurrence to recover earlier
// raw state words isn't attempted here.
func (t *MT19937) PredictBackward(n int) []uint32 {
	return nil
}

// ReverseToSeed is a no-op: recovering the 32-bit seed whose expansion
// produced an arbitrary 624-word state isn't attempted here.
func (t *MT19937) ReverseToSeed(maxIter int) (uint32, bool) {
	return 0, false
}
