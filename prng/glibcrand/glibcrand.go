// Package glibcrand implements the uClibc/glibc TYPE_3 additive feedback
// generator behind the platform random()/rand() family, registered under
// the name "glibc".
//
// Derived from uClibc's random.c/random_r.c (see uclibc/rand in this
// module's history); this is the algorithm orbicfg's firmware targets
// actually use to seed their config keystream, and the reference PRNG
// spec.md §6 describes at the contract level.
package glibcrand

import "github.com/dpetro/untwister/prng"

const (
	deg = 31
	sep = 3
)

var randtbl = [deg]int32{
	-1726662223, 379960547, 1735697613, 1040273694, 1313901226,
	1627687941, -179304937, -2073333483, 1780058412, -1989503057,
	-615974602, 344556628, 939512070, -1249116260, 1507946756,
	-812545463, 154635395, 1388815473, -1926676823, 525320961,
	-1009028674, 968117788, -123449607, 1284210865, 435012392,
	-2017506339, -911064859, -370259173, 1132637927, 1398500161,
	-205601318,
}

func init() {
	prng.Register("glibc", func() prng.PRNG { return New() })
}

// Glibc is a TYPE_3 additive feedback generator with a 31-word state table.
type Glibc struct {
	seed     uint32
	seeded   bool
	frontIdx int
	rearIdx  int
	state    [deg]int32
}

// New returns an unseeded Glibc generator.
func New() *Glibc {
	return &Glibc{}
}

func (g *Glibc) Name() string { return "glibc" }

func (g *Glibc) Seed(value uint32) {
	g.seed = value
	g.seeded = true
	g.state = randtbl

	word := int64(value)
	if word == 0 {
		word = 1
	}
	g.state[0] = int32(word)
	for i := 1; i < deg; i++ {
		hi := word / 127773
		lo := word % 127773
		word = 16807*lo - 2836*hi
		if word < 0 {
			word += 2147483647
		}
		g.state[i] = int32(word)
	}

	g.frontIdx = sep
	g.rearIdx = 0
	for i := 0; i < deg*10; i++ {
		g.step()
	}
}

func (g *Glibc) GetSeed() uint32 {
	if !g.seeded {
		return 0
	}
	return g.seed
}

func (g *Glibc) Random() uint32 {
	return uint32(g.step())
}

func (g *Glibc) step() int32 {
	val := g.state[g.frontIdx] + g.state[g.rearIdx]
	g.state[g.frontIdx] = val
	result := (val >> 1) & 0x7fffffff

	g.frontIdx++
	if g.frontIdx >= deg {
		g.frontIdx = 0
		g.rearIdx++
	} else {
		g.rearIdx++
		if g.rearIdx >= deg {
			g.rearIdx = 0
		}
	}
	return result
}

func (g *Glibc) StateSize() int { return deg }

// SetState installs the given words as the state table, padding with zeros
// if short and truncating if long, and resets frontIdx/rearIdx to (sep, 0).
// Words are placed so that this is the exact inverse of GetState: the
// table is a circular buffer and frontIdx/rearIdx always advance in
// lockstep (their separation mod deg is always sep), so GetState exports
// the table rotated relative to the current frontIdx and SetState installs
// it back at the same relative rotation, making set_state(get_state()) a
// true no-op for the next Random().
func (g *Glibc) SetState(words []uint32) {
	g.seeded = false
	var padded [deg]int32
	for j := 0; j < deg; j++ {
		if j < len(words) {
			padded[(sep+j)%deg] = int32(words[j])
		}
	}
	g.state = padded
	g.frontIdx = sep
	g.rearIdx = 0
}

func (g *Glibc) GetState() []uint32 {
	out := make([]uint32, deg)
	for j := 0; j < deg; j++ {
		out[j] = uint32(g.state[(g.frontIdx+j)%deg])
	}
	return out
}

func (g *Glibc) SetEvidence(observations []uint32) {}

func (g *Glibc) Tune(evidenceForward, evidenceBackward []uint32) {}

func (g *Glibc) PredictForward(n int) []uint32 {
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = g.Random()
	}
	return out
}

// PredictBackward is a no-op: the additive feedback recurrence
// state[front] += state[rear] has no closed-form inverse.
func (g *Glibc) PredictBackward(n int) []uint32 {
	return nil
}

// ReverseToSeed falls back to brute force: the recurrence can't be inverted
// in closed form.
func (g *Glibc) ReverseToSeed(maxIter int) (uint32, bool) {
	return prng.BruteForceReverseToSeed(func() prng.PRNG { return New() }, g.GetState(), maxIter)
}
