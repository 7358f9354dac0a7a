package recover_test

import (
	"testing"

	"github.com/dpetro/untwister/prng"
	_ "github.com/dpetro/untwister/prng/glibcrand"
	_ "github.com/dpetro/untwister/prng/mt19937"
	_ "github.com/dpetro/untwister/prng/muslrand"
	"github.com/dpetro/untwister/recover"
)

func generate(t *testing.T, algorithm string, seed uint32, depth int) []uint32 {
	t.Helper()
	gen, err := prng.New(algorithm)
	if err != nil {
		t.Fatal(err)
	}
	gen.Seed(seed)
	out := make([]uint32, depth)
	for i := range out {
		out[i] = gen.Random()
	}
	return out
}

// S1: a small restricted seed space finds an exact seed at 100% confidence.
func TestFindSeedRecoversExactSeed(t *testing.T) {
	const seed = 1234
	observations := generate(t, "musl", seed, 10)

	candidates, err := recover.FindSeed(observations, recover.SeedSearchOptions{
		Algorithm:     "musl",
		Lower:         0,
		Upper:         10000,
		Depth:         10,
		Workers:       4,
		MinConfidence: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !containsSeed(candidates, seed, 100) {
		t.Fatalf("expected seed %d at 100%% confidence in %v", seed, candidates)
	}
}

// S2: a non-contiguous subsequence of the outputs still matches at 100%,
// per the monotone-but-skipping match policy (spec.md §4.4).
func TestFindSeedSubsequenceMatch(t *testing.T) {
	const seed = 1234
	full := generate(t, "musl", seed, 10)
	var sparse []uint32
	for _, idx := range []int{0, 2, 5, 9} {
		sparse = append(sparse, full[idx])
	}

	candidates, err := recover.FindSeed(sparse, recover.SeedSearchOptions{
		Algorithm:     "musl",
		Lower:         0,
		Upper:         10000,
		Depth:         10,
		Workers:       2,
		MinConfidence: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !containsSeed(candidates, seed, 100) {
		t.Fatalf("expected seed %d at 100%% confidence for sparse observations, got %v", seed, candidates)
	}
}

// S4: depth too shallow to cover the observations must not produce a false
// 100% match.
func TestFindSeedShallowDepthNoFalsePositive(t *testing.T) {
	const seed = 42
	observations := generate(t, "musl", seed, 20)

	candidates, err := recover.FindSeed(observations, recover.SeedSearchOptions{
		Algorithm:     "musl",
		Lower:         0,
		Upper:         1000,
		Depth:         5,
		Workers:       2,
		MinConfidence: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if containsSeed(candidates, seed, 100) {
		t.Fatalf("depth 5 should not be able to match 20 observations at 100%%, got %v", candidates)
	}
}

// S6: worker count must not change the final answer set.
func TestFindSeedThreadCountInvariant(t *testing.T) {
	const seed = 777
	observations := generate(t, "musl", seed, 8)

	one, err := recover.FindSeed(observations, recover.SeedSearchOptions{
		Algorithm: "musl", Lower: 0, Upper: 5000, Depth: 8, Workers: 1, MinConfidence: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	many, err := recover.FindSeed(observations, recover.SeedSearchOptions{
		Algorithm: "musl", Lower: 0, Upper: 5000, Depth: 8, Workers: 6, MinConfidence: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !sameCandidateSet(one, many) {
		t.Fatalf("worker count changed the answer set: %v vs %v", one, many)
	}
}

func TestFindSeedRejectsBadOptions(t *testing.T) {
	observations := []uint32{1, 2, 3}
	cases := []recover.SeedSearchOptions{
		{Algorithm: "musl", Lower: 0, Upper: 10, Depth: 0, Workers: 1, MinConfidence: 100},
		{Algorithm: "musl", Lower: 0, Upper: 10, Depth: 10, Workers: 0, MinConfidence: 100},
		{Algorithm: "musl", Lower: 0, Upper: 10, Depth: 10, Workers: 1, MinConfidence: 0},
		{Algorithm: "musl", Lower: 0, Upper: 10, Depth: 10, Workers: 1, MinConfidence: 101},
		{Algorithm: "nonexistent", Lower: 0, Upper: 10, Depth: 10, Workers: 1, MinConfidence: 100},
	}
	for _, opts := range cases {
		if _, err := recover.FindSeed(observations, opts); err == nil {
			t.Fatalf("expected error for options %+v", opts)
		}
	}
}

func TestFindSeedRejectsEmptyObservations(t *testing.T) {
	if _, err := recover.FindSeed(nil, recover.SeedSearchOptions{
		Algorithm: "musl", Lower: 0, Upper: 10, Depth: 10, Workers: 1, MinConfidence: 100,
	}); err == nil {
		t.Fatal("expected error for empty observations")
	}
}

// S5: fewer observations than state size must be reported as insufficient,
// not as an error.
func TestInferStateInsufficientObservations(t *testing.T) {
	result, err := recover.InferState([]uint32{1, 2}, "glibc")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Insufficient {
		t.Fatalf("expected Insufficient=true for 2 observations against glibc's 31-word state")
	}
}

func TestInferStateMT19937PerfectMatch(t *testing.T) {
	gen, err := prng.New("mt19937")
	if err != nil {
		t.Fatal(err)
	}
	gen.Seed(999)
	observations := make([]uint32, 624+50)
	for i := range observations {
		observations[i] = gen.Random()
	}

	result, err := recover.InferState(observations, "mt19937")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Matched {
		t.Fatalf("expected a perfect match for a clean mt19937 stream, got %+v", result)
	}
	if result.Confidence != 100 {
		t.Fatalf("expected confidence 100 on perfect match, got %v", result.Confidence)
	}
}

func containsSeed(candidates []prng.Candidate, seed uint32, confidence float64) bool {
	for _, c := range candidates {
		if c.Seed == seed && c.Confidence == confidence {
			return true
		}
	}
	return false
}

func sameCandidateSet(a, b []prng.Candidate) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[prng.Candidate]int)
	for _, c := range a {
		seen[c]++
	}
	for _, c := range b {
		seen[c]--
	}
	for _, count := range seen {
		if count != 0 {
			return false
		}
	}
	return true
}
