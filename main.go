package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/dpetro/untwister/prng"
	_ "github.com/dpetro/untwister/prng/glibcrand"
	_ "github.com/dpetro/untwister/prng/mt19937"
	_ "github.com/dpetro/untwister/prng/muslrand"
	"github.com/dpetro/untwister/recover"
)

const yearInSeconds = 365 * 24 * 60 * 60

func main() {
	l := log.New(os.Stderr, "", 0)

	inputFile := flag.String("i", "", "observation file (required unless -g)")
	depth := flag.Int("d", 1000, "depth per seed attempt")
	algorithm := flag.String("r", "", fmt.Sprintf("PRNG name (default %q)", prng.Default()))
	genSeed := flag.String("g", "", "generate a sample from this seed at -d outputs, then exit")
	restrictToNow := flag.Bool("u", false, "restrict seed range to [now-1yr, now+1yr]")
	minConfidence := flag.Float64("c", 100.0, "minimum confidence to report, (0, 100]")
	workers := flag.Int("t", runtime.NumCPU(), "worker count")
	flag.Parse()

	if *algorithm == "" {
		*algorithm = prng.Default()
	}
	if _, err := prng.New(*algorithm); err != nil {
		l.Println(err)
		flag.Usage()
		os.Exit(1)
	}

	if *genSeed != "" {
		seed, err := strconv.ParseUint(*genSeed, 0, 32)
		if err != nil {
			l.Fatal(err)
		}
		runGenerate(l, *algorithm, uint32(seed), *depth)
		return
	}

	if *inputFile == "" {
		l.Println("-i is required unless -g is given")
		flag.Usage()
		os.Exit(1)
	}
	if *depth <= 0 {
		l.Println("-d must be positive")
		os.Exit(1)
	}
	if *workers <= 0 {
		l.Println("-t must be positive")
		os.Exit(1)
	}
	if *minConfidence <= 0 || *minConfidence > 100 {
		l.Println("-c must be in (0, 100]")
		os.Exit(1)
	}

	observations, err := loadObservations(*inputFile)
	if err != nil {
		l.Fatal(err)
	}
	if len(observations) == 0 {
		l.Println("observation file is empty")
		os.Exit(1)
	}

	inferred, err := recover.InferState(observations, *algorithm)
	if err != nil {
		l.Fatal(err)
	}
	fmt.Println(inferred)
	if inferred.Matched && inferred.HasSeed {
		return
	}

	lower, upper := uint32(0), uint32(math.MaxUint32)
	if *restrictToNow {
		now := time.Now().Unix()
		lower = uint32(now - yearInSeconds)
		upper = uint32(now + yearInSeconds)
	}

	candidates, err := recover.FindSeed(observations, recover.SeedSearchOptions{
		Algorithm:     *algorithm,
		Lower:         lower,
		Upper:         upper,
		Depth:         *depth,
		Workers:       *workers,
		MinConfidence: *minConfidence,
		Progress:      os.Stdout,
	})
	if err != nil {
		l.Fatal(err)
	}

	if len(candidates) == 0 {
		fmt.Println("no seed found")
		return
	}
	for _, c := range candidates {
		fmt.Printf("seed %d, confidence %.1f%%\n", c.Seed, c.Confidence)
	}
}

func runGenerate(l *log.Logger, algorithm string, seed uint32, depth int) {
	g, err := prng.New(algorithm)
	if err != nil {
		l.Fatal(err)
	}
	g.Seed(seed)
	for i := 0; i < depth; i++ {
		fmt.Println(g.Random())
	}
}

// loadObservations reads newline-separated decimal uint32 values, per
// spec.md §6's input format. Blank lines are skipped.
func loadObservations(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []uint32
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, uint32(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
