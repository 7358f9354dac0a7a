package prng

import "fmt"

// Factory creates a fresh, unseeded instance of one algorithm.
type Factory func() PRNG

var factories = map[string]Factory{}

// order is the stable registration order; order[0] is the default algorithm.
var order []string

// Register adds a named algorithm to the registry. Intended to be called
// from each algorithm package's init().
func Register(name string, f Factory) {
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("prng: %q registered twice", name))
	}
	factories[name] = f
	order = append(order, name)
}

// Names returns the registered algorithm names in stable registration
// order. Names()[0] is the default.
func Names() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Default returns the registry's first-registered name.
func Default() string {
	if len(order) == 0 {
		panic("prng: registry is empty")
	}
	return order[0]
}

// New returns a fresh instance of the named algorithm.
func New(name string) (PRNG, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("prng: unsupported algorithm %q", name)
	}
	return f(), nil
}

// MustNew is like New but panics on an unknown name. Intended for use after
// the name has already been validated (e.g. against Names()).
func MustNew(name string) PRNG {
	p, err := New(name)
	if err != nil {
		panic(err)
	}
	return p
}
