package shaderforth

import "math/rand/v2"

// randSource is the minimal surface the "random" built-in needs, so
// executor.go doesn't depend on which generator a Context picked.
type randSource interface {
	Float64() float64
}

// newRandSource returns a seeded generator when the Context was built with
// WithSeed, or one seeded from the runtime's own entropy source otherwise.
// math/rand/v2's PCG generator gives reproducible streams from a fixed seed
// without the global-lock contention of math/rand's top-level functions.
func newRandSource(seed uint64, seeded bool) randSource {
	if seeded {
		return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
