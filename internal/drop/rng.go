package drop

import (
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// SourceFunc adapts a plain function, e.g. a scripted sequence in tests.
type SourceFunc func() float64

func (f SourceFunc) Float64() float64 { return f() }

// DefaultRNG draws from the runtime's shared generator, which is seeded
// from OS entropy and safe for concurrent use.
func DefaultRNG() RandomSource { return SourceFunc(rand.Float64) }

// NewSeededRNG returns a reproducible ChaCha8 stream for simulations and
// tests. Equal seeds give equal kill sequences.
func NewSeededRNG(seed uint64) RandomSource {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return rand.New(rand.NewChaCha8(key))
}
