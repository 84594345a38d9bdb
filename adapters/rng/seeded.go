package rng

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
)

// Seeded derives independent streams from a base seed and an operation name
type Seeded struct{}

// NewSeeded creates a seeded RNG adapter
func NewSeeded() *Seeded {
	return &Seeded{}
}

// Stream returns a generator seeded with seed mixed with a hash of name
func (s *Seeded) Stream(name string, seed int64) *rand.Rand {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	h.Write(buf[:])
	h.Write([]byte(name))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}
