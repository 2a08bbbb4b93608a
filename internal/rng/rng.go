// Package rng is the single random source of the simulation. Everything that
// rolls dice takes a Source (or an Intner) explicitly, so a fixed seed
// replays the same world.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Intner is the part of a random source that uniform choice needs.
type Intner interface {
	Intn(n int) int
}

// Source is a seeded pseudo-random generator. Game loop only.
type Source struct {
	seed int64
	r    *rand.Rand
}

func New(seed int64) *Source {
	return &Source{seed: seed, r: rand.New(rand.NewSource(seed))}
}

// NewSeed draws a seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func (s *Source) Seed() int64      { return s.seed }
func (s *Source) Intn(n int) int   { return s.r.Intn(n) }
func (s *Source) Float64() float64 { return s.r.Float64() }

// From returns one element of items, each with probability 1/len(items).
// It panics on an empty slice; callers check for candidates first.
func From[T any](r Intner, items []T) T {
	if len(items) == 0 {
		panic("rng.From: empty slice")
	}
	return items[r.Intn(len(items))]
}
