// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package randomstreams

import (
	"fmt"
	"math/rand/v2"
)

// pcgIncrement is the fixed PCG stream selector; streams differ by seed only.
const pcgIncrement = 0xda3e39cb94b95bdb

// Generator is the payload of a random stream: a seeded PCG source.
type Generator struct {
	seed int64
	src  *rand.PCG
	rng  *rand.Rand
}

// NewGenerator returns a generator initialized from seed.
func NewGenerator(seed int64) *Generator {
	return fromSource(seed, rand.NewPCG(uint64(seed), pcgIncrement))
}

func fromSource(seed int64, src *rand.PCG) *Generator {
	return &Generator{seed: seed, src: src, rng: rand.New(src)}
}

// Seed returns the seed the generator was initialized from.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Copy returns an independent generator in the same state.
func (g *Generator) Copy() *Generator {
	src := new(rand.PCG)
	*src = *g.src
	return fromSource(g.seed, src)
}

// DeepCopy implements shared.Copier.
func (g *Generator) DeepCopy() any {
	return g.Copy()
}

// Equal reports whether both generators will produce the same sequence.
func (g *Generator) Equal(other *Generator) bool {
	if g == nil || other == nil {
		return g == other
	}
	return *g.src == *other.src
}

func (g *Generator) Float64() float64 {
	return g.rng.Float64()
}

func (g *Generator) NormFloat64() float64 {
	return g.rng.NormFloat64()
}

func (g *Generator) Int64N(n int64) int64 {
	return g.rng.Int64N(n)
}

func (g *Generator) String() string {
	return fmt.Sprintf("Generator(seed=%d)", g.seed)
}
