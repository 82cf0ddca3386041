// rand/rand.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rand

import (
	"time"

	"github.com/MichaelTJones/pcg"
)

///////////////////////////////////////////////////////////////////////////
// Random numbers.

// Rand is a PCG32 random number generator. It is not safe for concurrent
// use, which is fine since the benchmark runs on a single thread.
type Rand struct {
	r *pcg.PCG32
}

// Make returns a generator seeded from the current time.
func Make() *Rand {
	r := &Rand{r: pcg.NewPCG32()}
	r.Seed(time.Now().UnixNano())
	return r
}

// MakeSeeded returns a generator with a fixed seed so that runs can be
// reproduced.
func MakeSeeded(s int64) *Rand {
	r := &Rand{r: pcg.NewPCG32()}
	r.Seed(s)
	return r
}

func (r *Rand) Seed(s int64) {
	r.r.Seed(uint64(s), 0xda3e39cb94b95bdb)
}

// Intn returns a uniformly distributed value in [0,n). n must be positive.
func (r *Rand) Intn(n int) int {
	return int(r.r.Bounded(uint32(n)))
}

// IntRange returns a uniformly distributed value in [low,high). If the
// range is empty, low is returned.
func (r *Rand) IntRange(low, high int) int {
	if high <= low {
		return low
	}
	return low + r.Intn(high-low)
}

// Float32 returns a value in [0,1].
func (r *Rand) Float32() float32 {
	return float32(r.r.Random()) / (1<<32 - 1)
}

// Range returns a float32 value between low and high.
func (r *Rand) Range(low, high float32) float32 {
	return low + (high-low)*r.Float32()
}

// Bool returns true or false with equal probability.
func (r *Rand) Bool() bool {
	return r.r.Random()&1 == 1
}

func (r *Rand) Uint32() uint32 {
	return r.r.Random()
}
