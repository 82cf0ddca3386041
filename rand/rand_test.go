// rand/rand_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rand

import (
	"testing"
)

func TestIntRange(t *testing.T) {
	r := MakeSeeded(42)
	for _, rng := range [][2]int{{0, 1}, {20, 60}, {120, 140}, {10, 255}, {-5, 5}} {
		seen := make(map[int]bool)
		for range 10000 {
			v := r.IntRange(rng[0], rng[1])
			if v < rng[0] || v >= rng[1] {
				t.Fatalf("IntRange(%d, %d) returned %d", rng[0], rng[1], v)
			}
			seen[v] = true
		}
		if len(seen) != rng[1]-rng[0] {
			t.Errorf("IntRange(%d, %d): only saw %d distinct values", rng[0], rng[1], len(seen))
		}
	}

	if v := r.IntRange(7, 7); v != 7 {
		t.Errorf("empty range returned %d, expected 7", v)
	}
}

func TestSeedReproducible(t *testing.T) {
	a, b := MakeSeeded(99), MakeSeeded(99)
	for i := range 100 {
		if va, vb := a.Uint32(), b.Uint32(); va != vb {
			t.Fatalf("%d: got %d and %d from identically seeded generators", i, va, vb)
		}
	}
}

func TestRangeBounds(t *testing.T) {
	r := MakeSeeded(7)
	for range 10000 {
		if v := r.Range(-3, 3); v < -3 || v > 3 {
			t.Fatalf("Range(-3, 3) returned %f", v)
		}
	}
}

func TestBool(t *testing.T) {
	r := MakeSeeded(3)
	n := 0
	for range 10000 {
		if r.Bool() {
			n++
		}
	}
	if n < 4000 || n > 6000 {
		t.Errorf("Bool returned true %d times out of 10000", n)
	}
}
