package app

import (
	"math/rand"
	"sort"
	"testing"
)

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	a := Shuffle(rand.New(rand.NewSource(42)), []string{"3", "4", "5", "6"})
	b := Shuffle(rand.New(rand.NewSource(42)), []string{"3", "4", "5", "6"})
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected same order for same seed, got %v and %v", a, b)
		}
	}
}

func TestShuffleKeepsMultiset(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for round := 0; round < 100; round++ {
		items := []int{1, 2, 3, 4, 5, 6, 7, 8}
		out := Shuffle(rnd, items)
		if &out[0] != &items[0] {
			t.Fatalf("expected in-place shuffle")
		}
		sorted := append([]int(nil), out...)
		sort.Ints(sorted)
		for i, v := range sorted {
			if v != i+1 {
				t.Fatalf("round %d: not a permutation: %v", round, out)
			}
		}
	}
}

func TestShuffleCoversEveryPosition(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	seen := make(map[int]bool)
	for round := 0; round < 200; round++ {
		out := Shuffle(rnd, []int{0, 1, 2, 3})
		for pos, v := range out {
			if v == 0 {
				seen[pos] = true
			}
		}
	}
	if len(seen) != 4 {
		t.Fatalf("expected first element to reach all 4 positions, got %v", seen)
	}
}

func TestShuffleShortInputs(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	if out := Shuffle(rnd, []string{}); len(out) != 0 {
		t.Fatalf("expected empty result, got %v", out)
	}
	if out := Shuffle(rnd, []string{"only"}); len(out) != 1 || out[0] != "only" {
		t.Fatalf("expected single element untouched, got %v", out)
	}
}
