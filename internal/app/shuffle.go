package app

import "math/rand"

// Shuffle permutes items in place with a Fisher-Yates pass and returns the same slice.
// Pass a seeded source for reproducible orderings.
func Shuffle[T any](rnd *rand.Rand, items []T) []T {
	for i := len(items) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
	return items
}
