// Package rank selects extremal elements over an explicit ordering key.
//
// Both the boundary resolver (highest qualifying boundary) and the standards
// evaluator (highest level met, weakest level overall) reduce to these two
// functions. Ties keep the element that appears first.
package rank

import "cmp"

// MaxBy returns the element with the greatest key. ok is false for an empty slice.
func MaxBy[T any, K cmp.Ordered](items []T, key func(T) K) (best T, ok bool) {
	var bestKey K
	for i, it := range items {
		k := key(it)
		if i == 0 || k > bestKey {
			best, bestKey = it, k
		}
	}
	return best, len(items) > 0
}

// MinBy returns the element with the smallest key. ok is false for an empty slice.
func MinBy[T any, K cmp.Ordered](items []T, key func(T) K) (best T, ok bool) {
	var bestKey K
	for i, it := range items {
		k := key(it)
		if i == 0 || k < bestKey {
			best, bestKey = it, k
		}
	}
	return best, len(items) > 0
}

// Filter returns the elements satisfying keep, preserving order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
