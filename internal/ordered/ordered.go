// Package ordered provides ordered, deterministic traversal of maps.
package ordered

import (
	"cmp"
	"slices"
)

// Keys returns the keys of m in ascending order.
func Keys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// KeysFunc returns the keys of m sorted with the comparison
// function cmp, for key types that have no natural order.
func KeysFunc[K comparable, V any](m map[K]V, cmp func(a, b K) int) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, cmp)
	return keys
}

// Range calls fn on each entry of m in ascending key order. Range
// stops early if fn returns a non-nil error, and returns it.
func Range[K cmp.Ordered, V any](m map[K]V, fn func(K, V) error) error {
	for _, k := range Keys(m) {
		if err := fn(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}
