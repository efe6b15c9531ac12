// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice compliments the standard [slices] and [maps] packages with the
small set algebra the catalogue needs: id sets, intersections and
de-duplication by key.
*/
package slice

import (
	"cmp"
	"maps"
	"slices"
)

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// SortedKeys returns the keys of m in ascending order. The result is never nil.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := slices.Collect(maps.Keys(m))
	if keys == nil {
		return []K{}
	}
	slices.Sort(keys)
	return keys
}

// Intersect returns the ascending, de-duplicated values present in both a and b.
// The result is never nil.
func Intersect[T cmp.Ordered](a, b []T) []T {
	seen := make(map[T]struct{}, len(a))
	for _, v := range a {
		seen[v] = struct{}{}
	}

	common := make(map[T]struct{})
	for _, v := range b {
		if _, ok := seen[v]; ok {
			common[v] = struct{}{}
		}
	}

	return SortedKeys(common)
}

// UniqueBy drops every element whose key was already seen, keeping first occurrences.
func UniqueBy[T any, K comparable](input []T, key func(T) K) []T {
	if input == nil {
		return nil
	}

	seen := make(map[K]struct{}, len(input))
	result := make([]T, 0, len(input))
	for _, v := range input {
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, v)
	}

	return result
}
