package util

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
	"sort"
)

func ContainsString(s []string, e string) bool {
	return slices.Contains(s, e)
}

// Clamp limits value to the closed range [lower, upper]
func Clamp[T constraints.Ordered](value, lower, upper T) T {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}

// InRange reports whether lower <= value <= upper
func InRange[T constraints.Ordered](value, lower, upper T) bool {
	return value >= lower && value <= upper
}

func sortSlice[T constraints.Ordered](s []T) {
	sort.Slice(s, func(i, j int) bool {
		return s[i] < s[j]
	})
}

func SortedKeys[T constraints.Ordered, K any](input map[T]K) []T {
	result := make([]T, 0, len(input))
	for k := range input {
		result = append(result, k)
	}
	sortSlice(result)
	return result
}

// AppendCapped appends value and drops the oldest entries so that at most size entries remain
func AppendCapped[T any](s []T, value T, size int) []T {
	s = append(s, value)
	if size > 0 && len(s) > size {
		s = slices.Clone(s[len(s)-size:])
	}
	return s
}
