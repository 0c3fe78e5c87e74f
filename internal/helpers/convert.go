// Package helpers provides small numeric conversions shared by the API layer.
//
// Conversions that may lose range clamp instead of wrapping.
package helpers

import (
	"math"
	"strconv"
	"strings"
)

// ClampInt restricts v to the range [lowerLimit, upperLimit].
func ClampInt(v, lowerLimit, upperLimit int) int {
	if v < lowerLimit {
		return lowerLimit
	}
	if v > upperLimit {
		return upperLimit
	}
	return v
}

// ClampIntToInt32 converts v to int32 with clamping.
func ClampIntToInt32(v int) int32 {
	return int32(ClampInt(v, math.MinInt32, math.MaxInt32)) //nolint:gosec // clamped to valid range
}

// ParseLimit parses a result-size parameter.
//
// An empty, non-numeric or non-positive raw value yields def. When ceiling is
// positive the result never exceeds it.
func ParseLimit(raw string, def, ceiling int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		n = def
	}
	if ceiling > 0 {
		n = ClampInt(n, 0, ceiling)
	}
	return n
}
