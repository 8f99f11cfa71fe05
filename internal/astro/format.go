// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package astro

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat prints f with the shortest representation that round trips,
// always keeping a fractional part ("30.0", "20.3") and switching to
// exponent notation below 1e-4 and from 1e16.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	if abs := math.Abs(f); f != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
