package util

import (
	"math"
	"strings"
)

// NaturalCompare orders strings with embedded numbers numerically, so
// "B9" sorts before "B15" and "W3012" before "W3030". Returns -1/0/1.
func NaturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigitByte(a[i]) && isDigitByte(b[j]) {
			ai := i
			for i < len(a) && isDigitByte(a[i]) {
				i++
			}
			bj := j
			for j < len(b) && isDigitByte(b[j]) {
				j++
			}
			na := strings.TrimLeft(a[ai:i], "0")
			nb := strings.TrimLeft(b[bj:j], "0")
			if len(na) != len(nb) {
				if len(na) < len(nb) {
					return -1
				}
				return 1
			}
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			continue
		}
		if a[i] != b[j] {
			if a[i] < b[j] {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	default:
		return 0
	}
}

// Round2 rounds to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundWhole rounds to whole currency units.
func RoundWhole(v float64) float64 {
	return math.Round(v)
}
