package secretscanner

import "math"

// ShannonEntropy returns the Shannon entropy of s, in bits per character.
// Characters are runes; the empty string scores 0.
func ShannonEntropy(s string) float64 {
	occurrences := make(map[rune]int)
	total := 0
	for _, r := range s {
		occurrences[r]++
		total++
	}
	if total == 0 {
		return 0
	}

	entropy := 0.0
	for _, count := range occurrences {
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
