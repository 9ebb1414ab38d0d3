// Package grounding decides whether values proposed by the language model
// have textual basis in what the user actually typed. It is deliberately
// lexical: the goal is to reject fabrication, not to verify correctness.
package grounding

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases and strips accents so "Loja Física" matches
// "loja fisica".
func Normalize(s string) string {
	out, _, err := transform.String(stripAccents, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Similar reports whether two normalized words are close enough to be the
// same word with typos ("indiaiatuba" vs "indaiatuba"). It compares character
// frequency overlap against the threshold.
func Similar(s1, s2 string, threshold float64) bool {
	if s1 == s2 {
		return true
	}
	if s1 == "" || s2 == "" {
		return false
	}

	len1, len2 := len(s1), len(s2)
	lenMax, lenMin := len1, len2
	if len2 > len1 {
		lenMax, lenMin = len2, len1
	}
	if lenMax > lenMin+lenMin/2 {
		return false
	}

	c1 := make(map[rune]int)
	for _, r := range s1 {
		c1[r]++
	}
	c2 := make(map[rune]int)
	for _, r := range s2 {
		c2[r]++
	}

	common, total := 0, 0
	for r, n := range c1 {
		total += n
		if m := c2[r]; m < n {
			common += m
		} else {
			common += n
		}
	}
	if total == 0 {
		return false
	}
	return float64(common)/float64(total) >= threshold
}

// contentWords splits a normalized string into words longer than minLen.
func contentWords(s string, minLen int) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if len(w) > minLen {
			out = append(out, w)
		}
	}
	return out
}
