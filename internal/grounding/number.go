package grounding

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	millionsRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:milh[oõ]es|milh[aã]o)`)
	thousandsRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:mil|k)\b`)
	plainRe    = regexp.MustCompile(`(\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{1,2})?)`)
)

// ExtractNumber parses a monetary magnitude out of free text. It understands
// "mil"/"k" and "milhão/milhões" multipliers and both Brazilian (5.000,50)
// and plain (5,000.50) separator conventions. Returns (0, false) when no
// number is present.
func ExtractNumber(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	lower := strings.TrimSpace(strings.ToLower(text))

	if m := millionsRe.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			return v * 1_000_000, true
		}
	}

	if m := thousandsRe.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			return v * 1000, true
		}
	}

	if m := plainRe.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(canonicalizeSeparators(m[1]), 64); err == nil {
			return v, true
		}
	}

	return 0, false
}

// canonicalizeSeparators rewrites a numeric token into Go float syntax,
// deciding whether "." and "," are group or decimal separators.
func canonicalizeSeparators(num string) string {
	hasComma := strings.Contains(num, ",")
	hasDot := strings.Contains(num, ".")

	switch {
	case hasComma && hasDot:
		// Both present: assume Brazilian format 5.000,50.
		num = strings.ReplaceAll(num, ".", "")
		num = strings.ReplaceAll(num, ",", ".")
	case hasDot:
		parts := strings.Split(num, ".")
		if len(parts) > 1 && len(parts[len(parts)-1]) == 3 {
			// 5.000 is a thousand separator, 5.5 is a decimal.
			num = strings.ReplaceAll(num, ".", "")
		}
	case hasComma:
		parts := strings.Split(num, ",")
		if len(parts) > 1 && len(parts[len(parts)-1]) == 3 {
			num = strings.ReplaceAll(num, ",", "")
		} else {
			num = strings.ReplaceAll(num, ",", ".")
		}
	}
	return num
}

// MagnitudeMatch reports whether some numeric token found in a sliding
// window (1 to 3 words) over the user's text matches the candidate magnitude
// within tolerance. Guards against the model inventing numbers while
// tolerating "5 mil" vs "R$ 5.000" paraphrase.
func MagnitudeMatch(candidate float64, userText string, tolerance float64) bool {
	words := strings.Fields(userText)
	for i := range words {
		for size := 1; size <= 3 && i+size <= len(words); size++ {
			window := strings.Join(words[i:i+size], " ")
			v, ok := ExtractNumber(window)
			if !ok {
				continue
			}
			if v == candidate {
				return true
			}
			hi, lo := candidate, v
			if v > candidate {
				hi, lo = v, candidate
			}
			if hi > 0 && lo/hi >= 1-tolerance {
				return true
			}
		}
	}
	return false
}
