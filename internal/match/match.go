// Package match provides the text similarity scoring used for
// cross-source title matching.
package match

import (
	"regexp"
	"strings"
)

// Cleanup patterns applied by Normalize. Bracketed segments on title
// pages usually carry release or edition noise, not identity.
var (
	parenPattern   = regexp.MustCompile(`\([^)]*\)`)
	bracketPattern = regexp.MustCompile(`\[[^\]]*\]`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// Similarity returns a normalized edit-distance score in [0.0, 1.0]
// between two case-folded strings. Identical strings (including two
// empty strings) score 1.0; strings sharing no characters score 0.0.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	return float64(maxLen-levenshtein(ra, rb)) / float64(maxLen)
}

// Normalize strips bracketed segments and collapses whitespace so that
// cosmetic differences between the two sources do not depress scores.
// Applied identically to both sides of a comparison.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = parenPattern.ReplaceAllString(s, " ")
	s = bracketPattern.ReplaceAllString(s, " ")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// levenshtein computes the edit distance between two rune slices using
// the full DP matrix.
func levenshtein(r1, r2 []rune) int {
	len1, len2 := len(r1), len(r2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len1][len2]
}

func min3(a, b, c int) int {
	if a < b && a < c {
		return a
	}
	if b < c {
		return b
	}
	return c
}
