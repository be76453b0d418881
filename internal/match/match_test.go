package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityIdentical(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("The Shawshank Redemption", "The Shawshank Redemption"))
	assert.Equal(t, 1.0, Similarity("", ""))
}

func TestSimilarityCaseFolded(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("DUNE", "dune"))
}

func TestSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"alien", "aliens"},
		{"heat", "heart"},
		{"se7en", "seven"},
		{"", "memento"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), "pair %q/%q", p[0], p[1])
	}
}

func TestSimilarityDisjoint(t *testing.T) {
	// Equal-length strings with no characters in common.
	assert.Equal(t, 0.0, Similarity("abcd", "wxyz"))
}

func TestSimilaritySingleSubstitution(t *testing.T) {
	// One substituted character in an n-character string scores (n-1)/n.
	assert.InDelta(t, 4.0/5.0, Similarity("haste", "taste"), 1e-9)
	assert.InDelta(t, 11.0/12.0, Similarity("interstellar", "intersteller"), 1e-9)
}

func TestSimilarityEmptyVersusNonEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "arrival"))
	assert.Equal(t, 0.0, Similarity("arrival", ""))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "blade runner", Normalize("Blade Runner (Final Cut)"))
	assert.Equal(t, "dune part two", Normalize("  Dune   [2024]  Part Two "))
	assert.Equal(t, "", Normalize("(uncredited)"))
}
