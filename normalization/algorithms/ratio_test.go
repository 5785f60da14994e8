package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "ROBERT", "ROBERT", 100},
		{"both empty", "", "", 100},
		{"one empty", "ROBERT", "", 0},
		{"one insertion", "ROBERT", "ROBERTA", 200.0 * 6 / 13},
		{"substitution counts twice", "JON", "JAN", 200.0 * 2 / 6},
		{"disjoint", "ABC", "XYZ", 0},
		{"multibyte runes", "JOSÉ", "JOSE", 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"ACME PLUMBING", "ACME PLUMBNG"},
		{"KATHERINE", "CATHERINE"},
		{"RIVERSIDE MEDICAL", "RIVERSIDE"},
	}
	for _, p := range pairs {
		assert.Equal(t, Ratio(p[0], p[1]), Ratio(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestRatio_Thresholds(t *testing.T) {
	a := "ABCDEFGHIJKLMNOPQRSU"
	b := "ABCDEFGHIJKLMNOPQRST"
	// 38 shared runes out of 40: exactly on the strong floor.
	assert.Equal(t, 2, IndelDistance(a, b))
	assert.Equal(t, StrongThreshold, Ratio(a, b))

	assert.Less(t, Ratio("ROBERT", "ROBERTO1"), StrongThreshold)
	assert.GreaterOrEqual(t, Ratio("ROBERT", "ROBERTA"), PossibleThreshold)
}

func TestLongestCommonSubsequenceRunes(t *testing.T) {
	assert.Equal(t, 0, LongestCommonSubsequenceRunes(nil, []rune("ABC")))
	assert.Equal(t, 4, LongestCommonSubsequenceRunes([]rune("ABCBDAB"), []rune("BDCABA")))
	assert.Equal(t, 4, LongestCommonSubsequenceRunes([]rune("XMJYAUZ"), []rune("MZJAWXU")))
}
