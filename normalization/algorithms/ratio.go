package algorithms

// Similarity thresholds on the 0-100 Ratio scale.
const (
	// StrongThreshold is the floor for a fuzzy name hit that may confirm
	// with a corroborating field, or raise an entity review.
	StrongThreshold = 95.0
	// PossibleThreshold is the floor for a person name hit that raises a review.
	PossibleThreshold = 90.0
)

// ThresholdVersion identifies the metric and thresholds above. It is stored
// with every snapshot and run so results can be traced to the rules that
// produced them.
const ThresholdVersion = "indel-ratio/95-90"

// Ratio returns the normalized Indel similarity of two strings on a 0-100
// scale: 100 * (1 - indel/(len(a)+len(b))), where indel is the minimum number
// of single-rune insertions and deletions turning a into b. It equals
// 200*LCS/(len(a)+len(b)). Lengths are counted in runes and no case or
// whitespace folding is applied; callers pass normalized values.
//
// Two empty strings are identical and score 100.
func Ratio(a, b string) float64 {
	r1 := []rune(a)
	r2 := []rune(b)
	total := len(r1) + len(r2)
	if total == 0 {
		return 100
	}

	lcs := LongestCommonSubsequenceRunes(r1, r2)
	indel := total - 2*lcs
	return 100 * float64(total-indel) / float64(total)
}

// IndelDistance returns the insertion/deletion edit distance between a and b.
func IndelDistance(a, b string) int {
	r1 := []rune(a)
	r2 := []rune(b)
	return len(r1) + len(r2) - 2*LongestCommonSubsequenceRunes(r1, r2)
}

// LongestCommonSubsequenceRunes returns the LCS length using two rolling rows.
func LongestCommonSubsequenceRunes(r1, r2 []rune) int {
	if len(r1) == 0 || len(r2) == 0 {
		return 0
	}
	// Keep the shorter sequence as the row dimension.
	if len(r2) > len(r1) {
		r1, r2 = r2, r1
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)

	for i := 1; i <= len(r1); i++ {
		for j := 1; j <= len(r2); j++ {
			switch {
			case r1[i-1] == r2[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
