package scoring

import "sort"

// SelectTopN returns the n highest-scoring candidates in descending
// score order. The sort is stable: candidates with equal scores keep
// the relative order the search returned them in, with no secondary
// key. The input slice is not modified.
func SelectTopN(scored []ScoredCandidate, n int) []ScoredCandidate {
	ranked := make([]ScoredCandidate, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
