package matcher

import (
	"github.com/mariuscozma11/program-conta/internal/models"
	"github.com/mariuscozma11/program-conta/internal/similarity"
)

// GenericPair is one matched pair of schema-agnostic rows, with the
// per-mapping differences found between them.
type GenericPair struct {
	Left  models.GenericRecord
	Right models.GenericRecord

	LeftIndex  int
	RightIndex int

	// Score is the share of declared mappings whose fields matched.
	Score float64

	// Differences holds one entry per mapping whose fields disagreed.
	Differences []models.Difference
}

// GenericMatchSet is the outcome of the generic matcher, in the same
// shape as the fixed-schema MatchSet.
type GenericMatchSet struct {
	Pairs     []*GenericPair
	LeftOnly  []int
	RightOnly []int
}

// MatchGeneric pairs rows of two arbitrary sources using the declared
// column mappings. For each left row every unclaimed right row is
// scored as matchingMappings/totalMappings; the best candidate with a
// score of at least the threshold is claimed. Ties keep the earliest
// right row. The scan is exhaustive, O(n*m) over the two sources;
// generic mode builds no index.
func MatchGeneric(left, right []models.GenericRecord, mappings []models.ColumnMapping, cfg *Config) *GenericMatchSet {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	set := &GenericMatchSet{}

	// No mappings means no basis for matching: everything is one-sided.
	if len(mappings) == 0 {
		for i := range left {
			set.LeftOnly = append(set.LeftOnly, i)
		}
		for j := range right {
			set.RightOnly = append(set.RightOnly, j)
		}
		return set
	}

	rightConsumed := make([]bool, len(right))

	for i, row := range left {
		best := -1
		bestScore := 0.0

		for j, candidate := range right {
			if rightConsumed[j] {
				continue
			}

			matches := 0
			for _, m := range mappings {
				if similarity.FieldsMatch(row.Get(m.Left), candidate.Get(m.Right)) {
					matches++
				}
			}

			// Strictly greater keeps the earliest candidate on ties.
			if score := float64(matches) / float64(len(mappings)); score > bestScore {
				best = j
				bestScore = score
			}
		}

		if best < 0 || bestScore < cfg.GenericMinScore {
			set.LeftOnly = append(set.LeftOnly, i)
			continue
		}

		pair := &GenericPair{
			Left:       row,
			Right:      right[best],
			LeftIndex:  i,
			RightIndex: best,
			Score:      bestScore,
		}
		for _, m := range mappings {
			lv := row.Get(m.Left)
			rv := right[best].Get(m.Right)
			if !similarity.FieldsMatch(lv, rv) {
				pair.Differences = append(pair.Differences, models.Difference{
					Column: m.Left,
					Left:   lv,
					Right:  rv,
				})
			}
		}

		set.Pairs = append(set.Pairs, pair)
		rightConsumed[best] = true
	}

	for j := range right {
		if !rightConsumed[j] {
			set.RightOnly = append(set.RightOnly, j)
		}
	}

	return set
}
