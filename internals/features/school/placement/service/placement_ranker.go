// file: internals/features/school/placement/service/placement_ranker.go
//
// Competition ranking: rank = position of the student's value in the
// duplicate-free descending value list, so equal values share a rank and the
// next distinct value takes rank len(better distinct values)+1.
package service

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CompetitionRanks ranks decimal averages descending. A nil value counts as 0
// (worst).
func CompetitionRanks(values []*decimal.Decimal) []int {
	keys := make([]string, len(values))
	numeric := make([]decimal.Decimal, len(values))
	for i, v := range values {
		d := decimal.Zero
		if v != nil {
			d = *v
		}
		numeric[i] = d
		keys[i] = d.String()
	}

	distinct := map[string]decimal.Decimal{}
	for i, k := range keys {
		distinct[k] = numeric[i]
	}
	ordered := make([]decimal.Decimal, 0, len(distinct))
	for _, d := range distinct {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].GreaterThan(ordered[j]) })

	rankOf := make(map[string]int, len(ordered))
	for i, d := range ordered {
		rankOf[d.String()] = i + 1
	}

	out := make([]int, len(values))
	for i, k := range keys {
		out[i] = rankOf[k]
	}
	return out
}

// CompetitionRanksInt ranks integer counts descending.
func CompetitionRanksInt(values []int) []int {
	distinct := map[int]struct{}{}
	for _, v := range values {
		distinct[v] = struct{}{}
	}
	ordered := make([]int, 0, len(distinct))
	for v := range distinct {
		ordered = append(ordered, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ordered)))

	rankOf := make(map[int]int, len(ordered))
	for i, v := range ordered {
		rankOf[v] = i + 1
	}

	out := make([]int, len(values))
	for i, v := range values {
		out[i] = rankOf[v]
	}
	return out
}
