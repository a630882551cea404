package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCompetitionRanks_TiesShareRank(t *testing.T) {
	values := []*decimal.Decimal{decp("10"), decp("10"), decp("8"), nil}
	assert.Equal(t, []int{1, 1, 2, 3}, CompetitionRanks(values))
}

func TestCompetitionRanks_NilBehavesAsZero(t *testing.T) {
	values := []*decimal.Decimal{nil, decp("0"), decp("7.25")}
	assert.Equal(t, []int{2, 2, 1}, CompetitionRanks(values))
}

func TestCompetitionRanks_AllDistinct(t *testing.T) {
	values := []*decimal.Decimal{decp("6.50"), decp("9.33"), decp("7.00")}
	assert.Equal(t, []int{3, 1, 2}, CompetitionRanks(values))
}

func TestCompetitionRanks_ScaleInsensitive(t *testing.T) {
	// 8 and 8.00 are the same value and must share a rank.
	values := []*decimal.Decimal{decp("8"), decp("8.00"), decp("7")}
	ranks := CompetitionRanks(values)
	assert.Equal(t, ranks[0], ranks[1])
	assert.Equal(t, ranks[0]+1, ranks[2])
}

func TestCompetitionRanksInt(t *testing.T) {
	assert.Equal(t, []int{2, 1, 2, 3}, CompetitionRanksInt([]int{5, 12, 5, 0}))
	assert.Equal(t, []int{1, 1, 1}, CompetitionRanksInt([]int{4, 4, 4}))
	assert.Equal(t, []int{}, CompetitionRanksInt(nil))
}
