package helper

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func mustDec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNormalRound(t *testing.T) {
	assert.Equal(t, 6, NormalRound(mustDec("5.5")))
	assert.Equal(t, 7, NormalRound(mustDec("7.49")))
	assert.Equal(t, 8, NormalRound(mustDec("7.5")))
	assert.Equal(t, 7, NormalRound(mustDec("7")))
}

func TestFloor2_NeverRoundsUp(t *testing.T) {
	assert.True(t, Floor2(mustDec("7.669")).Equal(mustDec("7.66")))
	assert.True(t, Floor2(mustDec("7.66")).Equal(mustDec("7.66")))
	assert.True(t, Floor2(mustDec("7")).Equal(mustDec("7")))
}

func TestRound2(t *testing.T) {
	assert.True(t, Round2(mustDec("7.665")).Equal(mustDec("7.67")))
	assert.True(t, Round2(mustDec("7.664")).Equal(mustDec("7.66")))
}

func TestMean(t *testing.T) {
	assert.True(t, Mean(nil).Equal(decimal.Zero))

	m := Mean([]decimal.Decimal{mustDec("7"), mustDec("8")})
	assert.True(t, m.Equal(mustDec("7.5")))

	// 10/3 keeps 4 working digits so downstream Floor2 stays exact enough.
	third := Mean([]decimal.Decimal{mustDec("10"), mustDec("0"), mustDec("0")})
	assert.True(t, third.Equal(mustDec("3.3333")))
}

func TestMeanInts(t *testing.T) {
	assert.True(t, MeanInts([]int{6, 7, 8}).Equal(mustDec("7")))
	assert.Equal(t, 6, NormalRound(MeanInts([]int{5, 6})))
}
