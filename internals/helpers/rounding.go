// file: internals/helpers/rounding.go
//
// Grade averages are regulatory and displayed verbatim, so every rounding step
// runs on decimals, never on binary floats.
package helper

import "github.com/shopspring/decimal"

// NormalRound rounds half-up to an integer: fractional part < 0.5 rounds down,
// >= 0.5 rounds up. 5.5 → 6, 7.49 → 7.
func NormalRound(d decimal.Decimal) int {
	return int(d.Round(0).IntPart())
}

// Round2 rounds half-up to 2 decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Floor2 truncates toward zero to 2 decimal places (floor(x*100)/100).
// Published aggregate means use this so an average is never overstated.
func Floor2(d decimal.Decimal) decimal.Decimal {
	return d.RoundDown(2)
}

// Mean returns the arithmetic mean of ds with 4 digits of working precision,
// or zero when ds is empty.
func Mean(ds []decimal.Decimal) decimal.Decimal {
	if len(ds) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, d := range ds {
		sum = sum.Add(d)
	}
	return sum.DivRound(decimal.NewFromInt(int64(len(ds))), 4)
}

// MeanInts is Mean over plain integer grades.
func MeanInts(vals []int) decimal.Decimal {
	ds := make([]decimal.Decimal, 0, len(vals))
	for _, v := range vals {
		ds = append(ds, decimal.NewFromInt(int64(v)))
	}
	return Mean(ds)
}
