package calculator

import (
	talib "github.com/markcheno/go-talib"

	"TrendScope/internal/model"
)

// StochLookback is the index of the first defined %K/%D row.
func StochLookback(kPeriod, dPeriod int) int {
	return (kPeriod - 1) + (dPeriod - 1)
}

// CalculateStochastic computes the fast stochastic oscillator:
// %K = 100*(close-lowest low)/(highest high-lowest low) over kPeriod and
// %D = SMA(dPeriod) of %K.
func CalculateStochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (k, d model.Column) {
	n := len(closes)
	from := StochLookback(kPeriod, dPeriod)
	if kPeriod <= 0 || dPeriod <= 0 || n < from+1 || len(highs) != n || len(lows) != n {
		return model.UndefinedColumn(n), model.UndefinedColumn(n)
	}
	fastK, fastD := talib.StochF(highs, lows, closes, kPeriod, dPeriod, talib.SMA)
	return model.NewColumn(fastK, from), model.NewColumn(fastD, from)
}
