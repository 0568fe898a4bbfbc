package calculator

import (
	talib "github.com/markcheno/go-talib"

	"TrendScope/internal/model"
)

// MACDLookback is the index of the first defined MACD row.
func MACDLookback(fast, slow, signal int) int {
	if slow < fast {
		slow = fast
	}
	return (slow - 1) + (signal - 1)
}

// CalculateMACD returns the MACD line, its signal line and the histogram.
// All three share the same warm-up so rows line up for charting.
//
// talib.Macd seeds the signal EMA from the zero-filled head of its MACD
// buffer, so the signal is taken over the defined part of the line only.
func CalculateMACD(prices []float64, fast, slow, signal int) (macd, sig, hist model.Column) {
	n := len(prices)
	if slow < fast {
		fast, slow = slow, fast
	}
	from := MACDLookback(fast, slow, signal)
	if fast <= 0 || signal <= 0 || n < from+1 {
		return model.UndefinedColumn(n), model.UndefinedColumn(n), model.UndefinedColumn(n)
	}

	fastEMA := talib.Ema(prices, fast)
	slowEMA := talib.Ema(prices, slow)
	line := make([]float64, n)
	for i := slow - 1; i < n; i++ {
		line[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine := make([]float64, n)
	copy(signalLine[slow-1:], talib.Ema(line[slow-1:], signal))

	histogram := make([]float64, n)
	for i := from; i < n; i++ {
		histogram[i] = line[i] - signalLine[i]
	}
	return model.NewColumn(line, from), model.NewColumn(signalLine, from), model.NewColumn(histogram, from)
}
