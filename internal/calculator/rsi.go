package calculator

import (
	talib "github.com/markcheno/go-talib"

	"TrendScope/internal/model"
)

// neutralRSI is reported while the smoothed window shows no price movement.
const neutralRSI = 50.0

// flatEpsilon matches the threshold below which talib treats the average
// gain plus loss as zero.
const flatEpsilon = 1e-14

// CalculateRSI computes the Wilder-smoothed RSI over period.
// Requires period+1 prices; the first period entries are undefined.
func CalculateRSI(prices []float64, period int) model.Column {
	if period < 2 || len(prices) < period+1 {
		return model.UndefinedColumn(len(prices))
	}
	raw := talib.Rsi(prices, period)

	// talib reports 0 both for an all-loss window and for a window with no
	// movement at all. Only the latter is neutral.
	movement := wilderMovement(prices, period)
	for i := period; i < len(raw); i++ {
		if raw[i] == 0 && movement[i] < flatEpsilon {
			raw[i] = neutralRSI
		}
	}
	return model.NewColumn(raw, period)
}

// wilderMovement returns the Wilder-smoothed average gain plus average loss
// at each index from period on, using the same recursion as talib.Rsi.
func wilderMovement(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	var gain, loss float64
	for i := 1; i <= period; i++ {
		if d := prices[i] - prices[i-1]; d < 0 {
			loss -= d
		} else {
			gain += d
		}
	}
	p := float64(period)
	gain /= p
	loss /= p
	out[period] = gain + loss

	for i := period + 1; i < len(prices); i++ {
		gain *= p - 1
		loss *= p - 1
		if d := prices[i] - prices[i-1]; d < 0 {
			loss -= d
		} else {
			gain += d
		}
		gain /= p
		loss /= p
		out[i] = gain + loss
	}
	return out
}
