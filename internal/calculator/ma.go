package calculator

import (
	talib "github.com/markcheno/go-talib"

	"TrendScope/internal/model"
)

// CalculateSMA computes the simple moving average of prices over period.
// The first period-1 entries are undefined; a series shorter than period
// yields an all-undefined column.
func CalculateSMA(prices []float64, period int) model.Column {
	if period <= 0 || len(prices) < period {
		return model.UndefinedColumn(len(prices))
	}
	return model.NewColumn(talib.Sma(prices, period), period-1)
}
