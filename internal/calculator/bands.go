package calculator

import (
	talib "github.com/markcheno/go-talib"

	"TrendScope/internal/model"
)

// Bands holds the Bollinger columns.
type Bands struct {
	Lower     model.Column
	Mid       model.Column
	Upper     model.Column
	Bandwidth model.Column
	Percent   model.Column
}

// CalculateBollinger computes SMA-based Bollinger Bands at k standard deviations.
// Bandwidth is (upper-lower)/mid and Percent is (close-lower)/(upper-lower);
// both are undefined where their denominator is zero.
func CalculateBollinger(prices []float64, period int, k float64) Bands {
	n := len(prices)
	if period <= 0 || n < period {
		return Bands{
			Lower:     model.UndefinedColumn(n),
			Mid:       model.UndefinedColumn(n),
			Upper:     model.UndefinedColumn(n),
			Bandwidth: model.UndefinedColumn(n),
			Percent:   model.UndefinedColumn(n),
		}
	}
	upper, mid, lower := talib.BBands(prices, period, k, k, talib.SMA)

	b := Bands{
		Lower:     model.NewColumn(lower, period-1),
		Mid:       model.NewColumn(mid, period-1),
		Upper:     model.NewColumn(upper, period-1),
		Bandwidth: model.UndefinedColumn(n),
		Percent:   model.UndefinedColumn(n),
	}
	for i := period - 1; i < n; i++ {
		if !b.Mid[i].Valid {
			continue
		}
		width := upper[i] - lower[i]
		if mid[i] != 0 {
			b.Bandwidth[i] = model.Some(width / mid[i])
		}
		if width != 0 {
			b.Percent[i] = model.Some((prices[i] - lower[i]) / width)
		}
	}
	return b
}
