package collector

import (
	"math"
	"sort"
	"time"

	"TrendScope/internal/model"
)

// Normalize applies the shared boundary rules to raw bars: dates are
// truncated to calendar days, bars without a usable close are dropped,
// missing OHLC fields are filled from the close, duplicates keep the last
// occurrence and the result is clipped to [start, end). A zero start or
// end leaves that side open.
func Normalize(ticker string, bars []model.Bar, start, end time.Time) model.PriceSeries {
	byDate := make(map[time.Time]model.Bar, len(bars))
	for _, b := range bars {
		if !usable(b.Close) {
			continue
		}
		b.Date = model.TruncateDay(b.Date)
		if !start.IsZero() && b.Date.Before(model.TruncateDay(start)) {
			continue
		}
		if !end.IsZero() && !b.Date.Before(model.TruncateDay(end)) {
			continue
		}
		b.Open = orClose(b.Open, b.Close)
		b.High = orClose(b.High, b.Close)
		b.Low = orClose(b.Low, b.Close)
		if !usable(b.Volume) {
			b.Volume = 0
		}
		byDate[b.Date] = b
	}

	out := make([]model.Bar, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return model.PriceSeries{Ticker: ticker, Bars: out}
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// orClose treats zero and unusable values as missing.
func orClose(v, close float64) float64 {
	if !usable(v) || v == 0 {
		return close
	}
	return v
}
