package collector

import (
	"context"
	"time"

	"TrendScope/internal/model"
)

// StaticLoader serves fixed bars from memory, keyed by ticker.
type StaticLoader struct {
	Bars  map[string][]model.Bar
	Err   error
	Calls int
}

func NewStaticLoader(series ...model.PriceSeries) *StaticLoader {
	l := &StaticLoader{Bars: make(map[string][]model.Bar, len(series))}
	for _, s := range series {
		l.Bars[s.Ticker] = s.Bars
	}
	return l
}

func (l *StaticLoader) Name() string { return "static" }

// Fetch returns the stored bars inside [start, end). Unknown tickers yield
// an empty series.
func (l *StaticLoader) Fetch(_ context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	l.Calls++
	if l.Err != nil {
		return model.PriceSeries{}, l.Err
	}
	return Normalize(ticker, l.Bars[ticker], start, end), nil
}

// Synthetic generates n daily bars ending the day before end around
// basePrice with a gentle drift, for demos without network access.
func Synthetic(ticker string, basePrice float64, n int, end time.Time) model.PriceSeries {
	end = model.TruncateDay(end)
	bars := make([]model.Bar, n)
	for i := 0; i < n; i++ {
		p := basePrice * (1 + float64(i-n/2)*0.001)
		bars[i] = model.Bar{
			Date:   end.AddDate(0, 0, -(n - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return model.PriceSeries{Ticker: ticker, Bars: bars}
}
