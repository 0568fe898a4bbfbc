// Package chart assembles date-aligned data sets from an analysis run for
// whatever surface draws them.
package chart

import (
	"TrendScope/internal/forecast"
	"TrendScope/internal/model"
)

// RecentRows is the size of the recent-data table.
const RecentRows = 10

// Line names that are not indicator columns.
const (
	LineClose         = "Close"
	LineTrendFit      = "Trend Fit"
	LineTrendForecast = "Trend Forecast"
	LineRSIHigh       = "Overbought (70)"
	LineRSILow        = "Oversold (30)"
	LineStochHigh     = "Overbought (80)"
	LineStochLow      = "Oversold (20)"
)

type Kind string

const (
	KindLine Kind = "line"
	KindBar  Kind = "bar"
)

// Line is one named series aligned index-for-index with Dataset.Dates.
type Line struct {
	Name   string        `json:"name"`
	Values []model.Value `json:"values"`
}

// Dataset is a chart's worth of lines over a shared date axis.
type Dataset struct {
	Title string   `json:"title"`
	Kind  Kind     `json:"kind"`
	Dates []string `json:"dates"`
	Lines []Line   `json:"lines"`
}

// Line returns the named line.
func (d *Dataset) Line(name string) (Line, bool) {
	for _, l := range d.Lines {
		if l.Name == name {
			return l, true
		}
	}
	return Line{}, false
}

// Set holds every data set of one run. Data sets whose columns were not
// computed are nil.
type Set struct {
	Trend      *Dataset `json:"trend"`
	Price      *Dataset `json:"price,omitempty"`
	RSI        *Dataset `json:"rsi,omitempty"`
	Stochastic *Dataset `json:"stochastic,omitempty"`
	MACD       *Dataset `json:"macd,omitempty"`
	MACDHist   *Dataset `json:"macd_hist,omitempty"`
	Recent     Table    `json:"recent"`
}

// Build assembles the data sets for a run. signals holds the per-row
// classifier output and may contain blanks for warm-up rows.
func Build(frame *model.IndicatorFrame, trend forecast.Model, points []model.ForecastPoint, signals []model.Signal) Set {
	dates := dateAxis(frame.Series)
	return Set{
		Trend: buildTrend(frame.Series, trend, points),
		Price: buildFromColumns(frame, "Price, SMA and Bollinger Bands", KindLine, dates,
			[]Line{{Name: LineClose, Values: closes(frame.Series)}},
			model.ColSMA10, model.ColSMA20, model.ColBBLower, model.ColBBUpper),
		RSI: withBounds(buildFromColumns(frame, "RSI", KindLine, dates, nil, model.ColRSI14),
			LineRSIHigh, 70, LineRSILow, 30),
		Stochastic: withBounds(buildFromColumns(frame, "Stochastic", KindLine, dates, nil, model.ColStochK, model.ColStochD),
			LineStochHigh, 80, LineStochLow, 20),
		MACD:     buildFromColumns(frame, "MACD", KindLine, dates, nil, model.ColMACD, model.ColMACDSignal),
		MACDHist: buildFromColumns(frame, "MACD Histogram", KindBar, dates, nil, model.ColMACDHist),
		Recent:   BuildRecent(frame, signals, RecentRows),
	}
}

func buildTrend(series model.PriceSeries, trend forecast.Model, points []model.ForecastPoint) *Dataset {
	k, n := series.Len(), len(points)
	dates := dateAxis(series)
	for _, p := range points {
		dates = append(dates, p.Date.Format(model.DateLayout))
	}

	closeLine := make([]model.Value, k+n)
	fitLine := make([]model.Value, k+n)
	forecastLine := make([]model.Value, k+n)
	for i, b := range series.Bars {
		closeLine[i] = model.Some(b.Close)
		if trend.Points == k {
			fitLine[i] = model.Some(trend.Predict(i))
		}
	}
	for j, p := range points {
		forecastLine[k+j] = model.Some(p.PredictedClose)
	}
	return &Dataset{
		Title: "Trend Forecast",
		Kind:  KindLine,
		Dates: dates,
		Lines: []Line{
			{Name: LineClose, Values: closeLine},
			{Name: LineTrendFit, Values: fitLine},
			{Name: LineTrendForecast, Values: forecastLine},
		},
	}
}

// buildFromColumns returns nil when none of cols is in the frame.
func buildFromColumns(frame *model.IndicatorFrame, title string, kind Kind, dates []string, base []Line, cols ...model.ColumnName) *Dataset {
	lines := append([]Line(nil), base...)
	found := false
	for _, name := range cols {
		col, ok := frame.Column(name)
		if !ok {
			continue
		}
		found = true
		lines = append(lines, Line{Name: string(name), Values: col})
	}
	if !found {
		return nil
	}
	return &Dataset{Title: title, Kind: kind, Dates: dates, Lines: lines}
}

func withBounds(d *Dataset, highName string, high float64, lowName string, low float64) *Dataset {
	if d == nil {
		return nil
	}
	d.Lines = append(d.Lines,
		Line{Name: highName, Values: constant(len(d.Dates), high)},
		Line{Name: lowName, Values: constant(len(d.Dates), low)},
	)
	return d
}

func dateAxis(series model.PriceSeries) []string {
	out := make([]string, series.Len())
	for i, b := range series.Bars {
		out[i] = b.Date.Format(model.DateLayout)
	}
	return out
}

func closes(series model.PriceSeries) []model.Value {
	out := make([]model.Value, series.Len())
	for i, b := range series.Bars {
		out[i] = model.Some(b.Close)
	}
	return out
}

func constant(n int, v float64) []model.Value {
	out := make([]model.Value, n)
	for i := range out {
		out[i] = model.Some(v)
	}
	return out
}
