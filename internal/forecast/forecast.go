// Package forecast fits a straight line through closing prices and
// extrapolates it forward by calendar days.
package forecast

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"TrendScope/internal/model"
)

// Model is an ordinary-least-squares line of close against bar index.
type Model struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	Points    int     `json:"points"`
}

// Fit regresses close on index 0..k-1 with an intercept.
func Fit(series model.PriceSeries) (Model, error) {
	k := series.Len()
	if k < 2 {
		return Model{}, fmt.Errorf("%w: trend fit needs 2 bars, got %d", model.ErrInsufficientData, k)
	}
	x := make([]float64, k)
	for i := range x {
		x[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(x, series.Closes(), nil, false)
	return Model{Intercept: alpha, Slope: beta, Points: k}, nil
}

// Predict returns the fitted close at bar index i.
func (m Model) Predict(i int) float64 {
	return m.Intercept + m.Slope*float64(i)
}

// Fitted returns the fitted values over the history the model was built on.
func (m Model) Fitted() []float64 {
	out := make([]float64, m.Points)
	for i := range out {
		out[i] = m.Predict(i)
	}
	return out
}

// Forecast extrapolates n points past the last bar. Point j (0-based) sits
// at index Points+j and is dated last+(j+1) days. Weekends and exchange
// holidays are not skipped.
func (m Model) Forecast(last time.Time, n int) []model.ForecastPoint {
	last = model.TruncateDay(last)
	out := make([]model.ForecastPoint, n)
	for j := 0; j < n; j++ {
		out[j] = model.ForecastPoint{
			Date:           last.AddDate(0, 0, j+1),
			PredictedClose: m.Predict(m.Points + j),
		}
	}
	return out
}

// Forecast fits series and projects it n calendar days ahead.
func Forecast(series model.PriceSeries, n int) (Model, []model.ForecastPoint, error) {
	if n <= 0 {
		return Model{}, nil, fmt.Errorf("%w: horizon must be positive, got %d", model.ErrInvalidHorizon, n)
	}
	m, err := Fit(series)
	if err != nil {
		return Model{}, nil, err
	}
	return m, m.Forecast(series.Last().Date, n), nil
}
