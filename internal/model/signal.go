package model

import "time"

// Signal is the classifier output.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// Label returns the human-readable action for the signal.
func (s Signal) Label() string {
	switch s {
	case SignalBuy:
		return "Buy the dip"
	case SignalSell:
		return "Sell the rally"
	case SignalHold:
		return "Hold"
	default:
		return string(s)
	}
}

// Decision is the classified latest row with the inputs that produced it.
type Decision struct {
	Signal  Signal    `json:"signal"`
	Label   string    `json:"label"`
	Rule    string    `json:"rule"`
	Date    time.Time `json:"date"`
	Close   float64   `json:"close"`
	SMAFast float64   `json:"sma_10"`
	SMASlow float64   `json:"sma_20"`
	RSI     float64   `json:"rsi_14"`
}

// ForecastPoint is one extrapolated close.
type ForecastPoint struct {
	Date           time.Time `json:"date"`
	PredictedClose float64   `json:"predicted_close"`
}
