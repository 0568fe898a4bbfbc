package strategy

import (
	"fmt"

	"TrendScope/internal/model"
)

// Inputs are the indicator readings the classifier looks at.
type Inputs struct {
	SMAFast float64
	SMASlow float64
	RSI     float64
}

// Rule is one ordered classification rule.
type Rule struct {
	Name   string
	Signal model.Signal
	Match  func(in Inputs) bool
}

// RSI thresholds for the pullback and rally rules.
const (
	BuyRSIBelow  = 45.0
	SellRSIAbove = 55.0
)

// Rules are evaluated in order; the first match wins.
var Rules = []Rule{
	{
		Name:   "SMA_10 > SMA_20 and RSI_14 < 45",
		Signal: model.SignalBuy,
		Match:  func(in Inputs) bool { return in.SMAFast > in.SMASlow && in.RSI < BuyRSIBelow },
	},
	{
		Name:   "SMA_10 < SMA_20 and RSI_14 > 55",
		Signal: model.SignalSell,
		Match:  func(in Inputs) bool { return in.SMAFast < in.SMASlow && in.RSI > SellRSIAbove },
	},
}

// DefaultRule applies when no rule matches.
var DefaultRule = Rule{Name: "no rule matched", Signal: model.SignalHold}

// matchRule returns the first rule matching in.
func matchRule(in Inputs) Rule {
	for _, r := range Rules {
		if r.Match(in) {
			return r
		}
	}
	return DefaultRule
}

// InputsOf extracts the classifier inputs from a row.
func InputsOf(row model.Row) (Inputs, error) {
	fast, slow, rsi := row.Get(model.ColSMA10), row.Get(model.ColSMA20), row.Get(model.ColRSI14)
	var missing []model.ColumnName
	if !fast.Valid {
		missing = append(missing, model.ColSMA10)
	}
	if !slow.Valid {
		missing = append(missing, model.ColSMA20)
	}
	if !rsi.Valid {
		missing = append(missing, model.ColRSI14)
	}
	if len(missing) > 0 {
		return Inputs{}, fmt.Errorf("%w: %v undefined on %s",
			model.ErrUndefinedIndicators, missing, row.Bar.Date.Format(model.DateLayout))
	}
	return Inputs{SMAFast: fast.Float, SMASlow: slow.Float, RSI: rsi.Float}, nil
}

// Classify applies the ordered rules to a single row.
func Classify(row model.Row) (model.Signal, error) {
	in, err := InputsOf(row)
	if err != nil {
		return "", err
	}
	return matchRule(in).Signal, nil
}

// Evaluate classifies the latest row of frame.
func Evaluate(frame *model.IndicatorFrame) (model.Decision, error) {
	if frame == nil || frame.Len() == 0 {
		return model.Decision{}, fmt.Errorf("%w: empty frame", model.ErrNoData)
	}
	row := frame.Latest()
	in, err := InputsOf(row)
	if err != nil {
		return model.Decision{}, err
	}
	rule := matchRule(in)
	return model.Decision{
		Signal:  rule.Signal,
		Label:   rule.Signal.Label(),
		Rule:    rule.Name,
		Date:    row.Bar.Date,
		Close:   row.Bar.Close,
		SMAFast: in.SMAFast,
		SMASlow: in.SMASlow,
		RSI:     in.RSI,
	}, nil
}

// History labels every row of frame. Rows whose inputs are still warming
// up get an empty signal.
func History(frame *model.IndicatorFrame) []model.Signal {
	out := make([]model.Signal, frame.Len())
	for i := range out {
		if sig, err := Classify(frame.Row(i)); err == nil {
			out[i] = sig
		}
	}
	return out
}
