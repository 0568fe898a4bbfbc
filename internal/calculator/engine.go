package calculator

import (
	"fmt"
	"strings"

	"TrendScope/internal/model"
)

// Kind enumerates the indicators the engine can compute.
type Kind string

const (
	KindSMA10  Kind = "sma_10"
	KindSMA20  Kind = "sma_20"
	KindRSI14  Kind = "rsi_14"
	KindMACD   Kind = "macd"
	KindBBands Kind = "bbands"
	KindStoch  Kind = "stoch"
)

// Indicator parameters.
const (
	SMAFastPeriod = 10
	SMASlowPeriod = 20
	RSIPeriod     = 14
	MACDFast      = 12
	MACDSlow      = 26
	MACDSignal    = 9
	BBPeriod      = 20
	BBDeviations  = 2.0
	StochKPeriod  = 14
	StochDPeriod  = 3
)

type indicator struct {
	kind     Kind
	columns  []model.ColumnName
	lookback int
	compute  func(s model.PriceSeries, f *model.IndicatorFrame)
}

// indicators is kept in canonical column order.
var indicators = []indicator{
	{
		kind:     KindSMA10,
		columns:  []model.ColumnName{model.ColSMA10},
		lookback: SMAFastPeriod - 1,
		compute: func(s model.PriceSeries, f *model.IndicatorFrame) {
			f.Set(model.ColSMA10, CalculateSMA(s.Closes(), SMAFastPeriod))
		},
	},
	{
		kind:     KindSMA20,
		columns:  []model.ColumnName{model.ColSMA20},
		lookback: SMASlowPeriod - 1,
		compute: func(s model.PriceSeries, f *model.IndicatorFrame) {
			f.Set(model.ColSMA20, CalculateSMA(s.Closes(), SMASlowPeriod))
		},
	},
	{
		kind:     KindRSI14,
		columns:  []model.ColumnName{model.ColRSI14},
		lookback: RSIPeriod,
		compute: func(s model.PriceSeries, f *model.IndicatorFrame) {
			f.Set(model.ColRSI14, CalculateRSI(s.Closes(), RSIPeriod))
		},
	},
	{
		kind:     KindMACD,
		columns:  []model.ColumnName{model.ColMACD, model.ColMACDSignal, model.ColMACDHist},
		lookback: MACDLookback(MACDFast, MACDSlow, MACDSignal),
		compute: func(s model.PriceSeries, f *model.IndicatorFrame) {
			m, sig, hist := CalculateMACD(s.Closes(), MACDFast, MACDSlow, MACDSignal)
			f.Set(model.ColMACD, m)
			f.Set(model.ColMACDSignal, sig)
			f.Set(model.ColMACDHist, hist)
		},
	},
	{
		kind: KindBBands,
		columns: []model.ColumnName{
			model.ColBBLower, model.ColBBMid, model.ColBBUpper, model.ColBBBandwidth, model.ColBBPercent,
		},
		lookback: BBPeriod - 1,
		compute: func(s model.PriceSeries, f *model.IndicatorFrame) {
			b := CalculateBollinger(s.Closes(), BBPeriod, BBDeviations)
			f.Set(model.ColBBLower, b.Lower)
			f.Set(model.ColBBMid, b.Mid)
			f.Set(model.ColBBUpper, b.Upper)
			f.Set(model.ColBBBandwidth, b.Bandwidth)
			f.Set(model.ColBBPercent, b.Percent)
		},
	},
	{
		kind:     KindStoch,
		columns:  []model.ColumnName{model.ColStochK, model.ColStochD},
		lookback: StochLookback(StochKPeriod, StochDPeriod),
		compute: func(s model.PriceSeries, f *model.IndicatorFrame) {
			k, d := CalculateStochastic(s.Highs(), s.Lows(), s.Closes(), StochKPeriod, StochDPeriod)
			f.Set(model.ColStochK, k)
			f.Set(model.ColStochD, d)
		},
	},
}

// AllKinds returns every supported indicator in canonical order.
func AllKinds() []Kind {
	out := make([]Kind, len(indicators))
	for i, ind := range indicators {
		out[i] = ind.kind
	}
	return out
}

// SignalKinds are the indicators the signal classifier reads.
func SignalKinds() []Kind {
	return []Kind{KindSMA10, KindSMA20, KindRSI14}
}

// ParseKinds converts config strings into kinds. An empty list selects all.
func ParseKinds(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return AllKinds(), nil
	}
	out := make([]Kind, 0, len(names))
	for _, name := range names {
		k := Kind(strings.ToLower(strings.TrimSpace(name)))
		if _, ok := lookup(k); !ok {
			return nil, fmt.Errorf("%w: unknown indicator %q", model.ErrInvalidInput, name)
		}
		out = append(out, k)
	}
	return Canonical(out), nil
}

// Canonical de-duplicates kinds and sorts them in canonical order.
func Canonical(kinds []Kind) []Kind {
	want := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	out := make([]Kind, 0, len(want))
	for _, ind := range indicators {
		if want[ind.kind] {
			out = append(out, ind.kind)
		}
	}
	return out
}

// Columns returns the column names produced by kind.
func Columns(kind Kind) []model.ColumnName {
	ind, ok := lookup(kind)
	if !ok {
		return nil
	}
	return ind.columns
}

// Lookback returns the index of the first defined row of kind.
func Lookback(kind Kind) int {
	ind, ok := lookup(kind)
	if !ok {
		return 0
	}
	return ind.lookback
}

// MinBars is the shortest series for which every kind has a defined last row.
func MinBars(kinds []Kind) int {
	need := 0
	for _, k := range kinds {
		if n := Lookback(k) + 1; n > need {
			need = n
		}
	}
	return need
}

func lookup(kind Kind) (indicator, bool) {
	for _, ind := range indicators {
		if ind.kind == kind {
			return ind, true
		}
	}
	return indicator{}, false
}

// Engine computes IndicatorFrames.
type Engine struct {
	// AllowPartial computes whatever fits a short series and leaves the
	// remaining columns undefined instead of failing.
	AllowPartial bool
}

// NewEngine creates an Engine.
func NewEngine(allowPartial bool) *Engine {
	return &Engine{AllowPartial: allowPartial}
}

// Compute derives the requested indicator columns over series. Each
// indicator is computed independently over the full series.
func (e *Engine) Compute(series model.PriceSeries, kinds []Kind) (*model.IndicatorFrame, error) {
	kinds = Canonical(kinds)
	if need := MinBars(kinds); !e.AllowPartial && series.Len() < need {
		return nil, fmt.Errorf("%w: %d bars, indicators need %d", model.ErrInsufficientData, series.Len(), need)
	}

	want := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	frame := model.NewIndicatorFrame(series)
	for _, ind := range indicators {
		if want[ind.kind] {
			ind.compute(series, frame)
		}
	}
	return frame, nil
}
