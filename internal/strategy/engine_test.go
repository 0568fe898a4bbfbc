package strategy

import (
	"errors"
	"testing"
	"time"

	"TrendScope/internal/model"
)

func row(fast, slow, rsi model.Value) model.Row {
	return model.Row{
		Bar: model.Bar{Date: model.Date(2024, time.June, 3), Close: 100},
		Values: map[model.ColumnName]model.Value{
			model.ColSMA10: fast,
			model.ColSMA20: slow,
			model.ColRSI14: rsi,
		},
	}
}

func TestClassify_AllBoundaries(t *testing.T) {
	tests := []struct {
		name            string
		fast, slow, rsi float64
		want            model.Signal
	}{
		{"uptrend pullback", 105, 100, 30, model.SignalBuy},
		{"uptrend rsi at 45", 105, 100, 45, model.SignalHold},
		{"uptrend rsi just below 45", 105, 100, 44.999, model.SignalBuy},
		{"uptrend strong rsi", 105, 100, 70, model.SignalHold},
		{"downtrend rally", 95, 100, 70, model.SignalSell},
		{"downtrend rsi at 55", 95, 100, 55, model.SignalHold},
		{"downtrend rsi just above 55", 95, 100, 55.001, model.SignalSell},
		{"downtrend weak rsi", 95, 100, 20, model.SignalHold},
		{"equal averages low rsi", 100, 100, 10, model.SignalHold},
		{"equal averages high rsi", 100, 100, 90, model.SignalHold},
		{"neutral rsi", 105, 100, 50, model.SignalHold},
	}
	for _, tt := range tests {
		got, err := Classify(row(model.Some(tt.fast), model.Some(tt.slow), model.Some(tt.rsi)))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

func TestClassify_UndefinedInputs(t *testing.T) {
	cases := []model.Row{
		row(model.None, model.Some(100), model.Some(50)),
		row(model.Some(100), model.None, model.Some(50)),
		row(model.Some(100), model.Some(100), model.None),
		{Bar: model.Bar{Date: model.Date(2024, time.June, 3)}},
	}
	for i, r := range cases {
		if _, err := Classify(r); !errors.Is(err, model.ErrUndefinedIndicators) {
			t.Errorf("case %d: expected ErrUndefinedIndicators, got %v", i, err)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	r := row(model.Some(101), model.Some(100), model.Some(40))
	first, _ := Classify(r)
	for i := 0; i < 10; i++ {
		if got, _ := Classify(r); got != first {
			t.Fatalf("run %d: expected %s, got %s", i, first, got)
		}
	}
}

func frameOf(fast, slow, rsi model.Column) *model.IndicatorFrame {
	bars := make([]model.Bar, len(fast))
	for i := range bars {
		bars[i] = model.Bar{Date: model.Date(2024, time.June, 1+i), Close: float64(100 + i)}
	}
	f := model.NewIndicatorFrame(model.PriceSeries{Ticker: "T", Bars: bars})
	f.Set(model.ColSMA10, fast)
	f.Set(model.ColSMA20, slow)
	f.Set(model.ColRSI14, rsi)
	return f
}

func TestEvaluate_LatestRow(t *testing.T) {
	f := frameOf(
		model.Column{model.None, model.Some(95), model.Some(110)},
		model.Column{model.None, model.Some(100), model.Some(100)},
		model.Column{model.None, model.Some(70), model.Some(40)},
	)
	d, err := Evaluate(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Signal != model.SignalBuy {
		t.Errorf("expected BUY, got %s", d.Signal)
	}
	if d.Label != "Buy the dip" {
		t.Errorf("unexpected label %q", d.Label)
	}
	if d.Close != 102 || d.SMAFast != 110 || d.SMASlow != 100 || d.RSI != 40 {
		t.Errorf("decision does not carry latest inputs: %+v", d)
	}
	if !d.Date.Equal(model.Date(2024, time.June, 3)) {
		t.Errorf("unexpected date %s", d.Date)
	}
}

func TestEvaluate_UndefinedLatest(t *testing.T) {
	f := frameOf(
		model.Column{model.Some(95), model.None},
		model.Column{model.Some(100), model.None},
		model.Column{model.Some(70), model.None},
	)
	if _, err := Evaluate(f); !errors.Is(err, model.ErrUndefinedIndicators) {
		t.Errorf("expected ErrUndefinedIndicators, got %v", err)
	}
}

func TestEvaluate_EmptyFrame(t *testing.T) {
	f := model.NewIndicatorFrame(model.PriceSeries{})
	if _, err := Evaluate(f); !errors.Is(err, model.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	f := frameOf(
		model.Column{model.None, model.Some(95), model.Some(110)},
		model.Column{model.None, model.Some(100), model.Some(100)},
		model.Column{model.None, model.Some(70), model.Some(50)},
	)
	got := History(f)
	want := []model.Signal{"", model.SignalSell, model.SignalHold}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
