package model

import (
	"encoding/json"
	"math"
)

// ColumnName identifies a derived column of an IndicatorFrame.
type ColumnName string

const (
	ColSMA10       ColumnName = "SMA_10"
	ColSMA20       ColumnName = "SMA_20"
	ColRSI14       ColumnName = "RSI_14"
	ColMACD        ColumnName = "MACD"
	ColMACDSignal  ColumnName = "MACD_signal"
	ColMACDHist    ColumnName = "MACD_hist"
	ColBBLower     ColumnName = "BB_Lower"
	ColBBMid       ColumnName = "BB_Mid"
	ColBBUpper     ColumnName = "BB_Upper"
	ColBBBandwidth ColumnName = "BB_Bandwidth"
	ColBBPercent   ColumnName = "BB_Percent"
	ColStochK      ColumnName = "STOCH_K"
	ColStochD      ColumnName = "STOCH_D"
)

// Value is one cell of a derived column. Valid is false while the
// indicator is still warming up or the value is otherwise not available.
type Value struct {
	Float float64
	Valid bool
}

// Some returns a valid Value.
func Some(v float64) Value { return Value{Float: v, Valid: true} }

// None is the "not yet available" marker.
var None = Value{}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = None
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// Column is a derived sequence aligned index-for-index with the bars.
type Column []Value

// NewColumn wraps raw library output, marking entries before from as undefined.
// Non-finite entries are undefined as well.
func NewColumn(raw []float64, from int) Column {
	col := make(Column, len(raw))
	for i, v := range raw {
		if i < from || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		col[i] = Some(v)
	}
	return col
}

// UndefinedColumn returns a column of n undefined entries.
func UndefinedColumn(n int) Column { return make(Column, n) }

// FirstValid returns the index of the first defined entry, or -1.
func (c Column) FirstValid() int {
	for i, v := range c {
		if v.Valid {
			return i
		}
	}
	return -1
}

// IndicatorFrame is a PriceSeries augmented with derived columns.
type IndicatorFrame struct {
	Series  PriceSeries           `json:"series"`
	Columns map[ColumnName]Column `json:"columns"`
	Order   []ColumnName          `json:"order"`
}

// NewIndicatorFrame creates an empty frame over series.
func NewIndicatorFrame(series PriceSeries) *IndicatorFrame {
	return &IndicatorFrame{Series: series, Columns: make(map[ColumnName]Column)}
}

// Set stores a column, keeping first-insertion order.
func (f *IndicatorFrame) Set(name ColumnName, col Column) {
	if _, ok := f.Columns[name]; !ok {
		f.Order = append(f.Order, name)
	}
	f.Columns[name] = col
}

func (f *IndicatorFrame) Column(name ColumnName) (Column, bool) {
	col, ok := f.Columns[name]
	return col, ok
}

func (f *IndicatorFrame) Len() int { return f.Series.Len() }

// Row returns the bar at i together with every derived value at i.
func (f *IndicatorFrame) Row(i int) Row {
	values := make(map[ColumnName]Value, len(f.Columns))
	for name, col := range f.Columns {
		values[name] = col[i]
	}
	return Row{Index: i, Bar: f.Series.Bars[i], Values: values}
}

// Latest returns the most recent row. The frame must not be empty.
func (f *IndicatorFrame) Latest() Row { return f.Row(f.Len() - 1) }

// Row is one date of an IndicatorFrame.
type Row struct {
	Index  int
	Bar    Bar
	Values map[ColumnName]Value
}

// Get returns the value of a column; missing columns are undefined.
func (r Row) Get(name ColumnName) Value { return r.Values[name] }
