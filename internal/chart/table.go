package chart

import "TrendScope/internal/model"

// Table is the tail of the frame with every column and the row's signal.
type Table struct {
	Columns []model.ColumnName `json:"columns"`
	Rows    []TableRow         `json:"rows"`
}

type TableRow struct {
	Date   string        `json:"date"`
	Open   float64       `json:"open"`
	High   float64       `json:"high"`
	Low    float64       `json:"low"`
	Close  float64       `json:"close"`
	Volume float64       `json:"volume"`
	Values []model.Value `json:"values"`
	Signal model.Signal  `json:"signal,omitempty"`
}

// BuildRecent returns the last n rows of frame, oldest first.
func BuildRecent(frame *model.IndicatorFrame, signals []model.Signal, n int) Table {
	t := Table{Columns: append([]model.ColumnName(nil), frame.Order...)}
	from := frame.Len() - n
	if from < 0 {
		from = 0
	}
	for i := from; i < frame.Len(); i++ {
		b := frame.Series.Bars[i]
		row := TableRow{
			Date:   b.Date.Format(model.DateLayout),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
			Values: make([]model.Value, len(t.Columns)),
		}
		for j, name := range t.Columns {
			row.Values[j] = frame.Columns[name][i]
		}
		if i < len(signals) {
			row.Signal = signals[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
