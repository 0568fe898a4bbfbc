// Package render prints analysis runs as terminal tables and exports them
// as spreadsheets.
package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"TrendScope/internal/model"
	"TrendScope/internal/pipeline"
)

// Undefined is printed for indicator values that are not available.
const Undefined = "-"

func formatValue(v model.Value) string {
	if !v.Valid {
		return Undefined
	}
	return fmt.Sprintf("%.2f", v.Float)
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

// Summary prints the decision and the latest indicator values.
func Summary(w io.Writer, res *pipeline.Result) {
	d := res.Decision
	t := newTable(w, fmt.Sprintf("%s | %s", res.Request.Ticker, d.Date.Format(model.DateLayout)))

	t.AppendRows([]table.Row{
		{"Signal", fmt.Sprintf("%s (%s)", d.Signal, d.Label)},
		{"Rule", d.Rule},
		{"Close", fmt.Sprintf("%.2f", d.Close)},
	})
	t.AppendSeparator()

	latest := res.Frame.Latest()
	for _, name := range res.Frame.Order {
		t.AppendRow(table.Row{string(name), formatValue(latest.Get(name))})
	}
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Bars", fmt.Sprintf("%d from %s", res.Series.Len(), res.Source)},
		{"Trend slope", fmt.Sprintf("%+.4f per bar", res.Trend.Slope)},
		{"Run", res.RunID},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 14, Align: text.AlignLeft},
		{Number: 2, WidthMin: 24, Align: text.AlignLeft},
	})
	t.Render()
}

// Forecast prints the extrapolated closes.
func Forecast(w io.Writer, res *pipeline.Result) {
	t := newTable(w, fmt.Sprintf("Trend forecast (%d days)", len(res.Forecast)))
	t.AppendHeader(table.Row{"Date", "Predicted close"})
	for _, p := range res.Forecast {
		t.AppendRow(table.Row{p.Date.Format(model.DateLayout), fmt.Sprintf("%.2f", p.PredictedClose)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
}

// Recent prints the recent-data table of the run.
func Recent(w io.Writer, res *pipeline.Result) {
	recent := res.Charts.Recent
	t := newTable(w, "Recent data")

	header := table.Row{"Date", "Open", "High", "Low", "Close", "Volume"}
	for _, col := range recent.Columns {
		header = append(header, string(col))
	}
	header = append(header, "Signal")
	t.AppendHeader(header)

	for _, r := range recent.Rows {
		row := table.Row{
			r.Date,
			fmt.Sprintf("%.2f", r.Open),
			fmt.Sprintf("%.2f", r.High),
			fmt.Sprintf("%.2f", r.Low),
			fmt.Sprintf("%.2f", r.Close),
			fmt.Sprintf("%.0f", r.Volume),
		}
		for _, v := range r.Values {
			row = append(row, formatValue(v))
		}
		signal := string(r.Signal)
		if signal == "" {
			signal = Undefined
		}
		row = append(row, signal)
		t.AppendRow(row)
	}
	t.Render()
}

// All prints the summary, forecast and recent tables separated by blank lines.
func All(w io.Writer, res *pipeline.Result) {
	Summary(w, res)
	fmt.Fprintln(w)
	Forecast(w, res)
	fmt.Fprintln(w)
	Recent(w, res)
}
