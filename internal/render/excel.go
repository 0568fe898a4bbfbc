package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"TrendScope/internal/chart"
	"TrendScope/internal/model"
	"TrendScope/internal/pipeline"
	"TrendScope/internal/strategy"
)

// Sheet names of the exported workbook.
const (
	SheetSummary    = "Summary"
	SheetIndicators = "Indicators"
	SheetForecast   = "Forecast"
)

type workbookStyles struct {
	header int
	number int
}

// WriteWorkbook saves the run as an xlsx workbook at path.
func WriteWorkbook(res *pipeline.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx, err := BuildWorkbook(res)
	if err != nil {
		return err
	}
	defer fx.Close()

	if err := fx.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// BuildWorkbook lays the run out on the Summary, Indicators and Forecast sheets.
func BuildWorkbook(res *pipeline.Result) (*excelize.File, error) {
	fx := excelize.NewFile()

	if err := fx.SetSheetName(fx.GetSheetName(0), SheetSummary); err != nil {
		fx.Close()
		return nil, err
	}
	for _, name := range []string{SheetIndicators, SheetForecast} {
		if _, err := fx.NewSheet(name); err != nil {
			fx.Close()
			return nil, err
		}
	}

	styles, err := createStyles(fx)
	if err != nil {
		fx.Close()
		return nil, err
	}

	for _, write := range []func(*excelize.File, *pipeline.Result, workbookStyles) error{
		writeSummarySheet,
		writeIndicatorsSheet,
		writeForecastSheet,
	} {
		if err := write(fx, res, styles); err != nil {
			fx.Close()
			return nil, err
		}
	}
	return fx, nil
}

func createStyles(fx *excelize.File) (workbookStyles, error) {
	var styles workbookStyles
	var err error

	styles.header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.number, err = fx.NewStyle(&excelize.Style{
		NumFmt:    4, // #,##0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	return styles, err
}

func writeHeader(fx *excelize.File, sheet string, headers []string, styles workbookStyles) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", last, styles.header); err != nil {
		return err
	}
	return fx.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeSummarySheet(fx *excelize.File, res *pipeline.Result, styles workbookStyles) error {
	d := res.Decision
	if err := writeHeader(fx, SheetSummary, []string{"Field", "Value"}, styles); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Ticker", res.Request.Ticker},
		{"Start", res.Request.Start.Format(model.DateLayout)},
		{"End", res.Request.End.Format(model.DateLayout)},
		{"Horizon", res.Request.Horizon},
		{"Source", res.Source},
		{"Bars", res.Series.Len()},
		{"Date", d.Date.Format(model.DateLayout)},
		{"Signal", string(d.Signal)},
		{"Action", d.Label},
		{"Rule", d.Rule},
		{"Close", d.Close},
		{"SMA_10", d.SMAFast},
		{"SMA_20", d.SMASlow},
		{"RSI_14", d.RSI},
		{"Trend intercept", res.Trend.Intercept},
		{"Trend slope", res.Trend.Slope},
		{"Run ID", res.RunID},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := fx.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetColWidth(SheetSummary, "A", "B", 22)
}

// writeIndicatorsSheet writes the whole frame. Undefined values are left blank.
func writeIndicatorsSheet(fx *excelize.File, res *pipeline.Result, styles workbookStyles) error {
	full := chart.BuildRecent(res.Frame, strategy.History(res.Frame), res.Frame.Len())

	headers := []string{"Date", "Open", "High", "Low", "Close", "Volume"}
	for _, col := range full.Columns {
		headers = append(headers, string(col))
	}
	headers = append(headers, "Signal")
	if err := writeHeader(fx, SheetIndicators, headers, styles); err != nil {
		return err
	}

	for i, r := range full.Rows {
		row := []interface{}{r.Date, r.Open, r.High, r.Low, r.Close, r.Volume}
		for _, v := range r.Values {
			if v.Valid {
				row = append(row, v.Float)
			} else {
				row = append(row, nil)
			}
		}
		row = append(row, string(r.Signal))

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := fx.SetSheetRow(SheetIndicators, cell, &row); err != nil {
			return err
		}
	}

	if n := len(full.Rows); n > 0 {
		from, _ := excelize.CoordinatesToCellName(2, 2)
		to, _ := excelize.CoordinatesToCellName(len(headers)-1, n+1)
		if err := fx.SetCellStyle(SheetIndicators, from, to, styles.number); err != nil {
			return err
		}
	}
	return fx.SetColWidth(SheetIndicators, "A", "A", 12)
}

func writeForecastSheet(fx *excelize.File, res *pipeline.Result, styles workbookStyles) error {
	if err := writeHeader(fx, SheetForecast, []string{"Date", "Predicted close"}, styles); err != nil {
		return err
	}
	for i, p := range res.Forecast {
		row := []interface{}{p.Date.Format(model.DateLayout), p.PredictedClose}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := fx.SetSheetRow(SheetForecast, cell, &row); err != nil {
			return err
		}
	}
	if n := len(res.Forecast); n > 0 {
		if err := fx.SetCellStyle(SheetForecast, "B2", fmt.Sprintf("B%d", n+1), styles.number); err != nil {
			return err
		}
	}
	return fx.SetColWidth(SheetForecast, "A", "B", 16)
}
