package render

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"TrendScope/internal/calculator"
	"TrendScope/internal/collector"
	"TrendScope/internal/logger"
	"TrendScope/internal/metrics"
	"TrendScope/internal/model"
	"TrendScope/internal/pipeline"
)

func runResult(t *testing.T, bars, horizon int) *pipeline.Result {
	t.Helper()
	end := model.Date(2024, time.June, 1)
	series := collector.Synthetic("BBCA.JK", 9000, bars, end)
	runner := pipeline.NewRunner(collector.NewStaticLoader(series), calculator.NewEngine(true),
		calculator.AllKinds(), metrics.NewWithRegistry(prometheus.NewRegistry()), logger.Nop())

	res, err := runner.Run(context.Background(), pipeline.Request{
		Ticker:  "BBCA.JK",
		Start:   end.AddDate(-1, 0, 0),
		End:     end,
		Horizon: horizon,
	})
	require.NoError(t, err)
	return res
}

func TestTables(t *testing.T) {
	res := runResult(t, 60, 5)

	var buf bytes.Buffer
	All(&buf, res)
	out := buf.String()

	assert.Contains(t, out, "BBCA.JK | 2024-05-31")
	assert.Contains(t, out, string(res.Decision.Signal))
	assert.Contains(t, out, "Trend forecast (5 days)")
	assert.Contains(t, out, "2024-06-05")
	assert.Contains(t, out, "STOCH_D")
	assert.Contains(t, out, res.RunID)
}

func TestSummary_UndefinedValues(t *testing.T) {
	// 25 bars: the signal inputs are defined but MACD is still warming up.
	res := runResult(t, 25, 3)

	var buf bytes.Buffer
	Summary(&buf, res)

	var macdLine string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "│ MACD ") {
			macdLine = line
			break
		}
	}
	require.NotEmpty(t, macdLine)
	assert.Contains(t, macdLine, Undefined)
}

func TestBuildWorkbook(t *testing.T) {
	res := runResult(t, 60, 5)

	fx, err := BuildWorkbook(res)
	require.NoError(t, err)
	defer fx.Close()

	assert.Equal(t, []string{SheetSummary, SheetIndicators, SheetForecast}, fx.GetSheetList())

	ticker, err := fx.GetCellValue(SheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, "BBCA.JK", ticker)

	signal, err := fx.GetCellValue(SheetSummary, "B9")
	require.NoError(t, err)
	assert.Equal(t, string(res.Decision.Signal), signal)

	rows, err := fx.GetRows(SheetIndicators)
	require.NoError(t, err)
	require.Len(t, rows, 61)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "SMA_10", rows[0][6])
	assert.Equal(t, "Signal", rows[0][len(rows[0])-1])

	// SMA_10 is undefined on the first bar and defined from the tenth.
	first, err := fx.GetCellValue(SheetIndicators, "G2")
	require.NoError(t, err)
	assert.Empty(t, first)
	tenth, err := fx.GetCellValue(SheetIndicators, "G11")
	require.NoError(t, err)
	assert.NotEmpty(t, tenth)

	forecast, err := fx.GetRows(SheetForecast)
	require.NoError(t, err)
	require.Len(t, forecast, 6)
	assert.Equal(t, "2024-06-01", forecast[1][0])
	assert.Equal(t, "2024-06-05", forecast[5][0])
}

func TestWriteWorkbook(t *testing.T) {
	res := runResult(t, 40, 2)
	path := filepath.Join(t.TempDir(), "out", "run.xlsx")

	require.NoError(t, WriteWorkbook(res, path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()
	assert.Equal(t, []string{SheetSummary, SheetIndicators, SheetForecast}, fx.GetSheetList())
}
