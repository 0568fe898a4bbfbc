package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"TrendScope/internal/model"
)

// CSVLoader reads <Dir>/<TICKER>.csv files.
type CSVLoader struct {
	Dir string
}

func NewCSVLoader(dir string) *CSVLoader { return &CSVLoader{Dir: dir} }

func (l *CSVLoader) Name() string { return "csv" }

func (l *CSVLoader) Fetch(_ context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	path := filepath.Join(l.Dir, ticker+".csv")
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.PriceSeries{}, fmt.Errorf("%w: no file for %s", model.ErrNoData, ticker)
	}
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: open %s: %w", model.ErrFetch, path, err)
	}
	defer f.Close()

	bars, err := ParseCSV(f)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: %s: %w", model.ErrFetch, path, err)
	}
	return Normalize(ticker, bars, start, end), nil
}

// Canonical CSV fields.
const (
	fieldDate     = "date"
	fieldOpen     = "open"
	fieldHigh     = "high"
	fieldLow      = "low"
	fieldClose    = "close"
	fieldAdjClose = "adj close"
	fieldVolume   = "volume"
)

// fieldsByPriority lists adj close before close so prefix matching is unambiguous.
var fieldsByPriority = []string{fieldDate, fieldOpen, fieldHigh, fieldLow, fieldAdjClose, fieldClose, fieldVolume}

// canonicalField maps a raw header cell to a canonical field name. It accepts
// any case and spacing, "Adj_Close", per-ticker suffixes like "Close_AAPL"
// and stringified tuples like "('Close', 'AAPL')".
func canonicalField(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if strings.HasPrefix(h, "(") {
		h = strings.TrimPrefix(h, "(")
		if i := strings.Index(h, ","); i >= 0 {
			h = h[:i]
		}
		h = strings.Trim(h, "()'\" ")
	}
	h = strings.ReplaceAll(h, "_", " ")
	h = strings.Join(strings.Fields(h), " ")
	for _, f := range fieldsByPriority {
		if h == f || strings.HasPrefix(h, f+" ") {
			return f
		}
	}
	return h
}

// ParseCSV reads OHLCV rows. The first column is the date when no header
// cell names it, as in the three-row header yfinance writes
// (Price / Ticker / Date).
func ParseCSV(r io.Reader) ([]model.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		f := canonicalField(h)
		if _, dup := cols[f]; !dup {
			cols[f] = i
		}
	}
	if _, ok := cols[fieldDate]; !ok {
		cols[fieldDate] = 0
	}
	closeIdx, ok := cols[fieldClose]
	if !ok {
		if closeIdx, ok = cols[fieldAdjClose]; !ok {
			return nil, fmt.Errorf("no close column in header %v", header)
		}
	}

	get := func(rec []string, field string) float64 {
		i, ok := cols[field]
		if !ok {
			return math.NaN()
		}
		return parseNumber(rec, i)
	}

	var bars []model.Bar
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if cols[fieldDate] >= len(rec) {
			continue
		}
		date, ok := parseDate(rec[cols[fieldDate]])
		if !ok {
			// Ticker and Date rows of a multi-row header.
			continue
		}
		bars = append(bars, model.Bar{
			Date:   date,
			Open:   get(rec, fieldOpen),
			High:   get(rec, fieldHigh),
			Low:    get(rec, fieldLow),
			Close:  parseNumber(rec, closeIdx),
			Volume: get(rec, fieldVolume),
		})
	}
	return bars, nil
}

func parseNumber(rec []string, i int) float64 {
	if i >= len(rec) {
		return math.NaN()
	}
	s := strings.TrimSpace(rec[i])
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

var dateLayouts = []string{
	model.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339,
	"01/02/2006",
}

// parseDate keeps the calendar date as written, ignoring any offset.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.TruncateDay(t), true
		}
	}
	return time.Time{}, false
}
