package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"TrendScope/internal/model"
)

// DefaultYahooURL is the public Yahoo Finance chart host.
const DefaultYahooURL = "https://query1.finance.yahoo.com"

// YahooLoader implements Loader using the Yahoo Finance chart API.
type YahooLoader struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps user-facing aliases to Yahoo tickers
}

// NewYahooLoader creates a Yahoo Finance loader.
func NewYahooLoader(baseURL, proxyURL string, timeout time.Duration) *YahooLoader {
	if baseURL == "" {
		baseURL = DefaultYahooURL
	}
	return &YahooLoader{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  newHTTPClient(proxyURL, timeout),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"IHSG":   "^JKSE",
		},
	}
}

func (l *YahooLoader) Name() string { return "yahoo" }

func (l *YahooLoader) yahooSymbol(ticker string) string {
	if mapped, ok := l.SymbolMap[strings.ToUpper(ticker)]; ok {
		return mapped
	}
	return ticker
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int64 `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// at returns vals[i], or NaN when the entry is null or missing.
func at(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return math.NaN()
	}
	return *vals[i]
}

func (l *YahooLoader) Fetch(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	q := url.Values{}
	q.Set("period1", fmt.Sprint(start.Unix()))
	q.Set("period2", fmt.Sprint(end.Unix()))
	q.Set("interval", "1d")
	q.Set("events", "history")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", l.BaseURL, url.PathEscape(l.yahooSymbol(ticker)), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: yahoo request: %w", model.ErrFetch, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := l.Client.Do(req)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: yahoo fetch: %w", model.ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: yahoo read body: %w", model.ErrFetch, err)
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(body, &chart)
	// Unknown symbols come back as a 404 carrying a chart error.
	if decodeErr == nil && chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return model.PriceSeries{}, fmt.Errorf("%w: yahoo: %s", model.ErrNoData, chart.Chart.Error.Description)
		}
		return model.PriceSeries{}, fmt.Errorf("%w: yahoo api error: %s", model.ErrFetch, chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return model.PriceSeries{}, fmt.Errorf("%w: yahoo: status %d", model.ErrFetch, resp.StatusCode)
	}
	if decodeErr != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: yahoo decode: %w", model.ErrFetch, decodeErr)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return model.PriceSeries{Ticker: ticker}, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Shift to exchange time so the bar keeps its trading date.
		local := time.Unix(ts+result.Meta.GMTOffset, 0).UTC()
		bars = append(bars, model.Bar{
			Date:   local,
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  at(quote.Close, i),
			Volume: at(quote.Volume, i),
		})
	}
	return Normalize(ticker, bars, start, end), nil
}
