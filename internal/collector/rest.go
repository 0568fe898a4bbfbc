package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"TrendScope/internal/model"
)

// RESTLoader implements Loader against a generic daily-bars REST API:
//
//	GET {BaseURL}/api/v1/bars/daily?symbol=BBCA.JK&start=2024-01-01&end=2024-07-01
type RESTLoader struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTLoader creates a new loader with optional proxy support.
func NewRESTLoader(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTLoader {
	return &RESTLoader{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (l *RESTLoader) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (l *RESTLoader) Fetch(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	q := url.Values{}
	q.Set("symbol", ticker)
	q.Set("start", start.Format(model.DateLayout))
	q.Set("end", end.Format(model.DateLayout))
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", l.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: rest request: %w", model.ErrFetch, err)
	}
	if l.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.APIKey)
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: fetch bars: %w", model.ErrFetch, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return model.PriceSeries{}, fmt.Errorf("%w: rest: unknown symbol %s", model.ErrNoData, ticker)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.PriceSeries{}, fmt.Errorf("%w: fetch bars: status %d, body: %s", model.ErrFetch, resp.StatusCode, string(body))
	}

	var raw []restBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: decode bars: %w", model.ErrFetch, err)
	}
	bars := make([]model.Bar, len(raw))
	for i, rb := range raw {
		bars[i] = model.Bar{
			Date:   time.Unix(rb.Timestamp, 0).UTC(),
			Open:   rb.Open,
			High:   rb.High,
			Low:    rb.Low,
			Close:  rb.Close,
			Volume: rb.Volume,
		}
	}
	return Normalize(ticker, bars, start, end), nil
}
