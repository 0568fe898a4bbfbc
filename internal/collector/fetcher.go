package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"TrendScope/internal/model"
)

// Loader fetches daily bars for a ticker over the half-open range [start, end).
// Implementations return a normalized series: ascending, unique dates,
// finite non-negative values.
type Loader interface {
	Fetch(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error)
	Name() string
}

// DefaultTimeout bounds a single upstream request.
const DefaultTimeout = 30 * time.Second

// newHTTPClient builds a client with an optional proxy.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
