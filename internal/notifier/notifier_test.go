package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScope/internal/logger"
	"TrendScope/internal/model"
	"TrendScope/internal/pipeline"
)

func TestSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "100", "", logger.Nop())
	n.APIBase = srv.URL
	require.NoError(t, n.Send(context.Background(), "", "<b>hi</b>"))
	assert.Equal(t, "100", got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.Equal(t, "<b>hi</b>", got["text"])
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "100", "", logger.Nop())
	n.APIBase = srv.URL
	err := n.SendWithRetry(context.Background(), "x", 0)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestStartPolling_RepliesToSender(t *testing.T) {
	var (
		mu      sync.Mutex
		replies []map[string]string
		polls   int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.URL.Path {
		case "/botTOKEN/getUpdates":
			polls++
			if polls == 1 {
				_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /help ","chat":{"id":555}}}]}`))
				return
			}
			_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
		case "/botTOKEN/sendMessage":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			replies = append(replies, body)
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "100", "", logger.Nop())
	n.APIBase = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(_ context.Context, cmd string) string {
			assert.Equal(t, "/help", cmd)
			return "help text"
		})
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(replies) == 1
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "555", replies[0]["chat_id"])
	assert.Equal(t, "help text", replies[0]["text"])
}

func sampleResult() *pipeline.Result {
	day := model.Date(2024, time.May, 31)
	series := model.PriceSeries{Ticker: "BBCA.JK", Bars: []model.Bar{{Date: day, Close: 9150}}}
	frame := model.NewIndicatorFrame(series)
	frame.Set(model.ColMACD, model.Column{model.Some(12.5)})
	frame.Set(model.ColMACDSignal, model.Column{model.Some(10)})
	frame.Set(model.ColStochK, model.Column{model.None})
	return &pipeline.Result{
		Request: pipeline.Request{Ticker: "BBCA.JK", Horizon: 2},
		Source:  "yahoo",
		Series:  series,
		Frame:   frame,
		Decision: model.Decision{
			Signal: model.SignalBuy, Label: model.SignalBuy.Label(), Rule: "SMA_10 > SMA_20 and RSI_14 < 45",
			Date: day, Close: 9150, SMAFast: 9100, SMASlow: 9000, RSI: 40.2,
		},
		Forecast: []model.ForecastPoint{
			{Date: day.AddDate(0, 0, 1), PredictedClose: 9160},
			{Date: day.AddDate(0, 0, 2), PredictedClose: 9170},
		},
	}
}

func TestFormatReport(t *testing.T) {
	msg := FormatReport(sampleResult())
	assert.Contains(t, msg, "BBCA.JK")
	assert.Contains(t, msg, "<b>BUY</b> (Buy the dip)")
	assert.Contains(t, msg, "SMA_10 &gt; SMA_20 and RSI_14 &lt; 45")
	assert.Contains(t, msg, "RSI14: 40.2")
	assert.Contains(t, msg, "MACD: 12.500")
	assert.NotContains(t, msg, "Stoch")
	assert.Contains(t, msg, "9170.00 on 2024-06-02")
}

func TestFormatError(t *testing.T) {
	msg := FormatError("<X>", model.ErrNoData)
	assert.Contains(t, msg, "&lt;X&gt;")
	assert.Contains(t, msg, "ticker symbol")
	assert.NotContains(t, FormatError("X", errors.New("a<b")), "a<b")
}
