package notifier

import (
	"fmt"
	"html"
	"strings"

	"TrendScope/internal/model"
	"TrendScope/internal/pipeline"
)

func signalEmoji(s model.Signal) string {
	switch s {
	case model.SignalBuy:
		return "🟢"
	case model.SignalSell:
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatReport formats one analysis run into a Telegram message.
func FormatReport(res *pipeline.Result) string {
	var b strings.Builder
	d := res.Decision

	b.WriteString(fmt.Sprintf("📊 <b>TrendScope</b> | %s | %s\n\n",
		html.EscapeString(res.Request.Ticker), d.Date.Format(model.DateLayout)))

	b.WriteString(fmt.Sprintf("%s <b>%s</b> (%s)\n", signalEmoji(d.Signal), d.Signal, d.Label))
	b.WriteString(fmt.Sprintf("   %s\n\n", html.EscapeString(d.Rule)))

	b.WriteString(fmt.Sprintf("Close: %.2f\n", d.Close))
	b.WriteString(fmt.Sprintf("SMA10: %.2f | SMA20: %.2f\n", d.SMAFast, d.SMASlow))
	b.WriteString(fmt.Sprintf("RSI14: %.1f\n", d.RSI))

	latest := res.Frame.Latest()
	if v := latest.Get(model.ColMACD); v.Valid {
		b.WriteString(fmt.Sprintf("MACD: %.3f | signal %.3f\n", v.Float, latest.Get(model.ColMACDSignal).Float))
	}
	if v := latest.Get(model.ColBBPercent); v.Valid {
		b.WriteString(fmt.Sprintf("BB %%B: %.2f\n", v.Float))
	}
	if v := latest.Get(model.ColStochK); v.Valid {
		b.WriteString(fmt.Sprintf("Stoch %%K/%%D: %.1f / %.1f\n", v.Float, latest.Get(model.ColStochD).Float))
	}

	if n := len(res.Forecast); n > 0 {
		last := res.Forecast[n-1]
		b.WriteString(fmt.Sprintf("\n📈 <b>Trend (%d days):</b> %.2f on %s\n",
			n, last.PredictedClose, last.Date.Format(model.DateLayout)))
		b.WriteString(fmt.Sprintf("   slope %+.4f per bar\n", res.Trend.Slope))
	}

	b.WriteString(fmt.Sprintf("\n<i>%d bars from %s. Straight-line trend only.</i>", res.Series.Len(), res.Source))
	return b.String()
}

// FormatError formats a failed run.
func FormatError(ticker string, err error) string {
	return fmt.Sprintf("⚠️ <b>%s</b>: %s", html.EscapeString(ticker), html.EscapeString(pipeline.UserMessage(err)))
}

// FormatHelp lists the bot commands.
func FormatHelp(defaultTicker string, defaultHorizon int) string {
	var b strings.Builder
	b.WriteString("🤖 <b>TrendScope</b>\n\n")
	b.WriteString(fmt.Sprintf("/analyze [TICKER] [horizon] - run an analysis (default %s, %d days)\n",
		html.EscapeString(defaultTicker), defaultHorizon))
	b.WriteString("/help - show this message")
	return b.String()
}
