package pipeline

import "TrendScope/internal/model"

// UserMessage turns a run error into a sentence for end users.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch model.KindOf(err) {
	case model.KindNoData:
		return "Could not get any data. Check the ticker symbol and the date range."
	case model.KindFetch:
		return "Fetching market data failed: " + err.Error()
	case model.KindInvalidHorizon:
		return "The forecast horizon must be between 1 and 90 days."
	case model.KindInvalidInput:
		return "Invalid input: " + err.Error()
	case model.KindInsufficientData:
		return "Not enough history to compute the indicators. Choose an earlier start date."
	case model.KindUndefinedIndicators:
		return "The latest indicators are not available yet, so no signal can be given."
	default:
		return "Something went wrong: " + err.Error()
	}
}
