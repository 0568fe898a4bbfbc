package model

import "errors"

// Error kinds surfaced at the run boundary. Components wrap them with
// fmt.Errorf("%w: ...") so callers can match with errors.Is.
var (
	ErrNoData              = errors.New("no data")
	ErrFetch               = errors.New("fetch failed")
	ErrInsufficientData    = errors.New("insufficient data")
	ErrInvalidHorizon      = errors.New("invalid horizon")
	ErrUndefinedIndicators = errors.New("undefined indicators")
	ErrInvalidInput        = errors.New("invalid input")
)

// ErrorKind names an error kind for logs, metrics and API responses.
type ErrorKind string

const (
	KindNoData              ErrorKind = "NoData"
	KindFetch               ErrorKind = "FetchError"
	KindInsufficientData    ErrorKind = "InsufficientData"
	KindInvalidHorizon      ErrorKind = "InvalidHorizon"
	KindUndefinedIndicators ErrorKind = "UndefinedIndicators"
	KindInvalidInput        ErrorKind = "InvalidInput"
	KindInternal            ErrorKind = "Internal"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidHorizon, KindInvalidHorizon},
	{ErrInvalidInput, KindInvalidInput},
	{ErrNoData, KindNoData},
	{ErrFetch, KindFetch},
	{ErrInsufficientData, KindInsufficientData},
	{ErrUndefinedIndicators, KindUndefinedIndicators},
}

// KindOf classifies err. Unknown errors are KindInternal.
func KindOf(err error) ErrorKind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
