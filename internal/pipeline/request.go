package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"TrendScope/internal/model"
)

// Horizon bounds, in calendar days.
const (
	MinHorizon = 1
	MaxHorizon = 90
)

// Request is the user's input for one run. Bars are fetched for [Start, End).
type Request struct {
	Ticker  string    `json:"ticker" validate:"required,max=32"`
	Start   time.Time `json:"start" validate:"required"`
	End     time.Time `json:"end" validate:"required,gtfield=Start"`
	Horizon int       `json:"horizon" validate:"gte=1,lte=90"`
}

// Normalized trims the ticker and truncates the range to calendar days.
func (r Request) Normalized() Request {
	r.Ticker = strings.ToUpper(strings.TrimSpace(r.Ticker))
	if !r.Start.IsZero() {
		r.Start = model.TruncateDay(r.Start)
	}
	if !r.End.IsZero() {
		r.End = model.TruncateDay(r.End)
	}
	return r
}

// NewValidator returns a validator configured for Request.
func NewValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// Validate checks r and maps failures onto error kinds. Out-of-range
// horizons are rejected, never clamped.
func Validate(v *validator.Validate, r Request) error {
	err := v.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
	}
	for _, fe := range verrs {
		if fe.StructField() == "Horizon" {
			return fmt.Errorf("%w: horizon must be between %d and %d days, got %d",
				model.ErrInvalidHorizon, MinHorizon, MaxHorizon, r.Horizon)
		}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", model.ErrInvalidInput, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return strings.ToLower(fe.StructField()) + " is required"
	case "gtfield":
		return "end date must be after start date"
	case "max":
		return fmt.Sprintf("%s is too long", strings.ToLower(fe.StructField()))
	default:
		return fmt.Sprintf("%s failed %s", strings.ToLower(fe.StructField()), fe.Tag())
	}
}
