package server

import (
	"errors"
	"net/http"

	"TrendScope/internal/model"
	"TrendScope/internal/pipeline"
)

// AppError is a run failure rendered for API clients.
type AppError struct {
	Status  int    `json:"-"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *AppError) Error() string { return e.Kind + ": " + e.Detail }

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind model.ErrorKind) int {
	switch kind {
	case model.KindInvalidHorizon, model.KindInvalidInput:
		return http.StatusBadRequest
	case model.KindNoData:
		return http.StatusNotFound
	case model.KindInsufficientData, model.KindUndefinedIndicators:
		return http.StatusUnprocessableEntity
	case model.KindFetch:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError classifies err. Internal errors hide their detail.
func NewAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	kind := model.KindOf(err)
	out := &AppError{
		Status:  StatusOf(kind),
		Kind:    string(kind),
		Message: pipeline.UserMessage(err),
	}
	if kind != model.KindInternal {
		out.Detail = err.Error()
	} else {
		out.Message = "Something went wrong"
	}
	return out
}
