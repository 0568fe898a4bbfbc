package server

import "TrendScope/internal/calculator"

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError describes one rejected query parameter.
type ValidationError struct {
	Code    string                 `json:"code,omitempty"`
	Field   string                 `json:"field,omitempty"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// IndicatorInfo lists one indicator kind served by /api/indicators.
type IndicatorInfo struct {
	Kind     calculator.Kind `json:"kind"`
	Columns  []string        `json:"columns"`
	FirstRow int             `json:"first_row"`
	Enabled  bool            `json:"enabled"`
}

// HealthStatus is the /healthz payload.
type HealthStatus struct {
	Status string `json:"status"`
	Source string `json:"source"`
}
