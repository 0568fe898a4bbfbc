package model

import (
	"fmt"
	"math"
	"time"
)

// Bar represents one trading day.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds the daily bars of one ticker, ascending by date.
type PriceSeries struct {
	Ticker string `json:"ticker"`
	Bars   []Bar  `json:"bars"`
}

// Date returns the calendar date y-m-d at midnight UTC.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TruncateDay drops the clock part of t, keeping its calendar date in t's location.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

func (s PriceSeries) Len() int { return len(s.Bars) }

func (s PriceSeries) Empty() bool { return len(s.Bars) == 0 }

// Last returns the most recent bar. The series must not be empty.
func (s PriceSeries) Last() Bar { return s.Bars[len(s.Bars)-1] }

func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

func (s PriceSeries) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

func (s PriceSeries) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

func (s PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Date
	}
	return out
}

// Validate checks the ordering and value invariants of the series.
func (s PriceSeries) Validate() error {
	for i, b := range s.Bars {
		for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return fmt.Errorf("bar %s: values must be finite and non-negative", b.Date.Format(DateLayout))
			}
		}
		if i > 0 && !b.Date.After(s.Bars[i-1].Date) {
			return fmt.Errorf("bar %s: dates must be strictly increasing", b.Date.Format(DateLayout))
		}
	}
	return nil
}

// DateLayout is the calendar date format used across inputs and outputs.
const DateLayout = "2006-01-02"
