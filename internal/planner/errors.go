package planner

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is the sentinel for requests that cannot be planned
var ErrInvalidRequest = errors.New("invalid request")

// Reasons reported by RequestError
const (
	ReasonEmptySpecies     = "at least one target species must be specified"
	ReasonUnknownLocation  = "unknown base location"
	ReasonInvalidStopCount = "invalid stop count"
	ReasonInvalidDayCount  = "invalid day count"
)

// RequestError explains which precondition of a planning request failed
type RequestError struct {
	Field  string
	Reason string
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid request: %s: %s (%s)", e.Field, e.Reason, e.Detail)
	}
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidRequest) match
func (e *RequestError) Unwrap() error {
	return ErrInvalidRequest
}

func invalid(field, reason, detail string) error {
	return &RequestError{Field: field, Reason: reason, Detail: detail}
}
