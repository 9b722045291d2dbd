package repository

import "errors"

// Sentinel kinds for results store errors.
var (
	// ErrDuplicate indicates a record with the same run key already exists.
	ErrDuplicate = errors.New("duplicate run key")

	// ErrMetricRange indicates a metric value outside [0,1].
	ErrMetricRange = errors.New("metric value out of range")

	// ErrSchema indicates a results table missing required columns or
	// carrying unparseable values.
	ErrSchema = errors.New("results schema error")
)
