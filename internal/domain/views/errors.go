package views

import "errors"

// Sentinel kinds for view builder errors.
var (
	// ErrSchema indicates a requested metric is absent from a record.
	ErrSchema = errors.New("metric column missing")

	// ErrUnknownConfiguration indicates a configuration present in the data
	// but absent from the caller-supplied ordering.
	ErrUnknownConfiguration = errors.New("configuration not in ordering")

	// ErrUnknownMetric indicates a long-form metric with no style entry.
	ErrUnknownMetric = errors.New("metric not in style mapping")
)
