package eval

import "errors"

// Sentinel kinds for evaluator errors.
var (
	// ErrPrediction indicates the model lacks a required prediction capability
	// or returned malformed predictions.
	ErrPrediction = errors.New("prediction capability error")

	// ErrInput indicates malformed evaluation inputs (empty or mismatched
	// feature/label lengths).
	ErrInput = errors.New("invalid evaluation input")
)
