package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrNoEvaluator    = errors.New("no evaluation function configured")
	ErrDuplicateRun   = errors.New("duplicate run")
	ErrQueueFull      = errors.New("run queue full")
	ErrIterationRange = errors.New("iteration out of range")
)
