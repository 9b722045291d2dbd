package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	// ErrConfigNotFound indicates the named configuration is absent.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrInvalidConfig indicates a configuration failed eager validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownBuilder indicates a builder name with no registered builder.
	ErrUnknownBuilder = errors.New("unknown model builder")
)
