package tui

import "errors"

// ErrMissingPostService is returned when the post service is not provided.
var ErrMissingPostService = errors.New("tui: post service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
