package service

import "errors"

var (
	// ErrResultExpired is returned when a submission's cached result is gone
	ErrResultExpired = errors.New("result not found or expired")
)
