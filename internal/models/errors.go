package models

import "errors"

var (
	// ErrUnknownCode is returned when a single-character status code is not
	// in the tool's lookup table
	ErrUnknownCode = errors.New("unknown status code")

	// ErrFormat is returned when the tool output does not have the expected shape
	ErrFormat = errors.New("unexpected output format")
)
