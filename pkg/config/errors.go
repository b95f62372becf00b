package config

import "errors"

var (
	// ErrNilPointer indicates Load was given a nil destination
	ErrNilPointer = errors.New("config.nil_pointer")

	// ErrParsingConfig indicates environment parsing failed
	ErrParsingConfig = errors.New("config.parsing_failed")

	// ErrInvalidConfig indicates the parsed values failed validation
	ErrInvalidConfig = errors.New("config.invalid")
)
