package audit

import "errors"

var (
	// Validation errors
	ErrEmptySource = errors.New("contract source cannot be empty")

	// State transition errors
	ErrNotValidated = errors.New("audit must be validated before publishing")
)
