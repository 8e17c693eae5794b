package contract

import "errors"

var (
	ErrEmptySource = errors.New("contract source cannot be empty")
)
