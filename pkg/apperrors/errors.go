package apperrors

import "errors"

var (
	ErrUnknownTable  = errors.New("table is not in the explorer allowlist")
	ErrEmptyQuestion = errors.New("question must not be empty")
)
