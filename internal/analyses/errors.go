package analyses

import "errors"

var ErrNotFound = errors.New("not found")

const (
	ErrorCodeValidation = "validation_error"
	ErrorCodeNotFound   = "not_found"
	ErrorCodeInternal   = "internal_error"
)
