package skylink

import "errors"

var (
	ErrInvalidLength   = errors.New("skylink: invalid length")
	ErrInvalidEncoding = errors.New("skylink: invalid encoding")
)
