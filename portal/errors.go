package portal

import "errors"

var (
	ErrBadPortalURL     = errors.New("portal: invalid portal url")
	ErrRequestFailed    = errors.New("portal: request failed")
	ErrNotFound         = errors.New("portal: not found")
	ErrUnexpectedStatus = errors.New("portal: unexpected status")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
