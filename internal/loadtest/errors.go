package loadtest

import "errors"

// Sentinel errors.
var (
	ErrConfig           = errors.New("invalid load configuration")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrRequestsFailed   = errors.New("requests failed")
	ErrInconsistent     = errors.New("inconsistent menu state")
)
