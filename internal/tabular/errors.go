package tabular

import "errors"

var (
	// ErrUpstreamUnavailable covers network, auth and timeout failures reaching the store
	ErrUpstreamUnavailable = errors.New("tabular store unavailable")
	// ErrUpstreamRejected means the store refused a write (quota, schema, validation)
	ErrUpstreamRejected = errors.New("tabular store rejected the write")
	// ErrRangeNotFound means the named sheet or range does not exist
	ErrRangeNotFound = errors.New("range not found")
)
