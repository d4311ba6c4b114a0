package rewrite

import "errors"

// Sentinel errors surfaced by ForwardService. Anything else coming out of the
// service is an unexpected store or directory failure and must be treated as
// an internal error by callers; the concrete failure kind is deliberately not
// distinguished.
var (
	// ErrForwardNotFound indicates that the queried address has no
	// forward-kind mappings.
	ErrForwardNotFound = errors.New("forward does not exist")

	// ErrBaseUserNotFound indicates that the base address of a forward does
	// not correspond to an existing user.
	ErrBaseUserNotFound = errors.New("base forward address does not correspond to a user")

	// ErrDestinationMissing indicates that the destination address parameter
	// was absent from the request.
	ErrDestinationMissing = errors.New("destination address not specified")
)
