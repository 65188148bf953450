package repos

import "errors"

var (
	// ErrMissingID is a caller precondition failure, raised before any query
	// runs. Callers must be able to tell it apart from a store failure.
	ErrMissingID = errors.New("missing identifier")

	// ErrNoAuthenticatedUser rejects writes attempted without an owner id.
	ErrNoAuthenticatedUser = errors.New("no authenticated user")
)
