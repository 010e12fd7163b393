package domain

import "errors"

var (
	// ErrStoreUnavailable signals a connectivity or query failure against the data store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrSearchUnavailable signals a failed lesson search.
	ErrSearchUnavailable = errors.New("search unavailable")
	// ErrInvalidPayload signals a request body missing the fields the operation interprets.
	ErrInvalidPayload = errors.New("invalid payload")
)
