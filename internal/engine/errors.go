package engine

import "errors"

var (
	// ErrUnauthorized reports a privileged operation invoked by a caller
	// other than the designated owner identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotInitialized reports a registration before the weight table's
	// genesis initialization.
	ErrNotInitialized = errors.New("weight table not initialized")
	// ErrBatchLimit reports a batch request exceeding the id cap.
	ErrBatchLimit = errors.New("batch exceeds id limit")
)
