package types

import "errors"

// Sentinel kinds shared by the service and its transports.
var (
	ErrInvalidVote = errors.New("invalid vote")
	ErrNotFound    = errors.New("image not found")
)
