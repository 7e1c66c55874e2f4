package repositories

import "errors"

// Sentinel errors shared by all repositories so handlers can map them to
// HTTP statuses without string matching.
var (
	// ErrNotFound means the requested document does not exist
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate means a unique field (email, username) is already taken
	ErrDuplicate = errors.New("document already exists")
)
