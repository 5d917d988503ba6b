package repository

import "errors"

// ErrSessionNotFound is returned by GetSession for unknown or expired IDs.
var ErrSessionNotFound = errors.New("session not found in store")
