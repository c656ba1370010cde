package models

import "errors"

// ErrPropertyNotFound means no property record matched the requested ID.
// Shared between the store and the pricing engine so callers can test with
// errors.Is regardless of which layer produced it.
var ErrPropertyNotFound = errors.New("property not found")
