package repository

import "errors"

// ErrHoldNotFound is the single absent state a hold store reports. It
// deliberately collapses "never reserved", "cancelled", "confirmed" and
// "expired"; stores keep no history that could tell them apart.
var ErrHoldNotFound = errors.New("hold not found")
