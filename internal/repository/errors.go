package repository

import "errors"

// ErrNotFound is returned when a query matches no rows. Callers
// that treat a miss as normal (aggregations joining independently
// fetched collections) check for it with errors.Is.
var ErrNotFound = errors.New("record not found")
