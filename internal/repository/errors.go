package repository

import "errors"

// ErrNotFound is returned when an operation addresses an id that is not in
// the collection. The mobile app's storage layer silently ignored this case;
// here it is explicit so callers must decide what a missing record means.
var ErrNotFound = errors.New("record not found")
