package domain

import "errors"

// ErrNotFound marks a resource the API has no record of.
var ErrNotFound = errors.New("not found")
