package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
// This abstracts away the underlying storage implementation from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrVersionConflict is returned when a published schedule changed between
// read and write.
var ErrVersionConflict = errors.New("published schedule version changed")

// ErrInvalidSide is returned for a score side other than "a" or "b".
var ErrInvalidSide = errors.New("invalid score side")
