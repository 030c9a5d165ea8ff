package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by the bookmark store when a bookmark or folder
// does not exist.
var ErrNotFound = errors.New("not found")

// HostAPIError reports a failed call against the bookmark store.
type HostAPIError struct {
	Op  string // store operation, e.g. "move"
	ID  string // target bookmark or folder id
	Err error
}

func (e *HostAPIError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
}

func (e *HostAPIError) Unwrap() error {
	return e.Err
}
