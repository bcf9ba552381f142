package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFetched is matched by every error an accessor returns when its key was not populated
	// by the operation that produced the record.
	ErrNotFetched = errors.New("metadata not fetched")
)

// NotFetchedError names the key that was read without being present. It signals a caller bug: the
// producing stat or list call was never asked for that key.
type NotFetchedError struct {
	Key Key
}

func (e *NotFetchedError) Error() string {
	return fmt.Sprintf("metadata key %q was not fetched", e.Key)
}

func (e *NotFetchedError) Is(target error) bool {
	return target == ErrNotFetched
}
