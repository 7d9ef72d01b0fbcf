package manifest

import (
	"fmt"
)

// ErrInvalidJSON means the manifest is not a valid UTF-8 encoded JSON document.
type ErrInvalidJSON struct {
	Reason string
}

func (err ErrInvalidJSON) Error() string {
	return fmt.Sprintf("the manifest is not a valid JSON document: %s", err.Reason)
}

// ErrNotArray means the top-level JSON value is not an array.
type ErrNotArray struct {
	Type string
}

func (err ErrNotArray) Error() string {
	return fmt.Sprintf("expected the manifest to be a JSON array, but got %s", err.Type)
}
