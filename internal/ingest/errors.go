package ingest

import (
	"errors"
	"fmt"
)

// ErrEmptyFile is returned when an upload has no header row.
var ErrEmptyFile = errors.New("file is empty")

// MalformedFileError reports an upload that could not be parsed as a table.
type MalformedFileError struct {
	Name string
	Err  error
}

func (e *MalformedFileError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("malformed file: %v", e.Err)
	}
	return fmt.Sprintf("malformed file %q: %v", e.Name, e.Err)
}

func (e *MalformedFileError) Unwrap() error {
	return e.Err
}
