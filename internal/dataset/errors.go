package dataset

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns absent from the header.
// The upload must be rejected as a whole.
type SchemaError struct {
	// Missing lists the missing column headers in the file's dialect.
	Missing []string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) == 1 {
		return fmt.Sprintf("missing required column: %s", e.Missing[0])
	}
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// FieldError reports a bad cell. Row is the 1-based row below the header in
// the source file, blank rows included.
type FieldError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d, column %s: %s", e.Row, e.Column, e.Reason)
	}
	return fmt.Sprintf("row %d, column %s: %s (got %q)", e.Row, e.Column, e.Reason, e.Value)
}
