package domain

import "fmt"

// MalformedRecordError reports a record file that could not be decoded:
// a missing required header key or an unparseable value or data row.
type MalformedRecordError struct {
	Path   string // May be empty when decoding from memory
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("malformed record %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("malformed record: %s", e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// InsufficientSamplesError reports a statistics request over fewer than two
// records, for which standard deviation is undefined.
type InsufficientSamplesError struct {
	Got int
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("statistics need at least 2 tests, got %d", e.Got)
}
