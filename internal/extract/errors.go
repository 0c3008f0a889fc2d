package extract

import (
	"fmt"
	"time"
)

// FormatError indicates the document bytes could not be parsed as the format
// the extractor expected. Extraction is all-or-nothing: a FormatError means
// no partial content was produced.
type FormatError struct {
	Format string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed %s document: %v", e.Format, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// TimeoutError indicates the layout-analysis job did not complete within the
// configured deadline.
type TimeoutError struct {
	Deadline time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("layout analysis did not complete within %s", e.Deadline)
}
