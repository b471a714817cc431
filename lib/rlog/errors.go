package rlog

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedTimestamp is returned when a commit header date matches no known format.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	// ErrStructuralViolation is returned when a line appears where the report layout does not allow it.
	ErrStructuralViolation = errors.New("structural violation")
	// ErrLocationNotFound is returned when the requested branch or tag is not in the report
	// and falling back to the mainline is disabled.
	ErrLocationNotFound = errors.New("revision not found for requested location")
)

// ParseError is a fatal error at a specific line of the report.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %v: %v (%q)", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func structuralViolation(format string, a ...any) error {
	return errors.Wrapf(ErrStructuralViolation, format, a...)
}
