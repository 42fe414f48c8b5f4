package grading

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors for each way a query can be rejected. Their messages are
// returned to clients as-is.
var (
	ErrMissingParameters = errors.New("Missing parameters")
	ErrMalformedQuery    = errors.New("Malformed query")
	ErrInvalidScore      = errors.New("Invalid score")
)

// QueryError describes why a query was rejected. Kind is one of the
// sentinel errors above.
type QueryError struct {
	Kind   error
	Detail string
}

func (e *QueryError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Detail
}

// Cause lets errors.Cause resolve a QueryError to its sentinel.
func (e *QueryError) Cause() error {
	return e.Kind
}

func (e *QueryError) Unwrap() error {
	return e.Kind
}

func queryError(kind error, format string, args ...interface{}) error {
	return errors.WithStack(&QueryError{
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	})
}
