// Package batteryerr defines the error kinds shared across the planning,
// simulation, and search layers.
package batteryerr

import "errors"

// Kind classifies an error the way callers are expected to branch on.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidParameter
	KindMissingData
	KindSolverError
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindInvalidParameter:
		return "InvalidParameter"
	case KindMissingData:
		return "MissingData"
	case KindSolverError:
		return "SolverError"
	case KindCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with a Kind so callers can branch with
// errors.As without parsing message strings.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, Msg: msg, Err: err}
}

func InvalidParameter(msg string) *Error        { return newErr(KindInvalidParameter, msg, nil) }
func MissingData(msg string) *Error             { return newErr(KindMissingData, msg, nil) }
func SolverError(msg string, err error) *Error  { return newErr(KindSolverError, msg, err) }
func Cancelled(msg string) *Error               { return newErr(KindCancelled, msg, nil) }

// Is reports whether err carries the given Kind.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
