package loader

import "fmt"

// ErrorKind enumerates the ways a conversion can fail.
type ErrorKind uint8

const (
	// KindInvalidOBJ wraps a diagnostic from the OBJ parser.
	KindInvalidOBJ ErrorKind = iota + 1
	// KindUnknownVertexFormat is returned for a tier outside 1..3.
	KindUnknownVertexFormat
)

// String returns the error message for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidOBJ:
		return "invalid OBJ file"
	case KindUnknownVertexFormat:
		return "unknown vertex format"
	default:
		return fmt.Sprintf("unknown error kind %d", k)
	}
}

// Error is the single error type returned by the loader.
type Error struct {
	Kind ErrorKind
	Err  error
}

// Sentinel values for errors.Is.
var (
	ErrInvalidOBJ          = &Error{Kind: KindInvalidOBJ}
	ErrUnknownVertexFormat = &Error{Kind: KindUnknownVertexFormat}
)

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

// Unwrap returns the upstream diagnostic, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func invalidOBJ(err error) error {
	return &Error{Kind: KindInvalidOBJ, Err: err}
}
