package errors

import stderrors "errors"

// Error carries a Code next to its message. Metadata holds values such as
// the stat that ran out; Cause is the lower-level error, if any.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

// New returns an error with code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata is New plus key/value context.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap attaches code and message to cause. The cause stays reachable
// through errors.Is and errors.As but is not part of the message.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error with the same code, so a bare New(code, "") works
// as a sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Kind groups the code for callers that only care about the category.
func (e *Error) Kind() Kind { return e.Code.Kind() }

// CodeOf finds the outermost *Error in err's chain. Anything else,
// including nil, is CodeUnknown.
func CodeOf(err error) Code {
	var coded *Error
	if !stderrors.As(err, &coded) {
		return CodeUnknown
	}
	return coded.Code
}

// KindOf is CodeOf(err).Kind().
func KindOf(err error) Kind {
	return CodeOf(err).Kind()
}
