package app

import "errors"

// ErrorKind is the closed set of failure categories handlers can report.
// Every user-visible failure is one of these; raw error text never reaches
// the browser.
type ErrorKind int

const (
	// KindValidation covers expected input failures: the user is sent back
	// to the originating form with a message.
	KindValidation ErrorKind = iota
	// KindUnauthenticated covers requests that need a logged-in session.
	KindUnauthenticated
	// KindPermissionDenied covers acting on another user's resources.
	KindPermissionDenied
	// KindNotFound covers lookups of rows that do not exist.
	KindNotFound
	// KindInternal covers datastore and other unexpected faults.
	KindInternal
)

// Error is the application error carried from handlers to the error handler.
// Message and Title are safe for display; Err is for logs only.
type Error struct {
	Err     error
	Title   string
	Message string
	Back    string // path the user can retry from
	Kind    ErrorKind
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports an expected input failure. The user is redirected to
// back with the message attached.
func Validation(message, back string) *Error {
	return &Error{Kind: KindValidation, Message: message, Back: back}
}

// Unauthenticated reports a request that requires a logged-in session.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// PermissionDenied reports an attempt to act on someone else's resource.
func PermissionDenied(message string) *Error {
	return &Error{Kind: KindPermissionDenied, Title: "permission denied", Message: message, Back: "/"}
}

// NotFound reports a missing resource.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Title: "not found", Message: message, Back: "/"}
}

// Internal wraps an unexpected fault. The underlying error is logged; the
// user sees only a generic marker.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Err: err, Title: "error", Message: "unhandled error", Back: "/"}
}

// AsError extracts the app Error, or wraps err as internal if it is not one.
func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
