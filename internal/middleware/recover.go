package middleware

import (
	"fmt"
	"runtime"

	"github.com/quillhq/quill/internal/app"
)

// maxStackSize caps the captured stack trace.
const maxStackSize = 4096

// PanicError carries a recovered panic to the error handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Recover converts handler panics into errors for the app error handler,
// logging the panic with its stack trace.
func Recover() app.Middleware {
	return func(next app.HandlerFunc) app.HandlerFunc {
		return func(c app.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, maxStackSize)
					n := runtime.Stack(stack, false)
					stack = stack[:n]

					c.LogError("panic recovered", "panic", r, "stack", string(stack))

					err = &PanicError{Value: r, Stack: stack}
				}
			}()

			return next(c)
		}
	}
}
