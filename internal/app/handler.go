// Package app is the request framework for quill: a Context interface over
// chi routing, a session manager, a closed error model, and the server
// runtime with graceful shutdown.
package app

// Handler declares routes on a router.
//
// Example:
//
//	type AuthHandler struct {
//	    users handlers.UserStore
//	}
//
//	func (h *AuthHandler) Routes(r app.Router) {
//	    r.GET("/login", h.showLogin)
//	    r.POST("/login", h.login)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers. Returning a non-nil error
// hands control to the app's error handler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler translates handler errors into responses.
type ErrorHandler func(Context, error) error
