package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quillhq/quill/pkg/session"
)

// Component is a renderable page or fragment.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Context provides request/response access and helper methods.
// It implements context.Context by delegating to the request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns a URL parameter value, or "" if absent.
	Param(name string) string

	// Query returns a query parameter value, or "" if absent.
	Query(name string) string

	// QueryDefault returns a query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// Form returns a form value, parsing the form on first access.
	Form(name string) string

	// Header returns a request header value.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// Render renders a component with the given status code.
	Render(code int, component Component) error

	// String writes a plain text response.
	String(code int, s string) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect sends a redirect to the given URL.
	Redirect(code int, url string) error

	// Written reports whether a response has already been written.
	Written() bool

	// Logger returns the request logger.
	Logger() *slog.Logger

	// LogDebug logs at debug level with the request context attached.
	LogDebug(msg string, attrs ...any)

	// LogInfo logs at info level with the request context attached.
	LogInfo(msg string, attrs ...any)

	// LogWarn logs at warn level with the request context attached.
	LogWarn(msg string, attrs ...any)

	// LogError logs at error level with the request context attached.
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get retrieves a value from the request context, or nil.
	Get(key any) any

	// UserID returns the session's user id, or 0 for anonymous visitors.
	// The session is loaded lazily on first call.
	UserID() int64

	// IsAuthenticated reports whether a user is bound to the session.
	IsAuthenticated() bool

	// Session returns the current session, loading it if needed.
	// Returns nil, nil when the visitor has no session.
	Session() (*session.Session, error)

	// AuthenticateSession binds a user to the session and rotates the
	// token. Creates a session first if the visitor has none.
	AuthenticateSession(userID int64) error

	// DestroySession deletes the session and clears the cookie.
	// A no-op for visitors without a session.
	DestroySession() error

	// ResponseWriter returns the wrapped response writer.
	ResponseWriter() *ResponseWriter
}

// requestContext implements Context.
type requestContext struct {
	response       *ResponseWriter
	request        *http.Request
	logger         *slog.Logger
	sessionManager *SessionManager
	session        *session.Session

	sessionLoaded         bool
	sessionHookRegistered bool
}

func newContext(w http.ResponseWriter, r *http.Request, logger *slog.Logger, sm *SessionManager) *requestContext {
	return &requestContext{
		response:       NewResponseWriter(w),
		request:        r,
		logger:         logger,
		sessionManager: sm,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.request.URL.Query().Get(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) Render(code int, component Component) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Written() bool {
	return c.response.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) UserID() int64 {
	sess, err := c.Session()
	if err != nil || sess == nil || sess.UserID == nil {
		return 0
	}
	return *sess.UserID
}

func (c *requestContext) IsAuthenticated() bool {
	return c.UserID() != 0
}

// registerSessionHook arranges for dirty sessions to be flushed to the store
// right before the response starts.
func (c *requestContext) registerSessionHook() {
	if c.sessionHookRegistered || c.sessionManager == nil {
		return
	}
	c.sessionHookRegistered = true
	c.response.OnBeforeWrite(func() {
		if c.session != nil && c.session.IsDirty() {
			// Best effort; a failed save must not interrupt the response.
			if err := c.sessionManager.Store().Update(c.Context(), c.session); err != nil {
				c.logger.ErrorContext(c.Context(), "failed to save session", "error", err)
				return
			}
			c.session.ClearDirty()
		}
	})
}

func (c *requestContext) Session() (*session.Session, error) {
	if c.sessionManager == nil {
		return nil, session.ErrNotConfigured
	}

	c.registerSessionHook()

	if c.sessionLoaded {
		return c.session, nil
	}

	sess, err := c.sessionManager.LoadSession(c.Context(), c.request)
	if err != nil {
		// A stale or unknown cookie reads as anonymous, not as a fault.
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
			c.sessionLoaded = true
			return nil, nil
		}
		return nil, err
	}

	c.session = sess
	c.sessionLoaded = true
	return c.session, nil
}

func (c *requestContext) AuthenticateSession(userID int64) error {
	if c.sessionManager == nil {
		return session.ErrNotConfigured
	}

	sess, err := c.Session()
	if err != nil {
		return err
	}
	if sess == nil {
		sess, err = c.sessionManager.CreateSession(c.Context())
		if err != nil {
			return err
		}
		c.session = sess
		c.sessionLoaded = true
	}

	sess.UserID = &userID
	sess.MarkDirty()

	// Rotate the token so a pre-login cookie cannot be replayed.
	if err := c.sessionManager.RotateToken(c.Context(), sess); err != nil {
		return err
	}

	c.sessionManager.SaveSession(c.response, sess)
	return nil
}

func (c *requestContext) DestroySession() error {
	if c.sessionManager == nil {
		return session.ErrNotConfigured
	}

	sess, err := c.Session()
	if err != nil {
		return err
	}
	if sess != nil {
		if err := c.sessionManager.Store().Delete(c.Context(), sess.ID); err != nil {
			return err
		}
	}

	c.sessionManager.ClearCookie(c.response)

	c.session = nil
	c.sessionLoaded = true
	return nil
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.response
}
