package handlers

import (
	"net/http"
	"net/url"

	"github.com/quillhq/quill/internal/app"
)

// ErrorHandler turns handler errors into redirects. Validation failures go
// back to the originating form, missing-session failures go to the login
// page, and everything else lands on the shared error page with only safe
// display strings attached.
func ErrorHandler(c app.Context, err error) error {
	appErr := app.AsError(err)

	if appErr.Kind == app.KindInternal {
		c.LogError("request failed", "error", appErr.Err)
	}

	switch appErr.Kind {
	case app.KindValidation:
		back := appErr.Back
		if back == "" {
			back = "/"
		}
		return c.Redirect(http.StatusSeeOther, withQuery(back, "message", appErr.Message))
	case app.KindUnauthenticated:
		return c.Redirect(http.StatusSeeOther, withQuery("/login", "message", appErr.Message))
	default:
		return c.Redirect(http.StatusSeeOther, errorURL(appErr.Title, appErr.Message, appErr.Back))
	}
}

// NotFoundHandler handles unmatched routes by redirecting to the error page.
func NotFoundHandler(c app.Context) error {
	return c.Redirect(http.StatusSeeOther, errorURL("not found", "page not found", "/"))
}

func withQuery(path, key, value string) string {
	u, err := url.Parse(path)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}

func errorURL(title, message, back string) string {
	q := url.Values{}
	if title != "" {
		q.Set("title", title)
	}
	if message != "" {
		q.Set("message", message)
	}
	if back != "" {
		q.Set("back", back)
	}
	return "/error?" + q.Encode()
}
