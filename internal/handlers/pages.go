package handlers

import (
	"net/http"

	"github.com/quillhq/quill/internal/app"
	"github.com/quillhq/quill/internal/views"
)

const (
	recentLimit = 50
	homeLimit   = 5
)

// Pages serves the landing page, the public feed, and the error page.
type Pages struct {
	posts PostStore
}

func NewPages(posts PostStore) *Pages {
	return &Pages{posts: posts}
}

func (h *Pages) Routes(r app.Router) {
	r.GET("/", h.home)
	r.GET("/recent", h.recent)
	r.GET("/error", h.errorPage)
}

func (h *Pages) home(c app.Context) error {
	latest, err := h.posts.Recent(c.Context(), homeLimit)
	if err != nil {
		return app.Internal(err)
	}
	return c.Render(http.StatusOK, views.Home{
		Message:  c.Query("message"),
		Posts:    latest,
		LoggedIn: c.IsAuthenticated(),
	})
}

func (h *Pages) recent(c app.Context) error {
	posts, err := h.posts.Recent(c.Context(), recentLimit)
	if err != nil {
		return app.Internal(err)
	}
	return c.Render(http.StatusOK, views.Recent{Posts: posts})
}

func (h *Pages) errorPage(c app.Context) error {
	message := c.Query("message")
	if message == "" {
		message = c.QueryDefault("msg", "unhandled error")
	}
	return c.Render(http.StatusOK, views.Error{
		Title:   c.QueryDefault("title", "error"),
		Message: message,
		Back:    c.Query("back"),
	})
}
