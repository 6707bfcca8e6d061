package handlers

import (
	"errors"
	"net/http"

	"github.com/quillhq/quill/internal/app"
	"github.com/quillhq/quill/internal/repository"
	"github.com/quillhq/quill/internal/validate"
	"github.com/quillhq/quill/internal/views"
)

// Profile serves the signed-in user's own profile, public author pages,
// and the about-text update.
type Profile struct {
	users UserStore
	posts PostStore
}

func NewProfile(users UserStore, posts PostStore) *Profile {
	return &Profile{users: users, posts: posts}
}

func (h *Profile) Routes(r app.Router) {
	r.GET("/profile", h.own)
	r.POST("/profile", h.updateAbout)
	r.GET("/profile/{username}", h.public)
}

func (h *Profile) own(c app.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	user, err := h.users.ByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Session points at a deleted account; drop it.
			if derr := c.DestroySession(); derr != nil {
				return app.Internal(derr)
			}
			return app.Unauthenticated("please log in first")
		}
		return app.Internal(err)
	}

	posts, err := h.posts.ByAuthor(c.Context(), userID)
	if err != nil {
		return app.Internal(err)
	}

	return c.Render(http.StatusOK, views.Profile{
		User:    user,
		Posts:   posts,
		Message: c.Query("message"),
	})
}

func (h *Profile) updateAbout(c app.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	about := c.Form("about")
	switch {
	case about == "":
		return app.Validation("fill out all fields", "/profile")
	case !validate.WithinLimit(about, validate.MaxAboutLen):
		return app.Validation("about text is too long", "/profile")
	}

	if err := h.users.UpdateAbout(c.Context(), userID, about); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return app.NotFound("user not found")
		}
		return app.Internal(err)
	}

	return c.Redirect(http.StatusSeeOther, withQuery("/profile", "message", "profile updated"))
}

func (h *Profile) public(c app.Context) error {
	username := c.Param("username")

	user, err := h.users.ByUsername(c.Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return app.NotFound("no such user")
		}
		return app.Internal(err)
	}

	// The owner's public page is the editable one.
	if c.UserID() == user.ID {
		return c.Redirect(http.StatusSeeOther, "/profile")
	}

	posts, err := h.posts.ByAuthor(c.Context(), user.ID)
	if err != nil {
		return app.Internal(err)
	}

	return c.Render(http.StatusOK, views.ProfilePublic{User: user, Posts: posts})
}
