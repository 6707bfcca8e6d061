package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/quillhq/quill/internal/app"
	"github.com/quillhq/quill/internal/models"
	"github.com/quillhq/quill/internal/repository"
	"github.com/quillhq/quill/internal/validate"
	"github.com/quillhq/quill/internal/views"
)

// deleteToken is what the author must type to confirm a hard delete.
const deleteToken = "confirm"

// Posts serves post creation, viewing, editing, and deletion.
type Posts struct {
	posts PostStore
}

func NewPosts(posts PostStore) *Posts {
	return &Posts{posts: posts}
}

func (h *Posts) Routes(r app.Router) {
	r.GET("/post/new", h.newForm)
	r.POST("/post/new", h.create)
	r.GET("/post/{id}", h.view)
	r.POST("/post/{id}", h.update)
	r.GET("/post/{id}/del", h.deleteForm)
	r.POST("/post/{id}/del", h.delete)
}

// validatePost checks the shared title/content rules for create and edit.
// Returns a validation error pointing back to the given form path, or nil.
func validatePost(title, content, back string) error {
	switch {
	case !validate.AllPresent(title, content):
		return app.Validation("fill out all fields", back)
	case !validate.WithinLimit(title, validate.MaxTitleLen):
		return app.Validation("title is too long", back)
	case !validate.WithinLimit(content, validate.MaxContentLen):
		return app.Validation("content is too long", back)
	}
	return nil
}

func (h *Posts) newForm(c app.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.PostForm{Message: c.Query("message")})
}

func (h *Posts) create(c app.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	title := c.Form("title")
	content := c.Form("content")
	if err := validatePost(title, content, "/post/new"); err != nil {
		return err
	}

	post, err := h.posts.Create(c.Context(), userID, title, content)
	if err != nil {
		return app.Internal(err)
	}

	c.LogInfo("post created", "post_id", post.ID, "user_id", userID)
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/post/%d", post.ID))
}

// loadOwned fetches a post and verifies the session user is its author.
func (h *Posts) loadOwned(c app.Context, userID int64) (models.PostWithAuthor, error) {
	post, err := h.posts.ByID(c.Context(), app.ParamInt64(c, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.PostWithAuthor{}, app.NotFound("post not found")
		}
		return models.PostWithAuthor{}, app.Internal(err)
	}
	if post.AuthorID != userID {
		return models.PostWithAuthor{}, app.PermissionDenied("this post belongs to someone else")
	}
	return post, nil
}

func (h *Posts) view(c app.Context) error {
	post, err := h.posts.ByID(c.Context(), app.ParamInt64(c, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return app.NotFound("post not found")
		}
		return app.Internal(err)
	}

	// Anonymous visitors simply see no edit affordances.
	canEdit := c.UserID() == post.AuthorID

	if c.Query("edit") != "" {
		if !canEdit {
			return app.PermissionDenied("this post belongs to someone else")
		}
		return c.Render(http.StatusOK, views.PostForm{
			Title:   post.Title,
			Content: post.Content,
			Message: c.Query("message"),
			PostID:  post.ID,
			Edit:    true,
		})
	}

	return c.Render(http.StatusOK, views.Post{
		Post:        post,
		ContentHTML: views.RenderContent(post.Content),
		CanEdit:     canEdit,
	})
}

func (h *Posts) update(c app.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	post, err := h.loadOwned(c, userID)
	if err != nil {
		return err
	}

	title := c.Form("title")
	content := c.Form("content")
	back := fmt.Sprintf("/post/%d?edit=1", post.ID)
	if err := validatePost(title, content, back); err != nil {
		return err
	}

	if err := h.posts.Update(c.Context(), post.ID, title, content); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return app.NotFound("post not found")
		}
		return app.Internal(err)
	}

	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/post/%d", post.ID))
}

func (h *Posts) deleteForm(c app.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	post, err := h.loadOwned(c, userID)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, views.DeleteConfirm{Title: post.Title, PostID: post.ID})
}

func (h *Posts) delete(c app.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	post, err := h.loadOwned(c, userID)
	if err != nil {
		return err
	}

	if !strings.EqualFold(c.Form("confirm"), deleteToken) {
		return app.Validation("type confirm to delete the post", fmt.Sprintf("/post/%d/del", post.ID))
	}

	if err := h.posts.Delete(c.Context(), post.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return app.NotFound("post not found")
		}
		return app.Internal(err)
	}

	c.LogInfo("post deleted", "post_id", post.ID, "user_id", userID)
	return c.Redirect(http.StatusSeeOther, withQuery("/profile", "message", "post deleted"))
}
