// Package handlers wires HTTP routes to the datastore. Handlers validate
// input, call the stores, and answer with a rendered page or a redirect;
// every mutation responds with a 303 redirect on both success and failure.
package handlers

import (
	"context"

	"github.com/quillhq/quill/internal/app"
	"github.com/quillhq/quill/internal/models"
	"github.com/quillhq/quill/internal/repository"
)

// UserStore is the user persistence surface handlers depend on.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (models.User, error)
	ByID(ctx context.Context, id int64) (models.User, error)
	ByEmail(ctx context.Context, email string) (models.User, error)
	ByUsername(ctx context.Context, username string) (models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UpdateAbout(ctx context.Context, id int64, about string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// PostStore is the post persistence surface handlers depend on.
type PostStore interface {
	Create(ctx context.Context, authorID int64, title, content string) (models.Post, error)
	ByID(ctx context.Context, id int64) (models.PostWithAuthor, error)
	ByAuthor(ctx context.Context, authorID int64) ([]models.Post, error)
	Recent(ctx context.Context, limit int) ([]models.PostWithAuthor, error)
	Update(ctx context.Context, id int64, title, content string) error
	Delete(ctx context.Context, id int64) error
}

var (
	_ UserStore = (*repository.Users)(nil)
	_ PostStore = (*repository.Posts)(nil)
)

// requireUser returns the session's user id, or an unauthenticated error
// that sends the visitor to the login page.
func requireUser(c app.Context) (int64, error) {
	id := c.UserID()
	if id == 0 {
		return 0, app.Unauthenticated("please log in first")
	}
	return id, nil
}
