// Package views renders the HTML pages. Each page is a small struct
// implementing app.Component; templates are embedded and parsed once.
package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/quillhq/quill/internal/models"
	"github.com/quillhq/quill/pkg/sanitizer"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderContent converts post content from markdown to sanitized HTML.
func RenderContent(content string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		// Fall back to the escaped plain text.
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(sanitizer.PostHTML(buf.String()))
}

func render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Home is the landing page with the latest posts.
type Home struct {
	Message  string
	Posts    []models.PostWithAuthor
	LoggedIn bool
}

func (p Home) Render(_ context.Context, w io.Writer) error {
	return render(w, "home.html", p)
}

// Login is the sign-in form.
type Login struct {
	Message string
}

func (p Login) Render(_ context.Context, w io.Writer) error {
	return render(w, "login.html", p)
}

// Register is the account creation form.
type Register struct {
	Message string
}

func (p Register) Render(_ context.Context, w io.Writer) error {
	return render(w, "register.html", p)
}

// Profile is the signed-in user's own profile with edit affordances.
type Profile struct {
	User    models.User
	Posts   []models.Post
	Message string
}

func (p Profile) Render(_ context.Context, w io.Writer) error {
	return render(w, "profile.html", p)
}

// ProfilePublic is another author's profile, read-only.
type ProfilePublic struct {
	User  models.User
	Posts []models.Post
}

func (p ProfilePublic) Render(_ context.Context, w io.Writer) error {
	return render(w, "profile_public.html", p)
}

// Post renders a single post with its author.
type Post struct {
	Post        models.PostWithAuthor
	ContentHTML template.HTML
	CanEdit     bool
}

func (p Post) Render(_ context.Context, w io.Writer) error {
	return render(w, "post.html", p)
}

// PostForm is the shared create/edit form.
type PostForm struct {
	Title   string
	Content string
	Message string
	PostID  int64
	Edit    bool
}

func (p PostForm) Render(_ context.Context, w io.Writer) error {
	return render(w, "post_form.html", p)
}

// Recent is the chronological feed of all posts.
type Recent struct {
	Posts []models.PostWithAuthor
}

func (p Recent) Render(_ context.Context, w io.Writer) error {
	return render(w, "recent.html", p)
}

// Password is the password change form.
type Password struct {
	Message string
}

func (p Password) Render(_ context.Context, w io.Writer) error {
	return render(w, "password.html", p)
}

// DeleteConfirm asks the author to type the confirmation token before
// a post is removed.
type DeleteConfirm struct {
	Title  string
	PostID int64
}

func (p DeleteConfirm) Render(_ context.Context, w io.Writer) error {
	return render(w, "delete_confirm.html", p)
}

// Error is the shared error page fed by title, message, and an optional
// back link label.
type Error struct {
	Title   string
	Message string
	Back    string
}

func (p Error) Render(_ context.Context, w io.Writer) error {
	return render(w, "error.html", p)
}
