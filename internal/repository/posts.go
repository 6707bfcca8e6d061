package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillhq/quill/internal/models"
)

// Posts provides access to the posts table.
type Posts struct {
	pool *pgxpool.Pool
}

// NewPosts creates the posts repository.
func NewPosts(pool *pgxpool.Pool) *Posts {
	return &Posts{pool: pool}
}

// Create inserts a post dated today and returns the stored row.
// RETURNING recovers the generated id atomically, so concurrent identical
// submissions cannot pick up each other's rows.
func (r *Posts) Create(ctx context.Context, authorID int64, title, content string) (models.Post, error) {
	p := models.Post{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO posts (title, content, author_id, date_created)
		 VALUES ($1, $2, $3, CURRENT_DATE)
		 RETURNING id, date_created`,
		title, content, authorID,
	).Scan(&p.ID, &p.DateCreated)
	if err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}

	return p, nil
}

// ByID fetches a post joined with its author's username.
func (r *Posts) ByID(ctx context.Context, id int64) (models.PostWithAuthor, error) {
	var p models.PostWithAuthor
	err := r.pool.QueryRow(ctx,
		`SELECT p.id, p.title, p.content, p.date_created, p.author_id, u.username
		 FROM posts p JOIN users u ON u.id = p.author_id
		 WHERE p.id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.Content, &p.DateCreated, &p.AuthorID, &p.AuthorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PostWithAuthor{}, ErrNotFound
		}
		return models.PostWithAuthor{}, fmt.Errorf("select post: %w", err)
	}
	return p, nil
}

// ByAuthor lists an author's posts, newest first.
func (r *Posts) ByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, content, date_created, author_id
		 FROM posts WHERE author_id = $1
		 ORDER BY date_created DESC, id DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("select posts by author: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.DateCreated, &p.AuthorID); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Recent lists the newest posts across all authors with their usernames.
// A limit of 0 means no limit.
func (r *Posts) Recent(ctx context.Context, limit int) ([]models.PostWithAuthor, error) {
	query := `SELECT p.id, p.title, p.content, p.date_created, p.author_id, u.username
		 FROM posts p JOIN users u ON u.id = p.author_id
		 ORDER BY p.date_created DESC, p.id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select recent posts: %w", err)
	}
	defer rows.Close()

	var posts []models.PostWithAuthor
	for rows.Next() {
		var p models.PostWithAuthor
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.DateCreated, &p.AuthorID, &p.AuthorName); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Update replaces a post's title and content and resets its date to today.
// Returns ErrNotFound when no row was affected.
func (r *Posts) Update(ctx context.Context, id int64, title, content string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE posts SET title = $2, content = $3, date_created = CURRENT_DATE
		 WHERE id = $1`, id, title, content)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a post. Returns ErrNotFound when no row was affected.
func (r *Posts) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
