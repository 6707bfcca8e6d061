package models

import "time"

// Post is a text post. DateCreated is a calendar date and is reset when the
// post is edited.
type Post struct {
	DateCreated time.Time
	Title       string
	Content     string
	ID          int64
	AuthorID    int64
}

// PostWithAuthor is a post joined with its author's username, as listed on
// feeds and post pages.
type PostWithAuthor struct {
	Post
	AuthorName string
}
