package domain

import (
	"context"
	"regexp"
)

// SlugPattern matches URL-safe post identifiers. A slug never contains a path separator.
var SlugPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Post represents a blog post.
// A post is loaded from a markdown file whose name (minus extension) is the slug.
// Content holds the raw markdown body when loaded and the rendered HTML once
// it has been through the markdown renderer.
type Post struct {
	Slug        string
	Title       string
	Description string
	Date        string
	Cover       string
	Draft       bool
	Content     string
}

// PostRepository is the read-only store of post records.
type PostRepository interface {
	// ListSlugs returns every post identifier in the store, in enumeration order.
	ListSlugs(ctx context.Context) ([]string, error)
	// GetPost returns a single post, drafts included. A trailing ".md" on slug is ignored.
	GetPost(ctx context.Context, slug string) (*Post, error)
	// ListPublicPosts returns all non-draft posts ordered by Date descending.
	ListPublicPosts(ctx context.Context) ([]*Post, error)
}
