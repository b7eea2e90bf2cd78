package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/portfolio/blog/domain"
)

// RenderedPost is a post whose Content holds HTML, plus a plain-text excerpt.
type RenderedPost struct {
	Post    *domain.Post
	Excerpt string
}

// PostService composes the post repository and the markdown renderer for
// page-rendering callers.
type PostService struct {
	repo     domain.PostRepository
	markdown MarkdownRenderer

	// rendered caches HTML by slug and body checksum. The repository is still
	// read on every call, so edits to a post are picked up immediately.
	rendered *lru.Cache[string, []byte]
}

// NewPostService creates a PostService. A cacheSize <= 0 disables the render cache.
func NewPostService(repo domain.PostRepository, markdown MarkdownRenderer, cacheSize int) (*PostService, error) {
	s := &PostService{
		repo:     repo,
		markdown: markdown,
	}

	if cacheSize > 0 {
		cache, err := lru.New[string, []byte](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create render cache: %w", err)
		}
		s.rendered = cache
	}

	return s, nil
}

// ListPublicPosts returns non-draft posts, newest first. A limit > 0 keeps
// only the first limit posts.
func (s *PostService) ListPublicPosts(ctx context.Context, limit int) ([]*domain.Post, error) {
	posts, err := s.repo.ListPublicPosts(ctx)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// GetPost returns a post with its raw markdown content. Drafts are included.
func (s *PostService) GetPost(ctx context.Context, slug string) (*domain.Post, error) {
	return s.repo.GetPost(ctx, slug)
}

// RenderPost loads a post and replaces its content with rendered HTML.
func (s *PostService) RenderPost(ctx context.Context, slug string) (*RenderedPost, error) {
	post, err := s.repo.GetPost(ctx, slug)
	if err != nil {
		return nil, err
	}

	html, err := s.Render([]byte(post.Content), post.Slug)
	if err != nil {
		log.Error().Err(err).Str("slug", post.Slug).Msg("Failed to render post")
		return nil, err
	}

	post.Content = string(html)
	return &RenderedPost{
		Post:    post,
		Excerpt: extractExcerpt(html),
	}, nil
}

// Render converts markdown to HTML scoped to slug.
func (s *PostService) Render(markdown []byte, slug string) ([]byte, error) {
	if s.rendered == nil {
		return s.markdown.Render(markdown, slug)
	}

	key := renderCacheKey(markdown, slug)
	if html, ok := s.rendered.Get(key); ok {
		log.Debug().Str("slug", slug).Msg("Render cache hit")
		return bytes.Clone(html), nil
	}

	html, err := s.markdown.Render(markdown, slug)
	if err != nil {
		return nil, err
	}

	s.rendered.Add(key, bytes.Clone(html))
	return html, nil
}

func renderCacheKey(markdown []byte, slug string) string {
	sum := sha256.Sum256(markdown)
	return slug + ":" + hex.EncodeToString(sum[:])
}
