package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/portfolio/blog/domain"
)

var _ domain.PostRepository = (*FilePostRepository)(nil)

const postExt = ".md"

// FilePostRepository implements domain.PostRepository over a directory of
// markdown files. Every call reads the directory again; nothing is cached.
type FilePostRepository struct {
	fs fs.FS
}

// NewPostRepository creates a repository reading posts from the root of fsys.
func NewPostRepository(fsys fs.FS) *FilePostRepository {
	return &FilePostRepository{
		fs: fsys,
	}
}

// NewDirPostRepository creates a repository reading posts from dir on disk.
func NewDirPostRepository(dir string) *FilePostRepository {
	return NewPostRepository(os.DirFS(dir))
}

// ListSlugs returns the slug of every *.md file in the directory.
// Sub-directories, hidden files and names that are not valid slugs are skipped.
func (r *FilePostRepository) ListSlugs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: read post directory: %w", domain.ErrStoreUnavailable, err)
	}

	slugs := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || path.Ext(name) != postExt {
			continue
		}

		slug := strings.TrimSuffix(name, postExt)
		if !isValidSlug(slug) {
			log.Warn().Str("file", name).Msg("Skipping post file with invalid slug")
			continue
		}
		slugs = append(slugs, slug)
	}

	return slugs, nil
}

// GetPost loads and parses the post stored as {slug}.md.
func (r *FilePostRepository) GetPost(ctx context.Context, slug string) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slug = strings.TrimSuffix(slug, postExt)
	if !isValidSlug(slug) {
		return nil, fmt.Errorf("%w: %q", domain.ErrPostNotFound, slug)
	}

	name := slug + postExt
	data, err := fs.ReadFile(r.fs, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if _, statErr := fs.Stat(r.fs, "."); statErr != nil {
				return nil, fmt.Errorf("%w: stat post directory: %w", domain.ErrStoreUnavailable, statErr)
			}
			return nil, fmt.Errorf("%w: %s", domain.ErrPostNotFound, slug)
		}
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrStoreUnavailable, name, err)
	}

	meta, body, err := parseFrontMatter(data)
	if err != nil {
		return nil, invalidFrontMatter(slug, err)
	}

	post, err := buildPost(slug, meta, body)
	if err != nil {
		return nil, invalidFrontMatter(slug, err)
	}

	return post, nil
}

// ListPublicPosts loads every post, drops drafts and sorts by Date descending.
// Dates are compared as strings, so they must share one sortable format.
// The first post that fails to load aborts the whole listing.
func (r *FilePostRepository) ListPublicPosts(ctx context.Context) ([]*domain.Post, error) {
	slugs, err := r.ListSlugs(ctx)
	if err != nil {
		return nil, err
	}

	posts := make([]*domain.Post, 0, len(slugs))
	for _, slug := range slugs {
		post, err := r.GetPost(ctx, slug)
		if err != nil {
			return nil, err
		}
		if post.Draft {
			continue
		}
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})

	log.Debug().Int("count", len(posts)).Int("files", len(slugs)).Msg("Loaded public posts")
	return posts, nil
}

func isValidSlug(slug string) bool {
	return domain.SlugPattern.MatchString(slug)
}
