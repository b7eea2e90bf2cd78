package domain

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// TextCodeInvalidFrontMatter tags parse failures raised at the store boundary.
const TextCodeInvalidFrontMatter = "POST_FRONTMATTER_INVALID"

var (
	// ErrPostNotFound is returned when no source file matches a slug.
	ErrPostNotFound = errors.New("post not found")
	// ErrStoreUnavailable is returned when the post directory cannot be read.
	ErrStoreUnavailable = errors.New("post store unavailable")
	// ErrInvalidFrontMatter is wrapped by every front-matter parse or schema failure.
	ErrInvalidFrontMatter = errors.New("invalid front-matter")
)

// IsNotFound reports whether err means the requested post does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound)
}

// IsStoreFailure reports whether err comes from an unreadable store.
func IsStoreFailure(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsParseFailure reports whether err comes from malformed or incomplete front-matter.
func IsParseFailure(err error) bool {
	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		return true
	}
	return errors.Is(err, ErrInvalidFrontMatter)
}
