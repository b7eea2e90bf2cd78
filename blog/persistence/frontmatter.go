package persistence

import (
	"bytes"
	"fmt"
	"regexp"
	"time"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/dfryer1193/portfolio/blog/domain"
)

// isoDatePrefix keeps post dates lexically sortable.
var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// postFrontMatter is the validated schema of a post's metadata block.
type postFrontMatter struct {
	Title       string
	Description string
	Date        string
	Cover       string
	Draft       bool
}

func (fm postFrontMatter) Validate() error {
	return validation.ValidateStruct(&fm,
		validation.Field(&fm.Title, validation.Required),
		validation.Field(&fm.Date,
			validation.Required,
			validation.Match(isoDatePrefix).Error("must start with a YYYY-MM-DD date"),
		),
	)
}

// parseFrontMatter splits source into its metadata mapping and markdown body.
// YAML (---), TOML (+++) and JSON (;;;) delimiters are accepted.
func parseFrontMatter(source []byte) (map[string]any, []byte, error) {
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}

// buildPost validates meta against the post schema and only then constructs
// the record. The slug always comes from the file name.
func buildPost(slug string, meta map[string]any, body []byte) (*domain.Post, error) {
	var fm postFrontMatter
	var err error

	if fm.Title, err = stringField(meta, "title"); err != nil {
		return nil, err
	}
	if fm.Description, err = stringField(meta, "description"); err != nil {
		return nil, err
	}
	if fm.Date, err = stringField(meta, "date"); err != nil {
		return nil, err
	}
	if fm.Cover, err = stringField(meta, "cover"); err != nil {
		return nil, err
	}
	if fm.Draft, err = boolField(meta, "draft"); err != nil {
		return nil, err
	}

	if err := fm.Validate(); err != nil {
		return nil, err
	}

	return &domain.Post{
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		Date:        fm.Date,
		Cover:       fm.Cover,
		Draft:       fm.Draft,
		Content:     string(body),
	}, nil
}

func stringField(meta map[string]any, key string) (string, error) {
	value, ok := meta[key]
	if !ok || value == nil {
		return "", nil
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case time.Time:
		// Unquoted YAML dates may decode as timestamps.
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format(time.DateOnly), nil
		}
		return v.Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("%s: must be a string, got %T", key, value)
	}
}

func boolField(meta map[string]any, key string) (bool, error) {
	value, ok := meta[key]
	if !ok || value == nil {
		return false, nil
	}

	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("%s: must be a boolean, got %T", key, value)
	}
	return b, nil
}

func invalidFrontMatter(slug string, err error) error {
	return goerrors.Wrap(
		fmt.Errorf("%w: %s: %w", domain.ErrInvalidFrontMatter, slug, err),
		goerrors.CategoryValidation,
		"invalid front-matter in post "+slug,
	).WithTextCode(domain.TextCodeInvalidFrontMatter)
}
