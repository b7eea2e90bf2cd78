package application

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/dfryer1193/portfolio/blog/domain"
)

// DefaultAssetRoot is the path segment under which per-post images are served.
const DefaultAssetRoot = "blog-images"

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)

// MarkdownRenderer defines the interface for converting markdown to HTML.
// scope namespaces relative image references, usually the post slug.
type MarkdownRenderer interface {
	Render(markdown []byte, scope string) ([]byte, error)
}

// MarkdownRendererImpl renders markdown with goldmark. The output is trusted:
// raw HTML in the source is passed through and nothing is sanitised, since
// posts are authored by the site owner.
type MarkdownRendererImpl struct {
	renderer  goldmark.Markdown
	assetRoot string
}

func NewMarkdownRenderer(assetRoot string) MarkdownRenderer {
	assetRoot = strings.Trim(assetRoot, "/")
	if assetRoot == "" {
		assetRoot = DefaultAssetRoot
	}

	renderer := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			emoji.New(emoji.WithRenderingMethod(emoji.Unicode)),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return &MarkdownRendererImpl{
		renderer:  renderer,
		assetRoot: assetRoot,
	}
}

// Render runs parse, image rewrite and serialization in that order. The AST
// belongs to this call only, so the rewrite mutates it in place.
// Malformed markdown is rendered as literal text; only an invalid scope fails.
func (r *MarkdownRendererImpl) Render(markdown []byte, scope string) ([]byte, error) {
	if err := validateScope(scope); err != nil {
		return nil, fmt.Errorf("invalid render scope %q: %w", scope, err)
	}

	doc := r.renderer.Parser().Parse(text.NewReader(markdown))

	if err := r.rewriteImagePaths(doc, scope); err != nil {
		return nil, fmt.Errorf("failed to rewrite image paths: %w", err)
	}

	var buf bytes.Buffer
	if err := r.renderer.Renderer().Render(&buf, markdown, doc); err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	return buf.Bytes(), nil
}

func (r *MarkdownRendererImpl) rewriteImagePaths(doc ast.Node, scope string) error {
	return ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}

		if dest, rewrite := scopedAssetPath(r.assetRoot, scope, string(img.Destination)); rewrite {
			img.Destination = []byte(dest)
		}

		return ast.WalkContinue, nil
	})
}

// scopedAssetPath maps a relative image reference to /{assetRoot}/{scope}/{dest}.
// External references and root-absolute paths are returned unchanged with false.
func scopedAssetPath(assetRoot, scope, dest string) (string, bool) {
	if dest == "" || isExternalReference(dest) || strings.HasPrefix(dest, "/") {
		return dest, false
	}

	dest = strings.TrimPrefix(dest, "./")
	return "/" + assetRoot + "/" + scope + "/" + dest, true
}

// isExternalReference reports whether dest carries a URL scheme or is protocol-relative.
func isExternalReference(dest string) bool {
	if strings.HasPrefix(dest, "//") {
		return true
	}
	return schemePattern.MatchString(dest)
}

func validateScope(scope string) error {
	return validation.Validate(scope,
		validation.Required,
		validation.Match(domain.SlugPattern).Error("must be a URL-safe slug"),
	)
}
