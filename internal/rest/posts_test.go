package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfryer1193/portfolio/api"
	"github.com/dfryer1193/portfolio/blog/application"
	"github.com/dfryer1193/portfolio/blog/persistence"
)

func postFile(frontMatter, body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\n" + frontMatter + "---\n" + body)}
}

func setupRouter(t *testing.T, fsys fstest.MapFS, opts Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := persistence.NewPostRepository(fsys)
	service, err := application.NewPostService(repo, application.NewMarkdownRenderer(opts.AssetRoot), 16)
	require.NoError(t, err)

	router := gin.New()
	NewApi(router, service, opts)
	return router
}

func testPosts() fstest.MapFS {
	return fstest.MapFS{
		"first.md":  postFile("title: First\ndate: \"2021-01-01\"\n", "First body\n"),
		"second.md": postFile("title: Second\ndescription: The second one\ndate: \"2022-01-01\"\n", "![pic](pic.png) :rocket:\n"),
		"third.md":  postFile("title: Third\ndate: \"2023-01-01\"\n", "Third body\n"),
		"draft.md":  postFile("title: Draft\ndate: \"2024-01-01\"\ndraft: true\n", "Draft body\n"),
	}
}

func doRequest(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func decodeSummaries(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var summaries []api.PostSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))

	slugs := make([]string, 0, len(summaries))
	for _, s := range summaries {
		slugs = append(slugs, s.Slug)
	}
	return slugs
}

func TestGetPosts(t *testing.T) {
	router := setupRouter(t, testPosts(), Options{DefaultLimit: 2})

	tests := []struct {
		name   string
		target string
		status int
		slugs  []string
	}{
		{name: "Default limit", target: "/posts/v1/", status: http.StatusOK, slugs: []string{"third", "second"}},
		{name: "All posts", target: "/posts/v1/?limit=0", status: http.StatusOK, slugs: []string{"third", "second", "first"}},
		{name: "Explicit limit", target: "/posts/v1/?limit=1", status: http.StatusOK, slugs: []string{"third"}},
		{name: "Invalid limit", target: "/posts/v1/?limit=abc", status: http.StatusBadRequest},
		{name: "Negative limit", target: "/posts/v1/?limit=-3", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, tt.target)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.slugs != nil {
				assert.Equal(t, tt.slugs, decodeSummaries(t, w))
			}
		})
	}
}

func TestGetPost(t *testing.T) {
	router := setupRouter(t, testPosts(), Options{AssetRoot: "blog-images"})

	w := doRequest(router, "/posts/v1/second")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var post api.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, "second", post.Slug)
	assert.Equal(t, "Second", post.Title)
	assert.Equal(t, "The second one", post.Description)
	assert.Equal(t, "2022-01-01", post.Date)
	assert.False(t, post.Draft)
	assert.Contains(t, post.Content, `src="/blog-images/second/pic.png"`)
	assert.Contains(t, post.Content, "🚀")
	assert.Equal(t, "🚀", post.Excerpt)
}

func TestGetPost_DraftIsServed(t *testing.T) {
	router := setupRouter(t, testPosts(), Options{})

	w := doRequest(router, "/posts/v1/draft.md")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var post api.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, "draft", post.Slug)
	assert.True(t, post.Draft)
}

func TestGetPost_NotFound(t *testing.T) {
	router := setupRouter(t, testPosts(), Options{})

	w := doRequest(router, "/posts/v1/missing-slug")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body api.Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "post not found", body.Error)
}

func TestGetPost_InvalidFrontMatter(t *testing.T) {
	fsys := testPosts()
	fsys["broken.md"] = postFile("title: Broken\n", "no date")
	router := setupRouter(t, fsys, Options{})

	w := doRequest(router, "/posts/v1/broken")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// One broken file aborts the whole listing.
	w = doRequest(router, "/posts/v1/")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetPosts_StoreUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := persistence.NewDirPostRepository(filepath.Join(t.TempDir(), "missing"))
	service, err := application.NewPostService(repo, application.NewMarkdownRenderer(""), 0)
	require.NoError(t, err)
	router := gin.New()
	NewApi(router, service, Options{})

	w := doRequest(router, "/posts/v1/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStaticImages(t *testing.T) {
	imagesDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(imagesDir, "second"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "second", "pic.png"), []byte("png-bytes"), 0644))

	router := setupRouter(t, testPosts(), Options{AssetRoot: "blog-images", ImagesDir: imagesDir})

	w := doRequest(router, "/blog-images/second/pic.png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())
}

func TestHealthz(t *testing.T) {
	router := setupRouter(t, testPosts(), Options{})

	w := doRequest(router, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
