package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dfryer1193/portfolio/blog/application"
)

// Options controls the routes registered by NewApi.
type Options struct {
	// DefaultLimit caps the post listing when no limit query is given. 0 means no cap.
	DefaultLimit int
	// AssetRoot is the URL prefix of per-post images, without slashes.
	AssetRoot string
	// ImagesDir is served under AssetRoot. Empty disables the static route.
	ImagesDir string
}

func NewApi(router *gin.Engine, posts *application.PostService, opts Options) {
	router.GET("/healthz", Healthz)

	if opts.AssetRoot != "" && opts.ImagesDir != "" {
		router.Static("/"+opts.AssetRoot, opts.ImagesDir)
	}

	handler := NewPostsHandler(posts, opts.DefaultLimit)
	postsV1 := router.Group("posts/v1")
	{
		postsV1.GET("/", handler.GetPosts)
		postsV1.GET("/:slug", handler.GetPost)
	}
}

func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
