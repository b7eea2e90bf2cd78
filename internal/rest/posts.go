package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/portfolio/api"
	"github.com/dfryer1193/portfolio/blog/application"
	"github.com/dfryer1193/portfolio/blog/domain"
)

type PostsHandler struct {
	service      *application.PostService
	defaultLimit int
}

func NewPostsHandler(service *application.PostService, defaultLimit int) *PostsHandler {
	return &PostsHandler{
		service:      service,
		defaultLimit: defaultLimit,
	}
}

// GetPosts lists public posts, newest first. ?limit=0 returns every post.
func (h *PostsHandler) GetPosts(c *gin.Context) {
	limit := h.defaultLimit
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, api.Error{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	posts, err := h.service.ListPublicPosts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	summaries := make([]api.PostSummary, 0, len(posts))
	for _, p := range posts {
		summaries = append(summaries, toSummary(p))
	}
	c.JSON(http.StatusOK, summaries)
}

// GetPost returns a single rendered post. Drafts are served for preview.
func (h *PostsHandler) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	rendered, err := h.service.RenderPost(c.Request.Context(), slug)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Post{
		PostSummary: toSummary(rendered.Post),
		Draft:       rendered.Post.Draft,
		Excerpt:     rendered.Excerpt,
		Content:     rendered.Post.Content,
	})
}

func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, api.Error{Error: "post not found"})
	case domain.IsParseFailure(err):
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Invalid post source")
		c.JSON(http.StatusUnprocessableEntity, api.Error{Error: "post source is invalid"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Failed to load posts")
		c.JSON(http.StatusInternalServerError, api.Error{Error: "internal server error"})
	}
}

func toSummary(p *domain.Post) api.PostSummary {
	return api.PostSummary{
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		Date:        p.Date,
		Cover:       p.Cover,
	}
}
