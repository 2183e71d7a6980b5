package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/backend"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const commentLoginMessage = "You must be logged in to comment."

type BlogHandler struct {
	sessions
	backend *backend.Client
	catalog *catalog.Fetcher
}

func NewBlogHandler(b *backend.Client, fetcher *catalog.Fetcher, manager *session.Manager, logger *logger.Logger, cfg *config.Config) *BlogHandler {
	return &BlogHandler{
		sessions: sessions{manager: manager, config: cfg, logger: logger, loginMessage: commentLoginMessage},
		backend:  b,
		catalog:  fetcher,
	}
}

// blogView is a post with its cover resolved against the media host.
type blogView struct {
	backend.Blog
	CoverImageURL string `json:"cover_image_url"`
}

func (h *BlogHandler) view(b backend.Blog) blogView {
	cover := catalog.FallbackImage
	if b.CoverImage != "" {
		cover = h.catalog.ImageURL(b.CoverImage)
	}
	return blogView{Blog: b, CoverImageURL: cover}
}

func (h *BlogHandler) List(c *gin.Context) {
	blogs, err := h.backend.ListBlogs(c.Request.Context())
	if err != nil {
		h.logger.Error("Error fetching blogs: %v", err)
		respondError(c, err, "Failed to fetch blogs")
		return
	}

	views := make([]blogView, 0, len(blogs))
	for _, b := range blogs {
		views = append(views, h.view(b))
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

// Get loads the post and its comments together. Missing comments do not
// hide the post.
func (h *BlogHandler) Get(c *gin.Context) {
	blogID, ok := blogParam(c)
	if !ok {
		return
	}

	var (
		blog        *backend.Blog
		comments    []backend.BlogComment
		commentsErr error
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		blog, err = h.backend.GetBlog(ctx, blogID)
		return err
	})
	g.Go(func() error {
		comments, commentsErr = h.backend.ListComments(ctx, blogID)
		return nil
	})

	if err := g.Wait(); err != nil {
		h.logger.Error("Error fetching blog %d: %v", blogID, err)
		respondError(c, err, "Failed to fetch blog")
		return
	}

	resp := gin.H{
		"blog":     h.view(*blog),
		"comments": comments,
	}
	if commentsErr != nil {
		h.logger.Error("Error fetching comments for blog %d: %v", blogID, commentsErr)
		resp["comments"] = []backend.BlogComment{}
		resp["comments_error"] = "Failed to fetch comments"
	} else if comments == nil {
		resp["comments"] = []backend.BlogComment{}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BlogHandler) Comments(c *gin.Context) {
	blogID, ok := blogParam(c)
	if !ok {
		return
	}

	comments, err := h.backend.ListComments(c.Request.Context(), blogID)
	if err != nil {
		h.logger.Error("Error fetching comments for blog %d: %v", blogID, err)
		respondError(c, err, "Failed to fetch comments")
		return
	}
	if comments == nil {
		comments = []backend.BlogComment{}
	}
	c.JSON(http.StatusOK, gin.H{"data": comments})
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *BlogHandler) CreateComment(c *gin.Context) {
	blogID, ok := blogParam(c)
	if !ok {
		return
	}

	id, token, ok := h.token(c)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment cannot be empty"})
		return
	}

	comment, err := h.backend.CreateComment(c.Request.Context(), token, blogID, strings.TrimSpace(req.Content))
	if err != nil {
		h.logger.Error("Error posting comment on blog %d: %v", blogID, err)
		h.fail(c, id, err, "Failed to post comment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func blogParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog not found"})
		return 0, false
	}
	return id, true
}
