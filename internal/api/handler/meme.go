package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/memelab/memelab/internal/classify"
	"github.com/memelab/memelab/internal/domain"
	"github.com/memelab/memelab/internal/feed"
	"github.com/memelab/memelab/internal/logger"
	"github.com/memelab/memelab/internal/remix"
	"github.com/memelab/memelab/internal/repository"
	"github.com/memelab/memelab/internal/storage"
)

// MemeHandler handles the meme endpoints: trending feed, analysis, remix,
// and the stored-meme list.
type MemeHandler struct {
	cursor   *feed.Cursor
	classify *classify.Pipeline
	remix    *remix.Pipeline
	repo     *repository.StoredMemeRepository
	resolver storage.AssetResolver
}

// NewMemeHandler creates a new meme handler.
// Parameters:
//   - cursor: content cursor over the feed and offline cache.
//   - classifyPipeline: classification pipeline.
//   - remixPipeline: image remix pipeline.
//   - repo: stored-meme repository.
//   - resolver: offline asset base URL resolver.
// Returns:
//   - *MemeHandler: initialized handler.
func NewMemeHandler(
	cursor *feed.Cursor,
	classifyPipeline *classify.Pipeline,
	remixPipeline *remix.Pipeline,
	repo *repository.StoredMemeRepository,
	resolver storage.AssetResolver,
) *MemeHandler {
	return &MemeHandler{
		cursor:   cursor,
		classify: classifyPipeline,
		remix:    remixPipeline,
		repo:     repo,
		resolver: resolver,
	}
}

// Trending handles GET /api/memes/trending.
func (h *MemeHandler) Trending(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.cursor.Next(ctx, feed.Request{
		After:     c.Query("after"),
		Query:     c.Query("q"),
		Offline:   boolQuery(c, "offline"),
		AssetBase: h.resolver.Base(requestBase(c)),
	})
	if err != nil {
		var noResults *feed.NoResultsError
		if errors.As(err, &noResults) {
			c.JSON(http.StatusNotFound, gin.H{"error": noResults.Error()})
			return
		}
		if errors.Is(err, feed.ErrUpstream) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream feed unavailable"})
			return
		}
		logger.CtxError(ctx, "Trending fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch meme"})
		return
	}

	resp := gin.H{
		"data": result.Meme,
		"page": result.Page,
		"capabilities": gin.H{
			"remix": h.remix.Configured(),
		},
	}
	if result.Search {
		resp["query"] = result.Query
	}
	c.JSON(http.StatusOK, resp)
}

type analyzeRequest struct {
	Title         string `json:"title"`
	ImageURL      string `json:"imageUrl"`
	Offline       bool   `json:"offline"`
	SourceOffline bool   `json:"sourceOffline"`
}

// Analyze handles POST /api/memes/analyze. It always answers 200 for a valid
// request; provider trouble degrades to the heuristic result with fallback
// metadata rather than an error status.
func (h *MemeHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	title := strings.TrimSpace(req.Title)
	imageURL := strings.TrimSpace(req.ImageURL)
	if title == "" && imageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title or imageUrl is required"})
		return
	}

	result := h.classify.Analyze(c.Request.Context(), classify.AnalyzeRequest{
		Title:    title,
		ImageURL: imageURL,
		Offline:  req.Offline || req.SourceOffline,
	})
	c.JSON(http.StatusOK, gin.H{"data": result})
}

type remixRequest struct {
	ImageURL     string `json:"imageUrl"`
	Instructions string `json:"instructions"`
}

// Remix handles POST /api/memes/remix.
func (h *MemeHandler) Remix(c *gin.Context) {
	var req remixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Instructions) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "instructions are required"})
		return
	}
	imageURL := strings.TrimSpace(req.ImageURL)
	if imageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageUrl is required"})
		return
	}

	result, err := h.remix.Remix(c.Request.Context(), remix.Request{
		ImageURL:     imageURL,
		Instructions: strings.TrimSpace(req.Instructions),
	})
	if err != nil {
		switch {
		case errors.Is(err, remix.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Remix is not configured"})
		case errors.Is(err, remix.ErrDownload):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch source image"})
		case errors.Is(err, remix.ErrNoImage):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Remix produced no image"})
		default:
			logger.CtxError(c.Request.Context(), "Remix failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Remix failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"editedImageUrl": result.EditedImageURL})
}

// ListStored handles GET /api/memes.
func (h *MemeHandler) ListStored(c *gin.Context) {
	memes, err := h.repo.List(c.Request.Context())
	if err != nil {
		logger.CtxError(c.Request.Context(), "Stored meme list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list memes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": memes})
}

type createMemeRequest struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

// CreateStored handles POST /api/memes.
func (h *MemeHandler) CreateStored(c *gin.Context) {
	var req createMemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	title := strings.TrimSpace(req.Title)
	imageURL := strings.TrimSpace(req.ImageURL)
	if title == "" || imageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and imageUrl are required"})
		return
	}

	meme := &domain.StoredMeme{Title: title, ImageURL: imageURL}
	if err := h.repo.Create(c.Request.Context(), meme); err != nil {
		logger.CtxError(c.Request.Context(), "Stored meme create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store meme"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": meme})
}

// boolQuery reads a query flag, accepting 1/true/yes.
func boolQuery(c *gin.Context, key string) bool {
	switch strings.ToLower(c.Query(key)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// requestBase reconstructs the scheme://host the client used, honoring the
// forwarded-proto header set by TLS-terminating proxies.
func requestBase(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
