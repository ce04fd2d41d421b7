package handler

import (
	"errors"
	"strconv"

	"conduit/internal/api/dto"
	"conduit/internal/api/middleware"
	"conduit/internal/api/response"
	"conduit/internal/repository"
	"conduit/internal/service"
	"conduit/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultTagLimit = 10
	maxTagLimit     = 50
)

type ArticleHandler struct {
	articleService *service.ArticleService
	searchService  *service.SearchService
}

func NewArticleHandler(articleService *service.ArticleService, searchService *service.SearchService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, searchService: searchService}
}

// List GET /api/articles?tag=&author=&favorited=&offset=&limit=
func (h *ArticleHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	filter := repository.ArticleFilter{
		Tag:       c.Query("tag"),
		Author:    c.Query("author"),
		Favorited: c.Query("favorited"),
	}

	data, err := h.articleService.List(middleware.ViewerID(c), filter, offset, limit)
	if err != nil {
		handleArticleError(c, err)
		return
	}
	response.OK(c, data)
}

// Feed GET /api/articles/feeds
func (h *ArticleHandler) Feed(c *gin.Context) {
	offset, limit := parsePagination(c)

	data, err := h.articleService.Feed(middleware.ViewerID(c), offset, limit)
	if err != nil {
		handleArticleError(c, err)
		return
	}
	response.OK(c, data)
}

// Tags GET /api/articles/tags?limit=
func (h *ArticleHandler) Tags(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultTagLimit)))
	if err != nil || limit < 1 || limit > maxTagLimit {
		limit = defaultTagLimit
	}

	tags, err := h.articleService.PopularTags(c.Request.Context(), limit)
	if err != nil {
		handleArticleError(c, err)
		return
	}
	response.OK(c, dto.TagListResponse{Tags: tags})
}

// Search GET /api/articles/search?q=&offset=&limit=
func (h *ArticleHandler) Search(c *gin.Context) {
	offset, limit := parsePagination(c)

	data, err := h.searchService.Search(c.Request.Context(), middleware.ViewerID(c), c.Query("q"), offset, limit)
	if err != nil {
		handleArticleError(c, err)
		return
	}
	response.OK(c, data)
}

// Create POST /api/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var req dto.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	info, err := h.articleService.Create(c.Request.Context(), middleware.ViewerID(c), &req.Article)
	if err != nil {
		handleArticleError(c, err)
		return
	}
	response.Created(c, dto.ArticleResponse{Article: *info})
}

// Get GET /api/articles/:slug
func (h *ArticleHandler) Get(c *gin.Context) {
	info, err := h.articleService.GetBySlug(middleware.ViewerID(c), c.Param("slug"))
	if err != nil {
		handleArticleError(c, err)
		return
	}
	response.OK(c, dto.ArticleResponse{Article: *info})
}

// Update PUT /api/articles/:slug
func (h *ArticleHandler) Update(c *gin.Context) {
	var req dto.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	info, err := h.articleService.Update(c.Request.Context(), middleware.ViewerID(c), c.Param("slug"), &req.Article)
	if err != nil {
		handleArticleError(c, err)
		return
	}
	response.OK(c, dto.ArticleResponse{Article: *info})
}

// Delete DELETE /api/articles/:slug
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.articleService.Delete(c.Request.Context(), middleware.ViewerID(c), c.Param("slug")); err != nil {
		handleArticleError(c, err)
		return
	}
	response.OK(c, gin.H{})
}

func handleArticleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrArticleNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrArticleForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrSlugConflict):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrEmptyUpdate),
		errors.Is(err, service.ErrInvalidEmotion):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("Article operation failed", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		response.InternalError(c, "internal server error")
	}
}
