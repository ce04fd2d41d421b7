package handler

import (
	"errors"

	"conduit/internal/api/dto"
	"conduit/internal/api/middleware"
	"conduit/internal/api/response"
	"conduit/internal/service"
	"conduit/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// List GET /api/articles/:slug/comments
func (h *CommentHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	data, err := h.commentService.List(middleware.ViewerID(c), c.Param("slug"), offset, limit)
	if err != nil {
		handleCommentError(c, err)
		return
	}
	response.OK(c, data)
}

// Create POST /api/articles/:slug/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	info, err := h.commentService.Create(middleware.ViewerID(c), c.Param("slug"), req.Comment.Body)
	if err != nil {
		handleCommentError(c, err)
		return
	}
	response.Created(c, dto.CommentResponse{Comment: *info})
}

// Update PUT /api/articles/:slug/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	commentID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	info, err := h.commentService.Update(middleware.ViewerID(c), c.Param("slug"), commentID, req.Comment.Body)
	if err != nil {
		handleCommentError(c, err)
		return
	}
	response.OK(c, dto.CommentResponse{Comment: *info})
}

// Delete DELETE /api/articles/:slug/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}

	if err := h.commentService.Delete(middleware.ViewerID(c), c.Param("slug"), commentID); err != nil {
		handleCommentError(c, err)
		return
	}
	response.OK(c, gin.H{})
}

func handleCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrArticleNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrCommentForbidden):
		response.Forbidden(c, err.Error())
	default:
		logger.Error("Comment operation failed", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		response.InternalError(c, "internal server error")
	}
}
