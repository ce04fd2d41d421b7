package handler

import (
	"conduit/internal/api/dto"
	"conduit/internal/api/middleware"
	"conduit/internal/api/response"
	"conduit/internal/service"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactionService *service.InteractionService
}

func NewInteractionHandler(interactionService *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// Favorite POST /api/articles/:slug/favorite
func (h *InteractionHandler) Favorite(c *gin.Context) {
	info, err := h.interactionService.Favorite(c.Request.Context(), middleware.ViewerID(c), c.Param("slug"))
	if err != nil {
		handleArticleError(c, err)
		return
	}
	response.OK(c, dto.ArticleResponse{Article: *info})
}

// Unfavorite DELETE /api/articles/:slug/favorite
func (h *InteractionHandler) Unfavorite(c *gin.Context) {
	info, err := h.interactionService.Unfavorite(c.Request.Context(), middleware.ViewerID(c), c.Param("slug"))
	if err != nil {
		handleArticleError(c, err)
		return
	}
	response.OK(c, dto.ArticleResponse{Article: *info})
}

// Reactions GET /api/articles/:slug/emotions
func (h *InteractionHandler) Reactions(c *gin.Context) {
	reactions, err := h.interactionService.GetReactions(middleware.ViewerID(c), c.Param("slug"))
	if err != nil {
		handleArticleError(c, err)
		return
	}
	response.OK(c, dto.ReactionsResponse{Reactions: *reactions})
}

// React POST /api/articles/:slug/emotions
func (h *InteractionHandler) React(c *gin.Context) {
	var req dto.EmotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	reactions, err := h.interactionService.React(middleware.ViewerID(c), c.Param("slug"), req.Emotion.Type)
	if err != nil {
		handleArticleError(c, err)
		return
	}
	response.OK(c, dto.ReactionsResponse{Reactions: *reactions})
}

// RemoveReaction DELETE /api/articles/:slug/emotions
func (h *InteractionHandler) RemoveReaction(c *gin.Context) {
	reactions, err := h.interactionService.RemoveReaction(middleware.ViewerID(c), c.Param("slug"))
	if err != nil {
		handleArticleError(c, err)
		return
	}
	response.OK(c, dto.ReactionsResponse{Reactions: *reactions})
}
