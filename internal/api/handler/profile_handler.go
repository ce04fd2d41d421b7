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

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Get GET /api/profile/:username
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileService.GetProfile(middleware.ViewerID(c), c.Param("username"))
	if err != nil {
		handleProfileError(c, err)
		return
	}
	response.OK(c, dto.ProfileResponse{Profile: *profile})
}

// Follow POST /api/profile/:username/follow
func (h *ProfileHandler) Follow(c *gin.Context) {
	profile, err := h.profileService.Follow(middleware.ViewerID(c), c.Param("username"))
	if err != nil {
		handleProfileError(c, err)
		return
	}
	response.OK(c, dto.ProfileResponse{Profile: *profile})
}

// Unfollow DELETE /api/profile/:username/follow
func (h *ProfileHandler) Unfollow(c *gin.Context) {
	profile, err := h.profileService.Unfollow(middleware.ViewerID(c), c.Param("username"))
	if err != nil {
		handleProfileError(c, err)
		return
	}
	response.OK(c, dto.ProfileResponse{Profile: *profile})
}

func handleProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrCannotFollowSelf):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("Profile operation failed", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		response.InternalError(c, "internal server error")
	}
}
