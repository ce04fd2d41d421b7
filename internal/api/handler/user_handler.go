package handler

import (
	"errors"
	"strings"

	"conduit/internal/api/dto"
	"conduit/internal/api/middleware"
	"conduit/internal/api/response"
	"conduit/internal/service"
	"conduit/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxImageSize = 5 << 20

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	info, err := h.userService.Register(&req.User)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.Created(c, dto.UserResponse{User: *info})
}

// Login POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	info, err := h.userService.Login(&req.User)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, dto.UserResponse{User: *info})
}

// Me GET /api/user
func (h *UserHandler) Me(c *gin.Context) {
	info, err := h.userService.GetCurrent(middleware.ViewerID(c))
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, dto.UserResponse{User: *info})
}

// Update PUT /api/user
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	info, err := h.userService.Update(middleware.ViewerID(c), &req.User)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, dto.UserResponse{User: *info})
}

// UploadImage POST /api/user/image (multipart, 字段名 image)
func (h *UserHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}
	if file.Size > maxImageSize {
		response.BadRequest(c, "image must be at most 5MB")
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.BadRequest(c, "file must be an image")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "cannot read uploaded file")
		return
	}
	defer src.Close()

	info, err := h.userService.UploadImage(c.Request.Context(), middleware.ViewerID(c), file.Filename, contentType, src, file.Size)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, dto.UserResponse{User: *info})
}

func handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredential),
		errors.Is(err, service.ErrEmptyUpdate),
		errors.Is(err, service.ErrBlankUsername):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrImageUnavailable):
		response.ServiceUnavailable(c, err.Error())
	default:
		logger.Error("User operation failed", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		response.InternalError(c, "internal server error")
	}
}
