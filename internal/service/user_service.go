package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"conduit/internal/api/dto"
	"conduit/internal/model"
	"conduit/internal/repository"

	"gorm.io/gorm"
)

// ImageStore 头像存储
type ImageStore interface {
	PutAvatar(ctx context.Context, userID int64, filename, contentType string, r io.Reader, size int64) (string, error)
}

type UserService struct {
	userRepo    *repository.UserRepository
	credentials *CredentialService
	images      ImageStore
}

// NewUserService images 为 nil 时头像上传不可用
func NewUserService(userRepo *repository.UserRepository, credentials *CredentialService, images ImageStore) *UserService {
	return &UserService{userRepo: userRepo, credentials: credentials, images: images}
}

// Register 用户注册，邮箱或用户名任一被占用即失败
func (s *UserService) Register(req *dto.RegisterUser) (*dto.UserInfo, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, ErrBlankUsername
	}

	exists, err := s.userRepo.ExistsByEmail(email, 0)
	if err != nil {
		return nil, err
	}
	if !exists {
		exists, err = s.userRepo.ExistsByUsername(username, 0)
		if err != nil {
			return nil, err
		}
	}
	if exists {
		return nil, ErrUserExists
	}

	digest, err := s.credentials.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Email: email, Username: username, Password: digest}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.toUserInfo(user)
}

// Login 用户登录，未知邮箱与密码错误返回同一个错误
func (s *UserService) Login(req *dto.LoginUser) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if !s.credentials.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredential
	}

	return s.toUserInfo(user)
}

// GetCurrent 获取当前用户并签发新 token
func (s *UserService) GetCurrent(userID int64) (*dto.UserInfo, error) {
	user, err := s.mustGet(userID)
	if err != nil {
		return nil, err
	}
	return s.toUserInfo(user)
}

// Update 更新当前用户，只修改请求中出现的字段
func (s *UserService) Update(userID int64, req *dto.UpdateUser) (*dto.UserInfo, error) {
	if req.Empty() {
		return nil, ErrEmptyUpdate
	}
	if _, err := s.mustGet(userID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		taken, err := s.userRepo.ExistsByEmail(email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
		updates["email"] = email
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, ErrBlankUsername
		}
		taken, err := s.userRepo.ExistsByUsername(username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		updates["username"] = username
	}
	if req.Password != nil {
		digest, err := s.credentials.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = digest
	}
	// 空字符串表示清空
	if req.Bio != nil {
		updates["bio"] = nullable(*req.Bio)
	}
	if req.Image != nil {
		updates["image"] = nullable(*req.Image)
	}

	user, err := s.userRepo.Update(userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发下预检查与写入之间被抢占，无法区分是哪个字段冲突
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return s.toUserInfo(user)
}

// UploadImage 上传头像并写入 image 字段
func (s *UserService) UploadImage(ctx context.Context, userID int64, filename, contentType string, r io.Reader, size int64) (*dto.UserInfo, error) {
	if s.images == nil {
		return nil, ErrImageUnavailable
	}
	if _, err := s.mustGet(userID); err != nil {
		return nil, err
	}

	url, err := s.images.PutAvatar(ctx, userID, filename, contentType, r, size)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Update(userID, map[string]interface{}{"image": url})
	if err != nil {
		return nil, fmt.Errorf("update user image: %w", err)
	}
	return s.toUserInfo(user)
}

func (s *UserService) mustGet(userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) toUserInfo(user *model.User) (*dto.UserInfo, error) {
	token, err := s.credentials.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.UserInfo{
		Email:    user.Email,
		Token:    token,
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
	}, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
