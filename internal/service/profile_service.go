package service

import (
	"errors"

	"conduit/internal/api/dto"
	"conduit/internal/model"
	"conduit/internal/repository"

	"gorm.io/gorm"
)

type ProfileService struct {
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
}

func NewProfileService(userRepo *repository.UserRepository, followRepo *repository.FollowRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo, followRepo: followRepo}
}

// GetProfile 查看用户资料，viewerID 为 0 表示匿名
func (s *ProfileService) GetProfile(viewerID int64, username string) (*dto.Profile, error) {
	target, err := s.getByUsername(username)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != 0 {
		if following, err = s.followRepo.Exists(viewerID, target.ID); err != nil {
			return nil, err
		}
	}
	return toProfile(target, following), nil
}

// Follow 关注用户，重复关注不报错
func (s *ProfileService) Follow(viewerID int64, username string) (*dto.Profile, error) {
	target, err := s.getByUsername(username)
	if err != nil {
		return nil, err
	}
	if target.ID == viewerID {
		return nil, ErrCannotFollowSelf
	}

	if err := s.followRepo.Create(viewerID, target.ID); err != nil {
		return nil, err
	}
	return toProfile(target, true), nil
}

// Unfollow 取消关注，未关注时同样成功
func (s *ProfileService) Unfollow(viewerID int64, username string) (*dto.Profile, error) {
	target, err := s.getByUsername(username)
	if err != nil {
		return nil, err
	}
	if target.ID == viewerID {
		return nil, ErrCannotFollowSelf
	}

	if _, err := s.followRepo.Delete(viewerID, target.ID); err != nil {
		return nil, err
	}
	return toProfile(target, false), nil
}

func (s *ProfileService) getByUsername(username string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// toProfile 用户的安全投影，不含密码摘要
func toProfile(user *model.User, following bool) *dto.Profile {
	return &dto.Profile{
		Username:  user.Username,
		Bio:       user.Bio,
		Image:     user.Image,
		Following: following,
	}
}
