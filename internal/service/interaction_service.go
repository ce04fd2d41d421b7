package service

import (
	"context"
	"errors"

	"conduit/internal/api/dto"
	"conduit/internal/events"
	"conduit/internal/model"
	"conduit/internal/repository"

	"gorm.io/gorm"
)

// InteractionService 收藏与表情反应，两者对同一 (用户, 文章) 都至多一条记录
type InteractionService struct {
	articles     *ArticleService
	favoriteRepo *repository.FavoriteRepository
	emotionRepo  *repository.EmotionRepository
}

func NewInteractionService(articles *ArticleService, favoriteRepo *repository.FavoriteRepository, emotionRepo *repository.EmotionRepository) *InteractionService {
	return &InteractionService{articles: articles, favoriteRepo: favoriteRepo, emotionRepo: emotionRepo}
}

// Favorite 收藏文章，重复收藏不报错
func (s *InteractionService) Favorite(ctx context.Context, userID int64, slug string) (*dto.ArticleInfo, error) {
	article, err := s.articles.getBySlug(slug)
	if err != nil {
		return nil, err
	}

	if err := s.favoriteRepo.Create(userID, article.ID); err != nil {
		return nil, err
	}

	s.articles.publish(ctx, events.New(events.ArticleFavorited, article.ID, article.Slug, userID))
	return s.articles.buildOne(userID, article)
}

// Unfavorite 取消收藏，未收藏时同样成功
func (s *InteractionService) Unfavorite(ctx context.Context, userID int64, slug string) (*dto.ArticleInfo, error) {
	article, err := s.articles.getBySlug(slug)
	if err != nil {
		return nil, err
	}

	deleted, err := s.favoriteRepo.Delete(userID, article.ID)
	if err != nil {
		return nil, err
	}

	if deleted {
		s.articles.publish(ctx, events.New(events.ArticleUnfavorited, article.ID, article.Slug, userID))
	}
	return s.articles.buildOne(userID, article)
}

// React 对文章做表情反应，覆盖之前的反应类型
func (s *InteractionService) React(userID int64, slug, emotionType string) (*dto.Reactions, error) {
	if !model.ValidEmotion(emotionType) {
		return nil, ErrInvalidEmotion
	}
	article, err := s.articles.getBySlug(slug)
	if err != nil {
		return nil, err
	}

	if err := s.emotionRepo.Upsert(userID, article.ID, emotionType); err != nil {
		return nil, err
	}
	return s.reactions(userID, article.ID)
}

// RemoveReaction 撤销表情反应，不存在时同样成功
func (s *InteractionService) RemoveReaction(userID int64, slug string) (*dto.Reactions, error) {
	article, err := s.articles.getBySlug(slug)
	if err != nil {
		return nil, err
	}

	if _, err := s.emotionRepo.Delete(userID, article.ID); err != nil {
		return nil, err
	}
	return s.reactions(userID, article.ID)
}

// GetReactions 文章的表情统计，viewerID 为 0 时 mine 为空
func (s *InteractionService) GetReactions(viewerID int64, slug string) (*dto.Reactions, error) {
	article, err := s.articles.getBySlug(slug)
	if err != nil {
		return nil, err
	}
	return s.reactions(viewerID, article.ID)
}

func (s *InteractionService) reactions(viewerID, articleID int64) (*dto.Reactions, error) {
	stored, err := s.emotionRepo.CountByType(articleID)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(model.EmotionTypes))
	for _, t := range model.EmotionTypes {
		counts[t] = stored[t]
	}

	result := &dto.Reactions{Counts: counts}
	if viewerID == 0 {
		return result, nil
	}

	mine, err := s.emotionRepo.GetType(viewerID, articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, nil
		}
		return nil, err
	}
	result.Mine = &mine
	return result, nil
}
