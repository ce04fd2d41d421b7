package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"conduit/internal/api/dto"
	"conduit/internal/events"
	"conduit/internal/model"
	"conduit/internal/repository"
	"conduit/pkg/logger"
	"conduit/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	popularTagsKey = "conduit:tags:popular"
	publishTimeout = 3 * time.Second
)

// TagCache 热门标签缓存
type TagCache interface {
	Get(ctx context.Context, key, field string, dst interface{}) (bool, error)
	Set(ctx context.Context, key, field string, value interface{}) error
	Invalidate(ctx context.Context, key string) error
}

type ArticleService struct {
	articleRepo  *repository.ArticleRepository
	tagRepo      *repository.TagRepository
	favoriteRepo *repository.FavoriteRepository
	followRepo   *repository.FollowRepository
	publisher    events.Publisher
	tagCache     TagCache

	// tagGen 每次失效自增，查库期间若发生失效则不回写缓存
	tagGen         atomic.Int64
	newSlug        func(title string) string
	publishTimeout time.Duration
}

// NewArticleService publisher 为 nil 时不发事件，tagCache 为 nil 时不缓存
func NewArticleService(
	articleRepo *repository.ArticleRepository,
	tagRepo *repository.TagRepository,
	favoriteRepo *repository.FavoriteRepository,
	followRepo *repository.FollowRepository,
	publisher events.Publisher,
	tagCache TagCache,
) *ArticleService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ArticleService{
		articleRepo:    articleRepo,
		tagRepo:        tagRepo,
		favoriteRepo:   favoriteRepo,
		followRepo:     followRepo,
		publisher:      publisher,
		tagCache:       tagCache,
		newSlug:        utils.GenerateSlug,
		publishTimeout: publishTimeout,
	}
}

// Create 发布文章，slug 由标题加唯一后缀生成
func (s *ArticleService) Create(ctx context.Context, authorID int64, req *dto.CreateArticle) (*dto.ArticleInfo, error) {
	article := &model.Article{
		Slug:        s.newSlug(req.Title),
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		AuthorID:    authorID,
	}
	if err := s.articleRepo.Create(article, req.TagList); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugConflict
		}
		return nil, fmt.Errorf("create article: %w", err)
	}

	created, err := s.articleRepo.GetByID(article.ID)
	if err != nil {
		return nil, err
	}

	s.invalidateTags(ctx)
	s.publish(ctx, events.New(events.ArticleCreated, created.ID, created.Slug, authorID))

	return s.buildOne(authorID, created)
}

// GetBySlug 获取文章详情
func (s *ArticleService) GetBySlug(viewerID int64, slug string) (*dto.ArticleInfo, error) {
	article, err := s.getBySlug(slug)
	if err != nil {
		return nil, err
	}
	return s.buildOne(viewerID, article)
}

// Update 作者更新文章的标题、摘要或正文，slug 与标签不变
func (s *ArticleService) Update(ctx context.Context, viewerID int64, slug string, req *dto.UpdateArticle) (*dto.ArticleInfo, error) {
	article, err := s.getBySlug(slug)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != viewerID {
		return nil, ErrArticleForbidden
	}
	if req.Empty() {
		return nil, ErrEmptyUpdate
	}

	updates := make(map[string]interface{}, 3)
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}

	updated, err := s.articleRepo.Update(article.ID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("update article: %w", err)
	}

	s.publish(ctx, events.New(events.ArticleUpdated, updated.ID, updated.Slug, viewerID))
	return s.buildOne(viewerID, updated)
}

// Delete 作者删除文章，连同评论、收藏、表情与标签关联
func (s *ArticleService) Delete(ctx context.Context, viewerID int64, slug string) error {
	article, err := s.getBySlug(slug)
	if err != nil {
		return err
	}
	if article.AuthorID != viewerID {
		return ErrArticleForbidden
	}

	if err := s.articleRepo.Delete(article.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("delete article: %w", err)
	}

	s.invalidateTags(ctx)
	s.publish(ctx, events.New(events.ArticleDeleted, article.ID, article.Slug, viewerID))
	return nil
}

// List 按标签、作者、收藏者筛选文章
func (s *ArticleService) List(viewerID int64, filter repository.ArticleFilter, offset, limit int) (*dto.ArticleListResponse, error) {
	articles, total, err := s.articleRepo.List(filter, offset, limit)
	if err != nil {
		return nil, err
	}
	infos, err := s.BuildArticles(viewerID, articles, false)
	if err != nil {
		return nil, err
	}
	return &dto.ArticleListResponse{Articles: infos, ArticlesCount: total}, nil
}

// Feed 当前用户关注的作者发布的文章，未关注任何人时为空
func (s *ArticleService) Feed(userID int64, offset, limit int) (*dto.ArticleListResponse, error) {
	authorIDs, err := s.followRepo.GetFollowingIDs(userID)
	if err != nil {
		return nil, err
	}

	articles, total, err := s.articleRepo.ListByAuthors(authorIDs, offset, limit)
	if err != nil {
		return nil, err
	}
	infos, err := s.BuildArticles(userID, articles, true)
	if err != nil {
		return nil, err
	}
	return &dto.ArticleListResponse{Articles: infos, ArticlesCount: total}, nil
}

// PopularTags 按关联文章数倒序的热门标签
func (s *ArticleService) PopularTags(ctx context.Context, limit int) ([]dto.TagInfo, error) {
	field := strconv.Itoa(limit)

	if s.tagCache != nil {
		var cached []dto.TagInfo
		hit, err := s.tagCache.Get(ctx, popularTagsKey, field, &cached)
		if err != nil {
			logger.Warn("Popular tags cache read failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	gen := s.tagGen.Load()
	counts, err := s.tagRepo.Popular(limit)
	if err != nil {
		return nil, err
	}
	tags := make([]dto.TagInfo, 0, len(counts))
	for _, c := range counts {
		tags = append(tags, dto.TagInfo{Name: c.Name, Count: c.ArticleCount})
	}

	if s.tagCache != nil && s.tagGen.Load() == gen {
		if err := s.tagCache.Set(ctx, popularTagsKey, field, tags); err != nil {
			logger.Warn("Popular tags cache write failed", zap.Error(err))
		}
	}
	return tags, nil
}

// BuildArticles 把文章记录转换为对 viewer 的响应视图
// forceFollowing 为 true 时所有作者的 following 直接置为 true
func (s *ArticleService) BuildArticles(viewerID int64, articles []model.Article, forceFollowing bool) ([]dto.ArticleInfo, error) {
	infos := make([]dto.ArticleInfo, 0, len(articles))
	if len(articles) == 0 {
		return infos, nil
	}

	articleIDs := make([]int64, 0, len(articles))
	authorIDs := make([]int64, 0, len(articles))
	for i := range articles {
		articleIDs = append(articleIDs, articles[i].ID)
		authorIDs = append(authorIDs, articles[i].AuthorID)
	}

	tagNames, err := s.tagRepo.GetNamesByArticleIDs(articleIDs)
	if err != nil {
		return nil, err
	}
	favCounts, err := s.favoriteRepo.CountByArticleIDs(articleIDs)
	if err != nil {
		return nil, err
	}

	favorited := map[int64]bool{}
	following := map[int64]bool{}
	if viewerID != 0 {
		if favorited, err = s.favoriteRepo.BatchCheckFavorited(viewerID, articleIDs); err != nil {
			return nil, err
		}
		if !forceFollowing {
			if following, err = s.followRepo.BatchCheckFollowing(viewerID, authorIDs); err != nil {
				return nil, err
			}
		}
	}

	for i := range articles {
		a := &articles[i]
		tags := tagNames[a.ID]
		if tags == nil {
			tags = []string{}
		}
		infos = append(infos, dto.ArticleInfo{
			Slug:           a.Slug,
			Title:          a.Title,
			Description:    a.Description,
			Body:           a.Body,
			TagList:        tags,
			CreatedAt:      a.CreatedAt,
			UpdatedAt:      a.UpdatedAt,
			Favorited:      favorited[a.ID],
			FavoritesCount: favCounts[a.ID],
			Author:         *toProfile(&a.Author, forceFollowing || following[a.AuthorID]),
		})
	}
	return infos, nil
}

func (s *ArticleService) buildOne(viewerID int64, article *model.Article) (*dto.ArticleInfo, error) {
	infos, err := s.BuildArticles(viewerID, []model.Article{*article}, false)
	if err != nil {
		return nil, err
	}
	return &infos[0], nil
}

func (s *ArticleService) getBySlug(slug string) (*model.Article, error) {
	article, err := s.articleRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return article, nil
}

func (s *ArticleService) invalidateTags(ctx context.Context) {
	s.tagGen.Add(1)
	if s.tagCache == nil {
		return
	}
	if err := s.tagCache.Invalidate(ctx, popularTagsKey); err != nil {
		logger.Warn("Popular tags cache invalidation failed", zap.Error(err))
	}
}

// publish 事件发送失败只记录日志，不影响请求结果
// 脱离请求的取消信号，但最多等待 publishTimeout，broker 不可用时不拖慢写请求
func (s *ArticleService) publish(ctx context.Context, evt events.ArticleEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.Error("Failed to publish article event",
			zap.String("type", string(evt.Type)),
			zap.Int64("article_id", evt.ArticleID),
			zap.Error(err),
		)
	}
}
