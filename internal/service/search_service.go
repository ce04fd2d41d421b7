package service

import (
	"context"
	"strings"
	"time"

	"conduit/internal/api/dto"
	"conduit/internal/model"
	"conduit/internal/repository"
	"conduit/pkg/logger"

	"go.uber.org/zap"
)

// ArticleSearcher 全文索引
type ArticleSearcher interface {
	Search(ctx context.Context, keyword string, offset, limit int) ([]int64, int64, error)
}

type SearchService struct {
	articles    *ArticleService
	articleRepo *repository.ArticleRepository
	index       ArticleSearcher
}

// NewSearchService index 为 nil 时直接走数据库模糊匹配
func NewSearchService(articles *ArticleService, articleRepo *repository.ArticleRepository, index ArticleSearcher) *SearchService {
	return &SearchService{articles: articles, articleRepo: articleRepo, index: index}
}

// Search 搜索文章（ES 优先，失败则降级到 DB）
func (s *SearchService) Search(ctx context.Context, viewerID int64, keyword string, offset, limit int) (*dto.ArticleListResponse, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return &dto.ArticleListResponse{Articles: []dto.ArticleInfo{}}, nil
	}

	var (
		articles []model.Article
		total    int64
		err      error
	)
	if s.index != nil {
		articles, total, err = s.searchFromIndex(ctx, keyword, offset, limit)
		if err != nil {
			logger.Warn("ES search failed, fallback to DB", zap.Error(err))
		}
	}
	if s.index == nil || err != nil {
		articles, total, err = s.articleRepo.Search(keyword, offset, limit)
		if err != nil {
			return nil, err
		}
	}

	infos, err := s.articles.BuildArticles(viewerID, articles, false)
	if err != nil {
		return nil, err
	}
	return &dto.ArticleListResponse{Articles: infos, ArticlesCount: total}, nil
}

func (s *SearchService) searchFromIndex(ctx context.Context, keyword string, offset, limit int) ([]model.Article, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ids, total, err := s.index.Search(ctx, keyword, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	articles, err := s.articleRepo.GetByIDs(ids)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}
