package service

import (
	"context"
	"errors"
	"fmt"

	"conduit/internal/events"
	es "conduit/internal/infra/elasticsearch"
	"conduit/internal/model"
	"conduit/internal/repository"
	"conduit/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DocumentIndex 文章索引写入端
type DocumentIndex interface {
	Index(ctx context.Context, doc *es.ArticleDoc) error
	Delete(ctx context.Context, articleID int64) error
	BulkIndex(ctx context.Context, docs []es.ArticleDoc) (success, failed int, err error)
}

// IndexService 根据文章事件维护搜索索引
type IndexService struct {
	articleRepo  *repository.ArticleRepository
	tagRepo      *repository.TagRepository
	favoriteRepo *repository.FavoriteRepository
	index        DocumentIndex
}

func NewIndexService(
	articleRepo *repository.ArticleRepository,
	tagRepo *repository.TagRepository,
	favoriteRepo *repository.FavoriteRepository,
	index DocumentIndex,
) *IndexService {
	return &IndexService{articleRepo: articleRepo, tagRepo: tagRepo, favoriteRepo: favoriteRepo, index: index}
}

// HandleEvent 删除事件移除文档，其余事件重新加载文章并覆盖写入
func (s *IndexService) HandleEvent(ctx context.Context, evt *events.ArticleEvent) error {
	if evt.Type == events.ArticleDeleted {
		return s.index.Delete(ctx, evt.ArticleID)
	}

	article, err := s.articleRepo.GetByID(evt.ArticleID)
	if err != nil {
		// 文章已被删除，后续的 deleted 事件会清理索引
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug("Article gone before indexing", zap.Int64("article_id", evt.ArticleID))
			return s.index.Delete(ctx, evt.ArticleID)
		}
		return err
	}

	docs, err := s.toDocs([]model.Article{*article})
	if err != nil {
		return err
	}
	return s.index.Index(ctx, &docs[0])
}

// Reindex 全量重建索引，返回成功与失败的文档数
func (s *IndexService) Reindex(ctx context.Context, batchSize int) (success, failed int, err error) {
	var afterID int64
	for {
		if err := ctx.Err(); err != nil {
			return success, failed, err
		}

		articles, err := s.articleRepo.ListAfterID(afterID, batchSize)
		if err != nil {
			return success, failed, fmt.Errorf("load articles: %w", err)
		}
		if len(articles) == 0 {
			return success, failed, nil
		}

		docs, err := s.toDocs(articles)
		if err != nil {
			return success, failed, err
		}
		ok, bad, err := s.index.BulkIndex(ctx, docs)
		if err != nil {
			return success, failed, err
		}
		success += ok
		failed += bad
		afterID = articles[len(articles)-1].ID
	}
}

func (s *IndexService) toDocs(articles []model.Article) ([]es.ArticleDoc, error) {
	ids := make([]int64, 0, len(articles))
	for i := range articles {
		ids = append(ids, articles[i].ID)
	}

	tagNames, err := s.tagRepo.GetNamesByArticleIDs(ids)
	if err != nil {
		return nil, err
	}
	favCounts, err := s.favoriteRepo.CountByArticleIDs(ids)
	if err != nil {
		return nil, err
	}

	docs := make([]es.ArticleDoc, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		docs = append(docs, es.ArticleDoc{
			ID:             a.ID,
			Slug:           a.Slug,
			Title:          a.Title,
			Description:    a.Description,
			Body:           a.Body,
			Tags:           tagNames[a.ID],
			Author:         a.Author.Username,
			FavoritesCount: favCounts[a.ID],
			CreatedAt:      es.FormatTime(a.CreatedAt),
			UpdatedAt:      es.FormatTime(a.UpdatedAt),
		})
	}
	return docs, nil
}
