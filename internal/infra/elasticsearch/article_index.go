package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"conduit/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

const articlesMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	},
	"mappings": {
		"properties": {
			"id": {"type": "long"},
			"slug": {"type": "keyword"},
			"title": {
				"type": "text",
				"fields": {"keyword": {"type": "keyword", "ignore_above": 256}}
			},
			"description": {"type": "text"},
			"body": {"type": "text"},
			"tags": {"type": "keyword"},
			"author": {"type": "keyword"},
			"favorites_count": {"type": "long"},
			"created_at": {"type": "date", "format": "strict_date_optional_time||epoch_millis"},
			"updated_at": {"type": "date", "format": "strict_date_optional_time||epoch_millis"}
		}
	}
}`

// ArticleDoc ES 文章文档结构
type ArticleDoc struct {
	ID             int64    `json:"id"`
	Slug           string   `json:"slug"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Body           string   `json:"body"`
	Tags           []string `json:"tags"`
	Author         string   `json:"author"`
	FavoritesCount int64    `json:"favorites_count"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// FormatTime 文档中的时间格式
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ArticleIndex 文章全文索引
type ArticleIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewArticleIndex(es *elasticsearch.Client, index string) *ArticleIndex {
	return &ArticleIndex{es: es, index: index}
}

// EnsureIndex 确保索引存在，不存在则创建
func (a *ArticleIndex) EnsureIndex(ctx context.Context) error {
	resp, err := a.es.Indices.Exists([]string{a.index}, a.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode == 200 {
		logger.Info("Elasticsearch articles index already exists", zap.String("index", a.index))
		return nil
	}

	resp, err = a.es.Indices.Create(
		a.index,
		a.es.Indices.Create.WithContext(ctx),
		a.es.Indices.Create.WithBody(strings.NewReader(articlesMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("create index failed: %s", resp.String())
	}

	logger.Info("Elasticsearch articles index created", zap.String("index", a.index))
	return nil
}

// Index 写入或覆盖单篇文章
func (a *ArticleIndex) Index(ctx context.Context, doc *ArticleDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	resp, err := a.es.Index(
		a.index,
		bytes.NewReader(body),
		a.es.Index.WithContext(ctx),
		a.es.Index.WithDocumentID(strconv.FormatInt(doc.ID, 10)),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("index document failed: %s", resp.String())
	}

	logger.Debug("Article synced to ES", zap.Int64("article_id", doc.ID))
	return nil
}

// Delete 从索引删除文章，文档不存在不视为错误
func (a *ArticleIndex) Delete(ctx context.Context, articleID int64) error {
	resp, err := a.es.Delete(a.index, strconv.FormatInt(articleID, 10), a.es.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() && resp.StatusCode != 404 {
		return fmt.Errorf("delete document failed: %s", resp.String())
	}
	return nil
}

// BulkIndex 批量写入文章
func (a *ArticleIndex) BulkIndex(ctx context.Context, docs []ArticleDoc) (success, failed int, err error) {
	if len(docs) == 0 {
		return 0, 0, nil
	}

	var buf bytes.Buffer
	for i := range docs {
		docBody, err := json.Marshal(&docs[i])
		if err != nil {
			return 0, len(docs), err
		}
		fmt.Fprintf(&buf, `{"index":{"_index":%q,"_id":"%d"}}`+"\n", a.index, docs[i].ID)
		buf.Write(docBody)
		buf.WriteByte('\n')
	}

	resp, err := a.es.Bulk(&buf, a.es.Bulk.WithContext(ctx))
	if err != nil {
		return 0, len(docs), err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return 0, len(docs), fmt.Errorf("bulk failed: %s", resp.String())
	}

	var bulkResp struct {
		Items []struct {
			Index struct {
				Status int `json:"status"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return 0, len(docs), fmt.Errorf("decode bulk response: %w", err)
	}

	for _, item := range bulkResp.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			success++
		} else {
			failed++
		}
	}

	logger.Info("Bulk sync to ES completed", zap.Int("success", success), zap.Int("failed", failed))
	return success, failed, nil
}

// Search 全文检索，返回按相关度排序的文章 ID 与命中总数
func (a *ArticleIndex) Search(ctx context.Context, keyword string, offset, limit int) ([]int64, int64, error) {
	query, err := json.Marshal(buildSearchQuery(keyword, offset, limit))
	if err != nil {
		return nil, 0, err
	}

	resp, err := a.es.Search(
		a.es.Search.WithContext(ctx),
		a.es.Search.WithIndex(a.index),
		a.es.Search.WithBody(bytes.NewReader(query)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, 0, fmt.Errorf("ES search error: %s", resp.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, esResp.Hits.Total.Value, nil
}

func buildSearchQuery(keyword string, offset, limit int) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":    strings.TrimSpace(keyword),
							"fields":   []string{"title^3", "description^2", "body", "tags^2"},
							"type":     "best_fields",
							"operator": "or",
						},
					},
					map[string]interface{}{"term": map[string]interface{}{"author": keyword}},
				},
				"minimum_should_match": 1,
			},
		},
		"_source": []string{"id"},
		"from":    offset,
		"size":    limit,
		"sort": []interface{}{
			map[string]interface{}{"_score": map[string]string{"order": "desc"}},
			map[string]interface{}{"created_at": map[string]string{"order": "desc"}},
		},
	}
}
