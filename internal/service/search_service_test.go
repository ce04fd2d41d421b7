package service

import (
	"context"
	"errors"
	"testing"

	"conduit/internal/events"
	es "conduit/internal/infra/elasticsearch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	ids   []int64
	total int64
	err   error
}

func (s *stubSearcher) Search(context.Context, string, int, int) ([]int64, int64, error) {
	return s.ids, s.total, s.err
}

func TestSearchService_DatabaseFallback(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")
	f.publish(t, alice, "Learning Golang")
	f.publish(t, alice, "Cooking pasta")

	for name, index := range map[string]ArticleSearcher{
		"no index":     nil,
		"index failed": &stubSearcher{err: errors.New("es down")},
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewSearchService(f.articles, f.articleRepo, index)
			res, err := svc.Search(context.Background(), 0, "GOLANG", 0, 20)
			require.NoError(t, err)
			assert.Equal(t, int64(1), res.ArticlesCount)
			require.Len(t, res.Articles, 1)
			assert.Equal(t, "Learning Golang", res.Articles[0].Title)
		})
	}
}

func TestSearchService_UsesIndexOrder(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")
	a := f.publish(t, alice, "First")
	b := f.publish(t, alice, "Second")

	articleA, err := f.articleRepo.GetBySlug(a.Slug)
	require.NoError(t, err)
	articleB, err := f.articleRepo.GetBySlug(b.Slug)
	require.NoError(t, err)

	svc := NewSearchService(f.articles, f.articleRepo, &stubSearcher{ids: []int64{articleA.ID, 999, articleB.ID}, total: 7})
	res, err := svc.Search(context.Background(), 0, "anything", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.ArticlesCount)
	require.Len(t, res.Articles, 2)
	assert.Equal(t, a.Slug, res.Articles[0].Slug)
	assert.Equal(t, b.Slug, res.Articles[1].Slug)

	empty, err := svc.Search(context.Background(), 0, "   ", 0, 20)
	require.NoError(t, err)
	assert.Empty(t, empty.Articles)
}

type memoryIndex struct {
	docs map[int64]es.ArticleDoc
}

func (m *memoryIndex) Index(_ context.Context, doc *es.ArticleDoc) error {
	m.docs[doc.ID] = *doc
	return nil
}

func (m *memoryIndex) Delete(_ context.Context, id int64) error {
	delete(m.docs, id)
	return nil
}

func (m *memoryIndex) BulkIndex(_ context.Context, docs []es.ArticleDoc) (int, int, error) {
	for _, d := range docs {
		m.docs[d.ID] = d
	}
	return len(docs), 0, nil
}

func TestIndexService_HandleEvent(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	a := f.publish(t, alice, "Indexed", "go")
	article, err := f.articleRepo.GetBySlug(a.Slug)
	require.NoError(t, err)

	_, err = f.interaction.Favorite(context.Background(), bob, a.Slug)
	require.NoError(t, err)

	idx := &memoryIndex{docs: map[int64]es.ArticleDoc{}}
	svc := NewIndexService(f.articleRepo, f.tagRepo, f.favRepo, idx)

	require.NoError(t, svc.HandleEvent(context.Background(), &events.ArticleEvent{Type: events.ArticleFavorited, ArticleID: article.ID}))
	doc := idx.docs[article.ID]
	assert.Equal(t, a.Slug, doc.Slug)
	assert.Equal(t, "alice", doc.Author)
	assert.Equal(t, []string{"go"}, doc.Tags)
	assert.Equal(t, int64(1), doc.FavoritesCount)

	require.NoError(t, svc.HandleEvent(context.Background(), &events.ArticleEvent{Type: events.ArticleDeleted, ArticleID: article.ID}))
	assert.Empty(t, idx.docs)

	// 文章已不存在时清理残留文档
	idx.docs[12345] = es.ArticleDoc{ID: 12345}
	require.NoError(t, svc.HandleEvent(context.Background(), &events.ArticleEvent{Type: events.ArticleUpdated, ArticleID: 12345}))
	assert.Empty(t, idx.docs)
}

func TestIndexService_Reindex(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		f.publish(t, alice, title)
	}

	idx := &memoryIndex{docs: map[int64]es.ArticleDoc{}}
	svc := NewIndexService(f.articleRepo, f.tagRepo, f.favRepo, idx)

	ok, failed, err := svc.Reindex(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 5, ok)
	assert.Zero(t, failed)
	assert.Len(t, idx.docs, 5)
}
