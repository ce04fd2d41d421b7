package service

import (
	"context"
	"testing"
	"time"

	"conduit/internal/api/dto"
	"conduit/internal/events"
	"conduit/internal/model"
	"conduit/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleService_CreateAndGet(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")

	created := f.publish(t, alice, "Hello World", "go", "web", "go")
	assert.Regexp(t, `^hello-world-[0-9a-z]+$`, created.Slug)
	assert.Equal(t, []string{"go", "web"}, created.TagList)
	assert.Equal(t, "alice", created.Author.Username)
	assert.False(t, created.Favorited)
	assert.Zero(t, created.FavoritesCount)

	got, err := f.articles.GetBySlug(0, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.Slug, got.Slug)
	assert.Equal(t, "alice", got.Author.Username)
	assert.False(t, got.Author.Following)

	assert.Equal(t, []events.Type{events.ArticleCreated}, f.publisher.types())

	_, err = f.articles.GetBySlug(0, "missing")
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestArticleService_TagsAreSharedAcrossArticles(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")

	f.publish(t, alice, "One", "go")
	f.publish(t, alice, "Two", "go", "db")

	var tags int64
	require.NoError(t, f.db.Model(&model.Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(2), tags)
}

func TestArticleService_UpdateChecksExistenceThenOwnership(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	a := f.publish(t, alice, "Original", "go")

	_, err := f.articles.Update(context.Background(), bob, "missing", &dto.UpdateArticle{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrArticleNotFound)

	_, err = f.articles.Update(context.Background(), bob, a.Slug, &dto.UpdateArticle{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrArticleForbidden)

	_, err = f.articles.Update(context.Background(), alice, a.Slug, &dto.UpdateArticle{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	updated, err := f.articles.Update(context.Background(), alice, a.Slug, &dto.UpdateArticle{Title: strPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, a.Slug, updated.Slug, "slug is never re-derived")
	assert.Equal(t, a.Body, updated.Body)
	assert.Equal(t, []string{"go"}, updated.TagList)
}

func TestArticleService_DeleteRemovesDependents(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	a := f.publish(t, alice, "Doomed", "go")

	_, err := f.interaction.Favorite(context.Background(), bob, a.Slug)
	require.NoError(t, err)
	_, err = f.interaction.React(bob, a.Slug, model.EmotionLove)
	require.NoError(t, err)
	_, err = f.comments.Create(bob, a.Slug, "nice")
	require.NoError(t, err)

	assert.ErrorIs(t, f.articles.Delete(context.Background(), bob, a.Slug), ErrArticleForbidden)
	require.NoError(t, f.articles.Delete(context.Background(), alice, a.Slug))

	for _, m := range []interface{}{&model.Article{}, &model.Comment{}, &model.Favorite{}, &model.Emotion{}, &model.ArticleTag{}} {
		var n int64
		require.NoError(t, f.db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T left behind", m)
	}

	assert.ErrorIs(t, f.articles.Delete(context.Background(), alice, a.Slug), ErrArticleNotFound)
	assert.Contains(t, f.publisher.types(), events.ArticleDeleted)
}

func TestArticleService_ListFilters(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	a1 := f.publish(t, alice, "A1", "go")
	f.publish(t, alice, "A2", "rust")
	b1 := f.publish(t, bob, "B1", "go")

	_, err := f.interaction.Favorite(context.Background(), bob, a1.Slug)
	require.NoError(t, err)

	all, err := f.articles.List(0, repository.ArticleFilter{}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.ArticlesCount)
	assert.Equal(t, b1.Slug, all.Articles[0].Slug, "newest first")

	byTag, err := f.articles.List(0, repository.ArticleFilter{Tag: "go"}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byTag.ArticlesCount)

	byAuthor, err := f.articles.List(0, repository.ArticleFilter{Author: "alice"}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byAuthor.ArticlesCount)

	combined, err := f.articles.List(0, repository.ArticleFilter{Tag: "go", Author: "alice"}, 0, 20)
	require.NoError(t, err)
	require.Len(t, combined.Articles, 1)
	assert.Equal(t, a1.Slug, combined.Articles[0].Slug)

	byFav, err := f.articles.List(bob, repository.ArticleFilter{Favorited: "bob"}, 0, 20)
	require.NoError(t, err)
	require.Len(t, byFav.Articles, 1)
	assert.True(t, byFav.Articles[0].Favorited)
	assert.Equal(t, int64(1), byFav.Articles[0].FavoritesCount)

	none, err := f.articles.List(0, repository.ArticleFilter{Author: "ghost"}, 0, 20)
	require.NoError(t, err)
	assert.Zero(t, none.ArticlesCount)
	assert.Empty(t, none.Articles)

	paged, err := f.articles.List(0, repository.ArticleFilter{}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), paged.ArticlesCount)
	require.Len(t, paged.Articles, 1)
}

func TestArticleService_FeedOnlyFollowedAuthors(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	carol := f.register(t, "carol")

	empty, err := f.articles.Feed(alice, 0, 20)
	require.NoError(t, err)
	assert.Zero(t, empty.ArticlesCount)
	assert.NotNil(t, empty.Articles)

	f.publish(t, bob, "B1")
	f.publish(t, carol, "C1")
	f.publish(t, alice, "Mine")
	b2 := f.publish(t, bob, "B2")

	_, err = f.profiles.Follow(alice, "bob")
	require.NoError(t, err)

	feed, err := f.articles.Feed(alice, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), feed.ArticlesCount)
	require.Len(t, feed.Articles, 2)
	assert.Equal(t, b2.Slug, feed.Articles[0].Slug)
	for _, a := range feed.Articles {
		assert.Equal(t, "bob", a.Author.Username)
		assert.True(t, a.Author.Following)
	}

}

type mapCache struct {
	data        map[string]map[string][]dto.TagInfo
	invalidated int
	onMiss      func()
}

func (c *mapCache) Get(_ context.Context, key, field string, dst interface{}) (bool, error) {
	v, ok := c.data[key][field]
	if !ok {
		if c.onMiss != nil {
			c.onMiss()
		}
		return false, nil
	}
	*(dst.(*[]dto.TagInfo)) = v
	return true, nil
}

func (c *mapCache) Set(_ context.Context, key, field string, value interface{}) error {
	if c.data[key] == nil {
		c.data[key] = map[string][]dto.TagInfo{}
	}
	c.data[key][field] = value.([]dto.TagInfo)
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, key string) error {
	delete(c.data, key)
	c.invalidated++
	return nil
}

func TestArticleService_PopularTags(t *testing.T) {
	cache := &mapCache{data: map[string]map[string][]dto.TagInfo{}}
	f := newFixture(t, cache)
	alice := f.register(t, "alice")

	f.publish(t, alice, "One", "go", "web")
	f.publish(t, alice, "Two", "go")
	f.publish(t, alice, "Three", "go", "db", "web")

	tags, err := f.articles.PopularTags(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []dto.TagInfo{{Name: "go", Count: 3}, {Name: "web", Count: 2}}, tags)
	assert.Contains(t, cache.data[popularTagsKey], "2")

	// 命中缓存时不再查库
	cache.data[popularTagsKey]["2"] = []dto.TagInfo{{Name: "cached", Count: 1}}
	tags, err = f.articles.PopularTags(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "cached", tags[0].Name)

	f.publish(t, alice, "Four", "db")
	assert.NotContains(t, cache.data, popularTagsKey)
	assert.Equal(t, 4, cache.invalidated)
}

func TestArticleService_PopularTagsNotCachedAfterConcurrentInvalidation(t *testing.T) {
	cache := &mapCache{data: map[string]map[string][]dto.TagInfo{}}
	f := newFixture(t, cache)
	alice := f.register(t, "alice")
	f.publish(t, alice, "One", "go")

	// 未命中后、查库前有文章写入导致失效
	cache.onMiss = func() {
		cache.onMiss = nil
		f.publish(t, alice, "Two", "rust")
	}

	tags, err := f.articles.PopularTags(context.Background(), 10)
	require.NoError(t, err)
	assert.NotEmpty(t, tags)
	assert.NotContains(t, cache.data, popularTagsKey, "stale result must not be written back")

	// 下一次读取正常回填
	tags, err = f.articles.PopularTags(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
	assert.Contains(t, cache.data[popularTagsKey], "10")
}

func TestArticleService_CreateSlugCollisionIsConflict(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")
	f.articles.newSlug = func(string) string { return "fixed-slug" }

	f.publish(t, alice, "First")
	_, err := f.articles.Create(context.Background(), alice, &dto.CreateArticle{Title: "Second", Body: "b"})
	assert.ErrorIs(t, err, ErrSlugConflict)
}

// blockingPublisher 一直阻塞到 ctx 结束，模拟 broker 不可用
type blockingPublisher struct {
	hadDeadline bool
}

func (p *blockingPublisher) Publish(ctx context.Context, _ events.ArticleEvent) error {
	_, p.hadDeadline = ctx.Deadline()
	<-ctx.Done()
	return ctx.Err()
}

func TestArticleService_PublishIsBoundedByTimeout(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")

	pub := &blockingPublisher{}
	articles := NewArticleService(f.articleRepo, f.tagRepo, f.favRepo, repository.NewFollowRepository(f.db), pub, nil)
	articles.publishTimeout = 50 * time.Millisecond

	start := time.Now()
	created, err := articles.Create(context.Background(), alice, &dto.CreateArticle{Title: "Slow broker", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Author.Username)
	assert.True(t, pub.hadDeadline)
	assert.Less(t, time.Since(start), 2*time.Second)
}
