package service

import (
	"context"
	"testing"

	"conduit/internal/events"
	"conduit/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionService_FavoriteRoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	carol := f.register(t, "carol")
	a := f.publish(t, alice, "Post")
	ctx := context.Background()

	_, err := f.interaction.Favorite(ctx, carol, a.Slug)
	require.NoError(t, err)

	before, err := f.articles.GetBySlug(bob, a.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(1), before.FavoritesCount)

	fav, err := f.interaction.Favorite(ctx, bob, a.Slug)
	require.NoError(t, err)
	assert.True(t, fav.Favorited)
	assert.Equal(t, int64(2), fav.FavoritesCount)

	again, err := f.interaction.Favorite(ctx, bob, a.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.FavoritesCount, "favoriting twice does not duplicate")

	unfav, err := f.interaction.Unfavorite(ctx, bob, a.Slug)
	require.NoError(t, err)
	assert.False(t, unfav.Favorited)
	assert.Equal(t, before.FavoritesCount, unfav.FavoritesCount)

	unfav, err = f.interaction.Unfavorite(ctx, bob, a.Slug)
	require.NoError(t, err)
	assert.Equal(t, before.FavoritesCount, unfav.FavoritesCount)

	_, err = f.interaction.Favorite(ctx, bob, "missing")
	assert.ErrorIs(t, err, ErrArticleNotFound)

	types := f.publisher.types()
	assert.Contains(t, types, events.ArticleFavorited)
	assert.Contains(t, types, events.ArticleUnfavorited)
}

func TestInteractionService_Reactions(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	a := f.publish(t, alice, "Post")

	r, err := f.interaction.React(bob, a.Slug, model.EmotionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.Counts[model.EmotionLike])
	require.NotNil(t, r.Mine)
	assert.Equal(t, model.EmotionLike, *r.Mine)

	// 再次反应覆盖类型，不新增记录
	r, err = f.interaction.React(bob, a.Slug, model.EmotionHaha)
	require.NoError(t, err)
	assert.Zero(t, r.Counts[model.EmotionLike])
	assert.Equal(t, int64(1), r.Counts[model.EmotionHaha])
	assert.Equal(t, model.EmotionHaha, *r.Mine)

	_, err = f.interaction.React(alice, a.Slug, model.EmotionHaha)
	require.NoError(t, err)

	anon, err := f.interaction.GetReactions(0, a.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(2), anon.Counts[model.EmotionHaha])
	assert.Len(t, anon.Counts, len(model.EmotionTypes))
	assert.Nil(t, anon.Mine)

	r, err = f.interaction.RemoveReaction(bob, a.Slug)
	require.NoError(t, err)
	assert.Nil(t, r.Mine)
	assert.Equal(t, int64(1), r.Counts[model.EmotionHaha])

	_, err = f.interaction.RemoveReaction(bob, a.Slug)
	assert.NoError(t, err)
}

func TestInteractionService_ReactionErrors(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice")
	a := f.publish(t, alice, "Post")

	_, err := f.interaction.React(alice, a.Slug, "MEH")
	assert.ErrorIs(t, err, ErrInvalidEmotion)

	_, err = f.interaction.React(alice, "missing", model.EmotionLike)
	assert.ErrorIs(t, err, ErrArticleNotFound)

	_, err = f.interaction.GetReactions(0, "missing")
	assert.ErrorIs(t, err, ErrArticleNotFound)
}
