package service

import (
	"context"
	"sync"
	"testing"

	"conduit/internal/api/dto"
	"conduit/internal/config"
	"conduit/internal/events"
	"conduit/internal/repository"
	"conduit/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingPublisher 记录发布过的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ArticleEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.ArticleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	db          *gorm.DB
	publisher   *recordingPublisher
	credentials *CredentialService
	users       *UserService
	profiles    *ProfileService
	articles    *ArticleService
	comments    *CommentService
	interaction *InteractionService
	articleRepo *repository.ArticleRepository
	tagRepo     *repository.TagRepository
	favRepo     *repository.FavoriteRepository
}

func newFixture(t *testing.T, cache TagCache) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	tagRepo := repository.NewTagRepository(db)
	favRepo := repository.NewFavoriteRepository(db)
	emotionRepo := repository.NewEmotionRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	pub := &recordingPublisher{}
	creds := NewCredentialService(&config.JWTConfig{Secret: "test-secret", Issuer: "conduit"})
	articles := NewArticleService(articleRepo, tagRepo, favRepo, followRepo, pub, cache)

	return &fixture{
		db:          db,
		publisher:   pub,
		credentials: creds,
		users:       NewUserService(userRepo, creds, nil),
		profiles:    NewProfileService(userRepo, followRepo),
		articles:    articles,
		comments:    NewCommentService(articles, commentRepo, followRepo),
		interaction: NewInteractionService(articles, favRepo, emotionRepo),
		articleRepo: articleRepo,
		tagRepo:     tagRepo,
		favRepo:     favRepo,
	}
}

// register 注册用户并返回其 ID
func (f *fixture) register(t *testing.T, username string) int64 {
	t.Helper()
	info, err := f.users.Register(&dto.RegisterUser{
		Email:    username + "@example.com",
		Username: username,
		Password: "password123",
	})
	require.NoError(t, err)

	id, err := f.credentials.VerifyToken(info.Token)
	require.NoError(t, err)
	return id
}

func (f *fixture) publish(t *testing.T, authorID int64, title string, tags ...string) *dto.ArticleInfo {
	t.Helper()
	article, err := f.articles.Create(context.Background(), authorID, &dto.CreateArticle{
		Title:       title,
		Description: "about " + title,
		Body:        "body of " + title,
		TagList:     tags,
	})
	require.NoError(t, err)
	return article
}

func strPtr(s string) *string { return &s }
