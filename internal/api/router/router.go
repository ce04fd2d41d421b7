package router

import (
	"conduit/internal/api/handler"
	"conduit/internal/api/middleware"
	"conduit/internal/api/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	User        *handler.UserHandler
	Profile     *handler.ProfileHandler
	Article     *handler.ArticleHandler
	Interaction *handler.InteractionHandler
	Comment     *handler.CommentHandler
	Health      *handler.HealthHandler
}

// New 创建带公共中间件的 Gin 引擎并注册路由
func New(h *Handlers, verifier middleware.TokenVerifier) *gin.Engine {
	response.UseJSONFieldNames()

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	r.GET("/healthz", h.Health.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	Setup(r, h, verifier)
	return r
}

// Setup 注册所有业务路由
func Setup(r *gin.Engine, h *Handlers, verifier middleware.TokenVerifier) {
	auth := middleware.AuthRequired(verifier)
	optional := middleware.OptionalAuth(verifier)

	api := r.Group("/api")

	// --- 用户模块 ---
	users := api.Group("/users")
	{
		users.POST("", h.User.Register)
		users.POST("/login", h.User.Login)
	}

	user := api.Group("/user", auth)
	{
		user.GET("", h.User.Me)
		user.PUT("", h.User.Update)
		user.POST("/image", h.User.UploadImage)
	}

	// --- 关注模块 ---
	profiles := api.Group("/profile")
	{
		profiles.GET("/:username", optional, h.Profile.Get)
		profiles.POST("/:username/follow", auth, h.Profile.Follow)
		profiles.DELETE("/:username/follow", auth, h.Profile.Unfollow)
	}

	// --- 文章模块 ---
	articles := api.Group("/articles")
	{
		articles.GET("", optional, h.Article.List)
		articles.GET("/feeds", auth, h.Article.Feed)
		articles.GET("/tags", h.Article.Tags)
		articles.GET("/search", optional, h.Article.Search)

		articles.POST("", auth, h.Article.Create)
		articles.GET("/:slug", optional, h.Article.Get)
		articles.PUT("/:slug", auth, h.Article.Update)
		articles.DELETE("/:slug", auth, h.Article.Delete)

		// 收藏与表情
		articles.POST("/:slug/favorite", auth, h.Interaction.Favorite)
		articles.DELETE("/:slug/favorite", auth, h.Interaction.Unfavorite)
		articles.GET("/:slug/emotions", optional, h.Interaction.Reactions)
		articles.POST("/:slug/emotions", auth, h.Interaction.React)
		articles.DELETE("/:slug/emotions", auth, h.Interaction.RemoveReaction)

		// 评论
		articles.GET("/:slug/comments", optional, h.Comment.List)
		articles.POST("/:slug/comments", auth, h.Comment.Create)
		articles.PUT("/:slug/comments/:id", auth, h.Comment.Update)
		articles.DELETE("/:slug/comments/:id", auth, h.Comment.Delete)
	}
}
