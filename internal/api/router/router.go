package router

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/mingle/docs"
	"github.com/d60-Lab/mingle/internal/api/handler"
	"github.com/d60-Lab/mingle/internal/config"
	"github.com/d60-Lab/mingle/internal/middleware"
	"github.com/d60-Lab/mingle/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// usernameOK mirrors the registration rule: letters, digits, underscore.
func usernameOK(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

// New wires the full HTTP surface.
func New(cfg *config.Config, h *handler.Handler, authService service.AuthService) *gin.Engine {
	gin.SetMode(ginMode(cfg.Server.Mode))
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Telemetry.Enabled {
		r.Use(otelgin.Middleware("mingle"))
	}
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	r.Use(middleware.Metrics())

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("handle", usernameOK)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static(cfg.Uploads.BaseURL, cfg.Uploads.Dir)

	r.GET("/ws", h.ServeWS)

	api := r.Group("/api")
	requireAuth := middleware.Auth(authService)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	profile := api.Group("/profile")
	{
		profile.GET("/:username", h.GetProfile)
		profile.PATCH("", requireAuth, h.UpdateProfile)
		profile.POST("/picture", requireAuth, h.UploadProfilePicture)
	}

	posts := api.Group("/posts")
	{
		posts.POST("", requireAuth, h.CreatePost)
		posts.GET("", h.GetFeedPosts)
		posts.GET("/users/:username/posts", h.GetUserPosts)
		posts.GET("/:id", h.GetPost)
		posts.DELETE("/:id", requireAuth, h.DeletePost)
		posts.POST("/:id/like", requireAuth, h.LikePost)
		posts.DELETE("/:id/like", requireAuth, h.UnlikePost)
		posts.POST("/:id/comments", requireAuth, h.AddComment)
		posts.GET("/:id/comments", h.GetComments)
		posts.DELETE("/:id/comments/:commentId", requireAuth, h.DeleteComment)
	}

	follow := api.Group("/follow", requireAuth)
	{
		follow.POST("/:userId", h.FollowUser)
		follow.DELETE("/:userId", h.UnfollowUser)
		follow.GET("/followers", h.GetFollowers)
		follow.GET("/following", h.GetFollowing)
		follow.GET("/check/:userId", h.CheckFollowing)
	}

	chats := api.Group("/chats", requireAuth)
	{
		chats.GET("", h.GetChats)
		chats.GET("/user/:userId", h.GetOrCreateChat)
		chats.POST("/:chatId/message", h.SendMessage)
		chats.GET("/:chatId/messages", h.GetMessages)
	}

	search := api.Group("/search")
	{
		search.GET("", h.SearchGlobal)
		search.GET("/users", h.SearchUsers)
		search.GET("/posts", h.SearchPosts)
	}

	return r
}

func ginMode(mode string) string {
	if mode == "release" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}
