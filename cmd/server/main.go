package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/mingle/internal/api/handler"
	"github.com/d60-Lab/mingle/internal/api/router"
	"github.com/d60-Lab/mingle/internal/cache"
	"github.com/d60-Lab/mingle/internal/config"
	"github.com/d60-Lab/mingle/internal/database"
	"github.com/d60-Lab/mingle/internal/realtime"
	"github.com/d60-Lab/mingle/internal/repository"
	"github.com/d60-Lab/mingle/internal/service"
	"github.com/d60-Lab/mingle/pkg/blob"
	"github.com/d60-Lab/mingle/pkg/logger"
	"github.com/d60-Lab/mingle/pkg/tracing"
)

// @title Mingle API
// @version 1.0
// @description Social networking backend: posts, follows, chat and realtime events.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Server.Mode); err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Fatal("init sentry", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}
	if cfg.Telemetry.Enabled {
		shutdown, err := tracing.Init(ctx, "mingle", cfg.Telemetry.Endpoint)
		if err != nil {
			logger.Fatal("init tracing", zap.Error(err))
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("tracing shutdown", zap.Error(err))
			}
		}()
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	followRepo := repository.NewFollowRepository(db)
	chatRepo := repository.NewChatRepository(db)

	var followerCache *cache.FollowerCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("connect redis", zap.Error(err))
		}
		followerCache = cache.NewFollowerCache(rdb, followRepo, userRepo, cfg.Redis.TTL)
	}

	hub := realtime.NewHub()
	go hub.Run(ctx)

	blobs, err := blob.NewDiskStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		logger.Fatal("init uploads dir", zap.Error(err))
	}

	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	profileService := service.NewProfileService(userRepo)
	postService := service.NewPostService(postRepo, userRepo, blobs, hub)
	followService := service.NewFollowService(followRepo, userRepo, followerCache, hub)
	chatService := service.NewChatService(chatRepo, userRepo, hub)
	searchService := service.NewSearchService(userRepo, postRepo)

	h := handler.New(authService, profileService, postService, followService, chatService, searchService, blobs, hub)
	engine := router.New(cfg, h, authService)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", zap.Error(err))
	}
}
