package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"kbcportal/config"
	"kbcportal/internal/application/catalog"
	"kbcportal/internal/application/usecase"
	"kbcportal/internal/infrastructure/cache"
	"kbcportal/internal/infrastructure/database"
	"kbcportal/internal/infrastructure/logger"
	"kbcportal/internal/infrastructure/repository"
	"kbcportal/internal/infrastructure/security"
	"kbcportal/internal/infrastructure/vimeo"
	"kbcportal/internal/middleware"
	grpc_server "kbcportal/internal/transport/grpc"
	handlers "kbcportal/internal/transport/http"
)

func main() {
	// 1. Config
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	preview, err := catalog.ParsePreviewPolicy(cfg.CatalogPreviewPolicy)
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	payloadPolicy, err := usecase.ParsePayloadPolicy(cfg.AdminPayloadPolicy)
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer appLog.Sync()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Database
	db, err := database.Open(cfg.DSN())
	if err != nil {
		appLog.Fatal("database", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		appLog.Fatal("migrate", "error", err)
	}

	// 3. Redis is optional: without it sessions live in memory, the video
	// list is not cached and login is not rate limited.
	var (
		rdb      *redis.Client
		sessions usecase.SessionStore = cache.NewMemorySessionStore()
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			appLog.Fatal("redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer rdb.Close()
		sessions = cache.NewSessionStore(rdb)
		appLog.Info("connected to redis", "addr", cfg.RedisAddr)
	} else {
		appLog.Warn("REDIS_ADDR is empty, using in-memory sessions")
	}

	// 4. Video host
	vimeoClient := vimeo.NewClient(vimeo.Options{
		BaseURL:  cfg.VimeoAPIBase,
		Token:    cfg.VimeoAccessToken,
		PerPage:  cfg.VimeoPerPage,
		MaxPages: cfg.VimeoMaxPages,
		Timeout:  cfg.VimeoTimeout,
	}, appLog)
	var videos vimeo.VideoSource = vimeoClient
	if rdb != nil {
		videos = vimeo.NewCachedSource(vimeoClient, cache.NewVideoCache(rdb), cfg.VimeoCacheTTL, appLog)
	}
	if cfg.VimeoAccessToken == "" {
		appLog.Warn("VIMEO_ACCESS_TOKEN is empty, video lists will be empty")
	}

	// 5. Use cases and handlers
	courseRepo := repository.NewCourseRepository(db)
	orderRepo := repository.NewVideoOrderRepository(db)
	userRepo := repository.NewUserRepository(db)

	authUC := usecase.NewAuthUseCase(userRepo, sessions, security.NewPasswordHasher(), security.NewTokenManager(cfg.SessionSecret), appLog)
	catalogUC := usecase.NewCatalogUseCase(courseRepo, orderRepo, videos, preview, cfg.VimeoPlayerHost, appLog)
	adminUC := usecase.NewAdminUseCase(courseRepo, orderRepo, userRepo, videos, payloadPolicy, appLog)

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:          handlers.NewAuthHandler(authUC, cfg.CookieSecure, appLog),
		Courses:       handlers.NewCourseHandler(catalogUC, appLog),
		Admin:         handlers.NewAdminHandler(adminUC, appLog),
		Users:         handlers.NewUserHandler(adminUC, appLog),
		Authenticator: authUC,
		Limiter:       middleware.NewRateLimiter(rdb, appLog),
		Origins:       cfg.Origins(),
		Log:           appLog,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 6. gRPC health
	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		appLog.Fatal("grpc listen", "addr", cfg.GRPCPort, "error", err)
	}
	healthSrv := grpc_server.NewHealthServer(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}, grpc_server.DefaultCheckInterval, appLog)
	go func() {
		appLog.Info("grpc health running", "addr", cfg.GRPCPort)
		if err := healthSrv.Serve(ctx, lis); err != nil {
			appLog.Error("grpc serve", "error", err)
		}
	}()

	// 7. HTTP
	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLog.Info("http running", "addr", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("http shutdown", "error", err)
	}
	healthSrv.Stop()
}
