package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/talenvo/talenvo-backend/internal/config"
	"github.com/talenvo/talenvo-backend/internal/db"
	"github.com/talenvo/talenvo-backend/internal/events"
	httpHandlers "github.com/talenvo/talenvo-backend/internal/http/handlers"
	httpRouter "github.com/talenvo/talenvo-backend/internal/http/router"
	"github.com/talenvo/talenvo-backend/internal/logger"
	"github.com/talenvo/talenvo-backend/internal/repository"
	"github.com/talenvo/talenvo-backend/internal/service"
	"github.com/talenvo/talenvo-backend/internal/storage"
	"github.com/talenvo/talenvo-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logger.Init(cfg.LogLevel)
	if cfg.Env == "development" {
		logger.SetTextFormatter()
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	postRepo := repository.NewPostRepository(dbConn)
	commentRepo := repository.NewCommentRepository(dbConn)
	likeRepo := repository.NewLikeRepository(dbConn)
	followRepo := repository.NewFollowRepository(dbConn)
	reportRepo := repository.NewReportRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)

	// Шина событий и кэш.
	bus := events.NewBus()
	cache := service.NewCacheService()

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	trustService := service.NewTrustService(userRepo, bus)
	profileService := service.NewProfileService(userRepo, followRepo)
	postService := service.NewPostService(postRepo, bus)
	commentService := service.NewCommentService(commentRepo, postRepo, bus)
	likeService := service.NewLikeService(likeRepo, followRepo, postRepo, commentRepo, userRepo)
	reportService := service.NewReportService(reportRepo, postRepo, commentRepo, userRepo, cache, bus)
	moderationService := service.NewModerationService(reportRepo, postRepo, commentRepo, userRepo, trustService, reportService, bus)

	// Вебсокеты: живая лента слушает шину событий.
	hub := ws.NewHub()
	go hub.Run()
	ws.NewFeedAdapter(hub, bus)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(profileService)
	postHandler := httpHandlers.NewPostHandler(postService)
	commentHandler := httpHandlers.NewCommentHandler(commentService)
	likeHandler := httpHandlers.NewLikeHandler(likeService)
	reportHandler := httpHandlers.NewReportHandler(reportService)
	moderationHandler := httpHandlers.NewModerationHandler(moderationService, reportService)
	mediaHandler := httpHandlers.NewMediaHandler(mediaRepo, photoStorage, cfg.MaxUploadSizeMB)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager, authService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		profileHandler,
		postHandler,
		commentHandler,
		likeHandler,
		reportHandler,
		moderationHandler,
		mediaHandler,
		wsHandler,
		healthHandler,
		tokenManager,
		authService,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
