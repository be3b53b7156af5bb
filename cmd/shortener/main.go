package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tempizhere/tinylink/internal/app"
	"github.com/tempizhere/tinylink/internal/config"
	grpcserver "github.com/tempizhere/tinylink/internal/grpc"
	"github.com/tempizhere/tinylink/internal/grpc/proto"
	"github.com/tempizhere/tinylink/internal/log"
	"github.com/tempizhere/tinylink/internal/middleware"
	"github.com/tempizhere/tinylink/internal/repository"
	"github.com/tempizhere/tinylink/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// Сообщения для клиентов, превысивших лимит запросов
const (
	apiLimitMessage     = "Too many requests from this IP, please try again after 15 minutes"
	shortenLimitMessage = "You have reached the maximum number of URL shortening requests. Please try again later."
)

func main() {
	// Получаем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	logger := log.NewLogger()
	defer func() {
		_ = logger.Sync()
	}()

	// Подключаемся к базе данных, если задан DSN
	db, err := app.NewDB(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Выбираем хранилище: PostgreSQL либо файловое
	var repo repository.Repository
	if db != nil {
		repo, err = repository.NewPostgresRepository(db, logger)
		if err != nil {
			logger.Fatal("Failed to create postgres repository", zap.Error(err))
		}
		logger.Info("Using PostgreSQL storage")
	} else {
		repo, err = repository.NewFileRepository(cfg.FileStoragePath, logger)
		if err != nil {
			logger.Fatal("Failed to create file repository", zap.Error(err))
		}
		logger.Info("Using file storage", zap.String("path", cfg.FileStoragePath))
	}

	svc := service.NewService(repo, cfg.BaseURL)
	appInstance := app.NewApp(svc, db, logger)
	router := buildRouter(appInstance, cfg, logger)

	// Опциональный gRPC сервер
	var grpcSrv *grpc.Server
	if cfg.GRPCAddr != "" {
		grpcSrv = grpc.NewServer(grpc.ChainUnaryInterceptor(
			grpcserver.LoggingInterceptor(logger),
			grpcserver.TrustedSubnetInterceptor(cfg.TrustedSubnet, logger),
		))
		proto.RegisterShortenerServiceServer(grpcSrv, grpcserver.NewServer(svc, db, logger))

		listener, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			logger.Fatal("Failed to listen gRPC address", zap.String("addr", cfg.GRPCAddr), zap.Error(err))
		}
		go func() {
			logger.Info("Starting gRPC server", zap.String("addr", cfg.GRPCAddr))
			if err := grpcSrv.Serve(listener); err != nil {
				logger.Error("gRPC server stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:    cfg.RunAddr,
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.RunAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Ждём сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", zap.Error(err))
		}
	}
}

// buildRouter собирает маршрутизатор со всеми обработчиками и middleware
func buildRouter(appInstance *app.App, cfg *config.Config, logger *zap.Logger) chi.Router {
	apiLimiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow, apiLimitMessage)
	shortenLimiter := middleware.NewRateLimiter(cfg.ShortenLimitMax, cfg.ShortenLimitWindow, shortenLimitMessage)

	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.GzipMiddleware)

	// API и редиректы под общим лимитом, сокращение дополнительно под строгим
	r.Group(func(r chi.Router) {
		r.Use(apiLimiter.Middleware)
		r.Route("/api", func(r chi.Router) {
			r.With(shortenLimiter.Middleware).Post("/shorten", appInstance.HandleShorten)
			r.Get("/recent", appInstance.HandleRecent)
			r.With(middleware.TrustedSubnetMiddleware(cfg.TrustedSubnet, logger)).Get("/internal/stats", appInstance.HandleStats)
		})
		r.Get("/{shortId}", appInstance.HandleRedirect)
	})
	r.Get("/ping", appInstance.HandlePing)

	return r
}
