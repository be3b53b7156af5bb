// Package grpc содержит реализацию gRPC сервера для сервиса сокращения URL
package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/tempizhere/tinylink/internal/grpc/proto"
	"github.com/tempizhere/tinylink/internal/repository"
	"github.com/tempizhere/tinylink/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server реализует gRPC сервер для сервиса сокращения URL
type Server struct {
	proto.UnimplementedShortenerServiceServer
	svc    *service.Service
	db     repository.Database
	logger *zap.Logger
}

// NewServer создаёт новый gRPC сервер
func NewServer(svc *service.Service, db repository.Database, logger *zap.Logger) *Server {
	return &Server{
		svc:    svc,
		db:     db,
		logger: logger,
	}
}

// Shorten обрабатывает создание короткого URL
func (s *Server) Shorten(ctx context.Context, req *proto.ShortenRequest) (*proto.ShortenResponse, error) {
	result, err := s.svc.Shorten(req.OriginalURL)
	if err != nil {
		if errors.Is(err, service.ErrEmptyURL) || errors.Is(err, service.ErrInvalidURL) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		s.logger.Error("Failed to create short URL", zap.Error(err))
		return nil, status.Error(codes.Internal, "Server error")
	}

	return &proto.ShortenResponse{
		ShortURL:    result.ShortURL,
		OriginalURL: result.OriginalURL,
	}, nil
}

// Resolve обрабатывает получение оригинального URL
func (s *Server) Resolve(ctx context.Context, req *proto.ResolveRequest) (*proto.ResolveResponse, error) {
	if req.ShortID == "" {
		return nil, status.Error(codes.InvalidArgument, "short ID is required")
	}

	originalURL, exists := s.svc.Resolve(req.ShortID)
	if !exists {
		return &proto.ResolveResponse{
			Found: false,
		}, nil
	}

	return &proto.ResolveResponse{
		OriginalURL: originalURL,
		Found:       true,
	}, nil
}

// ListRecent возвращает последние сокращённые URL
func (s *Server) ListRecent(ctx context.Context, req *proto.ListRecentRequest) (*proto.ListRecentResponse, error) {
	recent, err := s.svc.ListRecent()
	if err != nil {
		s.logger.Error("Failed to list recent URLs", zap.Error(err))
		return nil, status.Error(codes.Internal, "Server error")
	}

	urls := make([]*proto.RecentURL, len(recent))
	for i, u := range recent {
		urls[i] = &proto.RecentURL{
			ID:          u.ID,
			ShortURL:    u.ShortURL,
			OriginalURL: u.OriginalURL,
			CreatedAt:   u.CreatedAt.Format(time.RFC3339),
		}
	}

	return &proto.ListRecentResponse{Urls: urls}, nil
}

// Ping проверяет состояние сервиса
func (s *Server) Ping(ctx context.Context, req *proto.PingRequest) (*proto.PingResponse, error) {
	if s.db == nil {
		return &proto.PingResponse{DatabaseAvailable: false}, nil
	}

	err := s.db.Ping()
	return &proto.PingResponse{
		DatabaseAvailable: err == nil,
	}, nil
}

// GetStats возвращает статистику сервиса
func (s *Server) GetStats(ctx context.Context, req *proto.GetStatsRequest) (*proto.GetStatsResponse, error) {
	count, err := s.svc.Stats()
	if err != nil {
		s.logger.Error("Failed to get stats", zap.Error(err))
		return nil, status.Error(codes.Internal, "Server error")
	}

	return &proto.GetStatsResponse{
		UrlsCount: int32(count),
	}, nil
}
