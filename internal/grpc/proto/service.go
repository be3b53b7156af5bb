// Package proto содержит интерфейс gRPC сервиса сокращения URL
package proto

import (
	"context"

	"google.golang.org/grpc"
)

// ShortenerServiceServer представляет интерфейс gRPC сервиса
type ShortenerServiceServer interface {
	Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error)
	Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error)
	ListRecent(ctx context.Context, req *ListRecentRequest) (*ListRecentResponse, error)
	Ping(ctx context.Context, req *PingRequest) (*PingResponse, error)
	GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error)
}

// UnimplementedShortenerServiceServer предоставляет базовую реализацию интерфейса
type UnimplementedShortenerServiceServer struct{}

// Shorten предоставляет базовую реализацию метода сокращения URL
func (UnimplementedShortenerServiceServer) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	return nil, nil
}

// Resolve предоставляет базовую реализацию метода получения оригинального URL
func (UnimplementedShortenerServiceServer) Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error) {
	return nil, nil
}

// ListRecent предоставляет базовую реализацию получения списка последних URL
func (UnimplementedShortenerServiceServer) ListRecent(ctx context.Context, req *ListRecentRequest) (*ListRecentResponse, error) {
	return nil, nil
}

// Ping предоставляет базовую реализацию проверки состояния сервиса
func (UnimplementedShortenerServiceServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	return nil, nil
}

// GetStats предоставляет базовую реализацию получения статистики сервиса
func (UnimplementedShortenerServiceServer) GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error) {
	return nil, nil
}

// RegisterShortenerServiceServer регистрирует реализацию сервиса в gRPC сервере
func RegisterShortenerServiceServer(s *grpc.Server, srv ShortenerServiceServer) {
	// В реальном проекте это было бы автоматически сгенерировано protoc
	// Здесь заглушка для демонстрации
}
