// Package proto содержит интерфейс gRPC сервиса коротких URL
package proto

import (
	"context"

	"google.golang.org/grpc"
)

// ShortenerServiceServer представляет интерфейс gRPC сервиса
type ShortenerServiceServer interface {
	CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error)
	GetURL(ctx context.Context, req *GetURLRequest) (*GetURLResponse, error)
	UpdateURL(ctx context.Context, req *UpdateURLRequest) (*UpdateURLResponse, error)
	DeleteURL(ctx context.Context, req *DeleteURLRequest) (*DeleteURLResponse, error)
	ResolveURL(ctx context.Context, req *ResolveURLRequest) (*ResolveURLResponse, error)
	GetUserURLs(ctx context.Context, req *GetUserURLsRequest) (*GetUserURLsResponse, error)
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error)
}

// UnimplementedShortenerServiceServer предоставляет базовую реализацию интерфейса
type UnimplementedShortenerServiceServer struct{}

// CreateShortURL предоставляет базовую реализацию создания короткого URL
func (UnimplementedShortenerServiceServer) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	return nil, nil
}

// GetURL предоставляет базовую реализацию получения записи
func (UnimplementedShortenerServiceServer) GetURL(ctx context.Context, req *GetURLRequest) (*GetURLResponse, error) {
	return nil, nil
}

// UpdateURL предоставляет базовую реализацию обновления записи
func (UnimplementedShortenerServiceServer) UpdateURL(ctx context.Context, req *UpdateURLRequest) (*UpdateURLResponse, error) {
	return nil, nil
}

// DeleteURL предоставляет базовую реализацию удаления записи
func (UnimplementedShortenerServiceServer) DeleteURL(ctx context.Context, req *DeleteURLRequest) (*DeleteURLResponse, error) {
	return nil, nil
}

// ResolveURL предоставляет базовую реализацию разрешения короткого URL
func (UnimplementedShortenerServiceServer) ResolveURL(ctx context.Context, req *ResolveURLRequest) (*ResolveURLResponse, error) {
	return nil, nil
}

// GetUserURLs предоставляет базовую реализацию получения записей пользователя
func (UnimplementedShortenerServiceServer) GetUserURLs(ctx context.Context, req *GetUserURLsRequest) (*GetUserURLsResponse, error) {
	return nil, nil
}

// Register предоставляет базовую реализацию регистрации пользователя
func (UnimplementedShortenerServiceServer) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	return nil, nil
}

// Login предоставляет базовую реализацию входа пользователя
func (UnimplementedShortenerServiceServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	return nil, nil
}

// GetStats предоставляет базовую реализацию получения статистики
func (UnimplementedShortenerServiceServer) GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error) {
	return nil, nil
}

// RegisterShortenerServiceServer регистрирует реализацию сервиса в gRPC сервере.
// При переходе на protoc-генерацию функция будет заменена сгенерированной,
// с дескриптором сервиса вместо пустого тела.
func RegisterShortenerServiceServer(s *grpc.Server, srv ShortenerServiceServer) {
}
