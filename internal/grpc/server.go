// Package grpc содержит реализацию gRPC сервера сервиса коротких URL
package grpc

import (
	"context"
	"errors"

	"github.com/tempizhere/gotiny/internal/config"
	"github.com/tempizhere/gotiny/internal/grpc/proto"
	"github.com/tempizhere/gotiny/internal/models"
	"github.com/tempizhere/gotiny/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server реализует gRPC сервер сервиса коротких URL
type Server struct {
	proto.UnimplementedShortenerServiceServer
	svc    *service.Service
	auth   *service.AuthService
	cfg    *config.Config
	logger *zap.Logger
}

// NewServer создаёт новый gRPC сервер
func NewServer(svc *service.Service, auth *service.AuthService, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		svc:    svc,
		auth:   auth,
		cfg:    cfg,
		logger: logger,
	}
}

// CreateShortURL обрабатывает создание короткого URL
func (s *Server) CreateShortURL(ctx context.Context, req *proto.CreateShortURLRequest) (*proto.CreateShortURLResponse, error) {
	if req.OriginalURL == "" {
		return nil, status.Error(codes.InvalidArgument, "original URL is required")
	}

	sess, err := getSessionFromContext(ctx)
	if err != nil {
		return nil, err
	}

	url, err := s.svc.CreateShortURL(req.OriginalURL, sess.UserID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.CreateShortURLResponse{
		ShortID:  url.ShortID,
		ShortURL: s.svc.ShortURL(url.ShortID),
	}, nil
}

// GetURL обрабатывает получение записи с проверкой владельца
func (s *Server) GetURL(ctx context.Context, req *proto.GetURLRequest) (*proto.GetURLResponse, error) {
	if req.ShortID == "" {
		return nil, status.Error(codes.InvalidArgument, "short ID is required")
	}

	sess, err := getSessionFromContext(ctx)
	if err != nil {
		return nil, err
	}

	url, err := s.svc.GetURL(req.ShortID, sess.UserID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.GetURLResponse{URL: toURLInfo(url)}, nil
}

// UpdateURL обрабатывает замену оригинального URL записи
func (s *Server) UpdateURL(ctx context.Context, req *proto.UpdateURLRequest) (*proto.UpdateURLResponse, error) {
	if req.ShortID == "" {
		return nil, status.Error(codes.InvalidArgument, "short ID is required")
	}

	sess, err := getSessionFromContext(ctx)
	if err != nil {
		return nil, err
	}

	url, err := s.svc.UpdateURL(req.ShortID, sess.UserID, req.OriginalURL)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.UpdateURLResponse{URL: toURLInfo(url)}, nil
}

// DeleteURL обрабатывает удаление записи
func (s *Server) DeleteURL(ctx context.Context, req *proto.DeleteURLRequest) (*proto.DeleteURLResponse, error) {
	if req.ShortID == "" {
		return nil, status.Error(codes.InvalidArgument, "short ID is required")
	}

	sess, err := getSessionFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.svc.DeleteURL(req.ShortID, sess.UserID); err != nil {
		return nil, s.mapError(err)
	}
	return &proto.DeleteURLResponse{}, nil
}

// ResolveURL обрабатывает разрешение короткого URL с учётом посещения
func (s *Server) ResolveURL(ctx context.Context, req *proto.ResolveURLRequest) (*proto.ResolveURLResponse, error) {
	if req.ShortID == "" {
		return nil, status.Error(codes.InvalidArgument, "short ID is required")
	}

	sess, _ := sessionFromContext(ctx)
	if sess.VisitTokens == nil {
		sess.VisitTokens = make(map[string]string)
	}
	if req.VisitToken != "" {
		sess.VisitTokens[req.ShortID] = req.VisitToken
	}

	target, newToken, err := s.svc.Resolve(req.ShortID, sess)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.ResolveURLResponse{
		OriginalURL:   target,
		NewVisitToken: newToken,
	}, nil
}

// GetUserURLs возвращает все записи пользователя
func (s *Server) GetUserURLs(ctx context.Context, req *proto.GetUserURLsRequest) (*proto.GetUserURLsResponse, error) {
	sess, err := getSessionFromContext(ctx)
	if err != nil {
		return nil, err
	}

	urls, err := s.svc.GetUserURLs(sess.UserID)
	if err != nil {
		return nil, s.mapError(err)
	}

	infos := make([]*proto.URLInfo, len(urls))
	for i, u := range urls {
		infos[i] = toURLInfo(u)
	}
	return &proto.GetUserURLsResponse{URLs: infos}, nil
}

// Register обрабатывает регистрацию пользователя и выпускает токен сеанса
func (s *Server) Register(ctx context.Context, req *proto.RegisterRequest) (*proto.RegisterResponse, error) {
	user, err := s.auth.Register(req.Email, req.Password)
	if err != nil {
		return nil, s.mapError(err)
	}

	token, err := s.svc.GenerateJWT(models.Session{UserID: user.ID}, s.cfg.CookieTTL)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to generate token")
	}
	return &proto.RegisterResponse{UserID: user.ID, Token: token}, nil
}

// Login обрабатывает вход пользователя и выпускает токен сеанса
func (s *Server) Login(ctx context.Context, req *proto.LoginRequest) (*proto.LoginResponse, error) {
	user, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		return nil, s.mapError(err)
	}

	token, err := s.svc.GenerateJWT(models.Session{UserID: user.ID}, s.cfg.CookieTTL)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to generate token")
	}
	return &proto.LoginResponse{UserID: user.ID, Token: token}, nil
}

// GetStats возвращает статистику сервиса
func (s *Server) GetStats(ctx context.Context, req *proto.GetStatsRequest) (*proto.GetStatsResponse, error) {
	stats := s.svc.GetStats()
	return &proto.GetStatsResponse{
		URLs:   int64(stats.URLs),
		Users:  int64(stats.Users),
		Visits: int64(stats.Visits),
	}, nil
}

// mapError переводит ошибки сервиса в gRPC статусы
func (s *Server) mapError(err error) error {
	switch {
	case errors.Is(err, service.ErrURLNotFound):
		return status.Error(codes.NotFound, "URL not found")
	case errors.Is(err, service.ErrForbidden):
		return status.Error(codes.PermissionDenied, "URL belongs to another user")
	case errors.Is(err, service.ErrEmptyURL):
		return status.Error(codes.InvalidArgument, "URL is required")
	case errors.Is(err, service.ErrEmptyCredentials):
		return status.Error(codes.InvalidArgument, "email and password are required")
	case errors.Is(err, service.ErrEmailTaken):
		return status.Error(codes.AlreadyExists, "email already used")
	case errors.Is(err, service.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "invalid credentials")
	default:
		s.logger.Error("Internal gRPC error", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}

// toURLInfo переводит модель записи в proto-структуру
func toURLInfo(url models.URL) *proto.URLInfo {
	return &proto.URLInfo{
		ShortID:          url.ShortID,
		OriginalURL:      url.OriginalURL,
		UserID:           url.UserID,
		VisitCount:       uint64(url.VisitCount),
		UniqueVisitCount: uint64(url.UniqueVisitCount),
	}
}
