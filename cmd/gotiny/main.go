package main

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tempizhere/gotiny/internal/app"
	"github.com/tempizhere/gotiny/internal/config"
	grpcserver "github.com/tempizhere/gotiny/internal/grpc"
	"github.com/tempizhere/gotiny/internal/grpc/proto"
	"github.com/tempizhere/gotiny/internal/log"
	"github.com/tempizhere/gotiny/internal/middleware"
	"github.com/tempizhere/gotiny/internal/repository"
	"github.com/tempizhere/gotiny/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// newRouter собирает маршрутизатор со всеми обработчиками и middleware
func newRouter(appInstance *app.App, svc *service.Service, cfg *config.Config, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.GzipMiddleware)
	r.Use(middleware.SessionMiddleware(svc, cfg, logger))

	// Регистрируем обработчики
	r.Post("/api/user/register", appInstance.HandleRegister)
	r.Post("/api/user/login", appInstance.HandleLogin)
	r.Post("/api/user/logout", appInstance.HandleLogout)
	r.Post("/api/urls", appInstance.HandleShorten)
	r.Get("/api/user/urls", appInstance.HandleUserURLs)
	r.Get("/api/urls/{id}", appInstance.HandleGetURL)
	r.Put("/api/urls/{id}", appInstance.HandleUpdateURL)
	r.Delete("/api/urls/{id}", appInstance.HandleDeleteURL)
	r.Get("/{id}", appInstance.HandleRedirect)

	// Внутренние маршруты доступны только из доверенной подсети
	r.Route("/api/internal", func(r chi.Router) {
		r.Use(middleware.TrustedSubnetMiddleware(cfg.TrustedSubnet, logger))
		r.Get("/stats", appInstance.HandleStats)
	})
	r.Route("/urls.json", func(r chi.Router) {
		r.Use(middleware.TrustedSubnetMiddleware(cfg.TrustedSubnet, logger))
		r.Get("/", appInstance.HandleDebugDump)
	})

	return r
}

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

	// Собираем зависимости: хранилища, сервисы, обработчики
	urlRepo := repository.NewMemoryURLRepository()
	userRepo := repository.NewMemoryUserRepository()
	svc := service.NewService(urlRepo, userRepo, cfg.BaseURL, cfg.JWTSecret)
	auth := service.NewAuthService(userRepo, service.NewBcryptHasher(cfg.BcryptCost))
	appInstance := app.NewApp(svc, auth, cfg)

	r := newRouter(appInstance, svc, cfg, logger)

	// Запускаем gRPC сервер, если задан адрес
	if cfg.GRPCAddr != "" {
		go func() {
			listener, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				logger.Fatal("Failed to listen gRPC address", zap.Error(err))
			}
			grpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(
				grpcserver.LoggingInterceptor(logger),
				grpcserver.AuthInterceptor(svc, logger),
				grpcserver.TrustedSubnetInterceptor(cfg.TrustedSubnet, logger),
			))
			proto.RegisterShortenerServiceServer(grpcSrv, grpcserver.NewServer(svc, auth, cfg, logger))
			logger.Info("Starting gRPC server", zap.String("address", cfg.GRPCAddr))
			if err := grpcSrv.Serve(listener); err != nil {
				logger.Fatal("gRPC server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("Starting HTTP server", zap.String("address", cfg.RunAddr))
	if err := http.ListenAndServe(cfg.RunAddr, r); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
}
