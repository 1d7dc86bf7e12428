package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempizhere/gotiny/internal/config"
	"github.com/tempizhere/gotiny/internal/grpc/proto"
	"github.com/tempizhere/gotiny/internal/models"
	"github.com/tempizhere/gotiny/internal/repository"
	"github.com/tempizhere/gotiny/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// grpcTestEnv собирает gRPC сервер поверх in-memory хранилищ
type grpcTestEnv struct {
	server *Server
	svc    *service.Service
	auth   *service.AuthService
	cfg    *config.Config
}

func newGRPCTestEnv() *grpcTestEnv {
	cfg := &config.Config{
		BaseURL:   "http://localhost:8080",
		JWTSecret: "test_secret",
		CookieTTL: time.Hour,
	}
	users := repository.NewMemoryUserRepository()
	svc := service.NewService(repository.NewMemoryURLRepository(), users, cfg.BaseURL, cfg.JWTSecret)
	auth := service.NewAuthService(users, service.NewBcryptHasher(4))
	return &grpcTestEnv{
		server: NewServer(svc, auth, cfg, zap.NewNop()),
		svc:    svc,
		auth:   auth,
		cfg:    cfg,
	}
}

// sessionContext кладёт сеанс в контекст так же, как это делает AuthInterceptor
func sessionContext(userID string) context.Context {
	return context.WithValue(context.Background(), sessionKey, models.Session{
		UserID:      userID,
		VisitTokens: make(map[string]string),
	})
}

func TestServer_CreateAndGetURL(t *testing.T) {
	env := newGRPCTestEnv()
	ctx := sessionContext("user1")

	created, err := env.server.CreateShortURL(ctx, &proto.CreateShortURLRequest{
		OriginalURL: "example.com/page",
	})
	require.NoError(t, err)
	assert.Len(t, created.ShortID, 6)
	assert.Equal(t, "http://localhost:8080/"+created.ShortID, created.ShortURL)

	got, err := env.server.GetURL(ctx, &proto.GetURLRequest{ShortID: created.ShortID})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/page", got.URL.OriginalURL)
	assert.Equal(t, "user1", got.URL.UserID)
	assert.Equal(t, uint64(0), got.URL.VisitCount)
}

func TestServer_ErrorMapping(t *testing.T) {
	env := newGRPCTestEnv()

	owned, err := env.server.CreateShortURL(sessionContext("user1"), &proto.CreateShortURLRequest{
		OriginalURL: "https://example.com",
	})
	require.NoError(t, err)
	_, err = env.auth.Register("user@example.com", "secret")
	require.NoError(t, err)

	tests := []struct {
		name     string
		call     func() error
		wantCode codes.Code
	}{
		{
			name: "Unknown ID maps to NotFound",
			call: func() error {
				_, err := env.server.GetURL(sessionContext("user1"), &proto.GetURLRequest{ShortID: "nonexist"})
				return err
			},
			wantCode: codes.NotFound,
		},
		{
			name: "Foreign record maps to PermissionDenied",
			call: func() error {
				_, err := env.server.GetURL(sessionContext("user2"), &proto.GetURLRequest{ShortID: owned.ShortID})
				return err
			},
			wantCode: codes.PermissionDenied,
		},
		{
			name: "Foreign delete maps to PermissionDenied",
			call: func() error {
				_, err := env.server.DeleteURL(sessionContext("user2"), &proto.DeleteURLRequest{ShortID: owned.ShortID})
				return err
			},
			wantCode: codes.PermissionDenied,
		},
		{
			name: "Empty URL maps to InvalidArgument",
			call: func() error {
				_, err := env.server.CreateShortURL(sessionContext("user1"), &proto.CreateShortURLRequest{})
				return err
			},
			wantCode: codes.InvalidArgument,
		},
		{
			name: "Empty update target maps to InvalidArgument",
			call: func() error {
				_, err := env.server.UpdateURL(sessionContext("user1"), &proto.UpdateURLRequest{ShortID: owned.ShortID})
				return err
			},
			wantCode: codes.InvalidArgument,
		},
		{
			name: "Create without session maps to Unauthenticated",
			call: func() error {
				_, err := env.server.CreateShortURL(context.Background(), &proto.CreateShortURLRequest{
					OriginalURL: "https://example.com",
				})
				return err
			},
			wantCode: codes.Unauthenticated,
		},
		{
			name: "Duplicate email maps to AlreadyExists",
			call: func() error {
				_, err := env.server.Register(context.Background(), &proto.RegisterRequest{
					Email:    "user@example.com",
					Password: "another",
				})
				return err
			},
			wantCode: codes.AlreadyExists,
		},
		{
			name: "Empty credentials map to InvalidArgument",
			call: func() error {
				_, err := env.server.Register(context.Background(), &proto.RegisterRequest{})
				return err
			},
			wantCode: codes.InvalidArgument,
		},
		{
			name: "Wrong password maps to Unauthenticated",
			call: func() error {
				_, err := env.server.Login(context.Background(), &proto.LoginRequest{
					Email:    "user@example.com",
					Password: "wrong",
				})
				return err
			},
			wantCode: codes.Unauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}

func TestServer_ResolveURL(t *testing.T) {
	env := newGRPCTestEnv()

	created, err := env.server.CreateShortURL(sessionContext("user1"), &proto.CreateShortURLRequest{
		OriginalURL: "example.com",
	})
	require.NoError(t, err)

	// Первое посещение уникально и выдаёт токен
	first, err := env.server.ResolveURL(context.Background(), &proto.ResolveURLRequest{
		ShortID: created.ShortID,
	})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", first.OriginalURL)
	assert.NotEmpty(t, first.NewVisitToken)

	// Повторное посещение с тем же токеном не уникально
	second, err := env.server.ResolveURL(context.Background(), &proto.ResolveURLRequest{
		ShortID:    created.ShortID,
		VisitToken: first.NewVisitToken,
	})
	require.NoError(t, err)
	assert.Empty(t, second.NewVisitToken, "Known visitor should not get a new token")

	got, err := env.server.GetURL(sessionContext("user1"), &proto.GetURLRequest{ShortID: created.ShortID})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.URL.VisitCount)
	assert.Equal(t, uint64(1), got.URL.UniqueVisitCount)

	_, err = env.server.ResolveURL(context.Background(), &proto.ResolveURLRequest{ShortID: "nonexist"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_GetUserURLs(t *testing.T) {
	env := newGRPCTestEnv()

	first, err := env.server.CreateShortURL(sessionContext("user1"), &proto.CreateShortURLRequest{OriginalURL: "https://a.com"})
	require.NoError(t, err)
	_, err = env.server.CreateShortURL(sessionContext("user2"), &proto.CreateShortURLRequest{OriginalURL: "https://b.com"})
	require.NoError(t, err)
	second, err := env.server.CreateShortURL(sessionContext("user1"), &proto.CreateShortURLRequest{OriginalURL: "https://c.com"})
	require.NoError(t, err)

	resp, err := env.server.GetUserURLs(sessionContext("user1"), &proto.GetUserURLsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.URLs, 2)
	assert.Equal(t, first.ShortID, resp.URLs[0].ShortID, "Listing should keep insertion order")
	assert.Equal(t, second.ShortID, resp.URLs[1].ShortID)

	_, err = env.server.GetUserURLs(context.Background(), &proto.GetUserURLsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestServer_RegisterAndLogin(t *testing.T) {
	env := newGRPCTestEnv()

	registered, err := env.server.Register(context.Background(), &proto.RegisterRequest{
		Email:    "user@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.UserID)

	sess, err := env.svc.ParseJWT(registered.Token)
	require.NoError(t, err, "Register should issue a parseable session token")
	assert.Equal(t, registered.UserID, sess.UserID)

	logged, err := env.server.Login(context.Background(), &proto.LoginRequest{
		Email:    "user@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, logged.UserID)

	sess, err = env.svc.ParseJWT(logged.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, sess.UserID)
}

func TestServer_GetStats(t *testing.T) {
	env := newGRPCTestEnv()

	_, err := env.auth.Register("user@example.com", "secret")
	require.NoError(t, err)
	created, err := env.server.CreateShortURL(sessionContext("user1"), &proto.CreateShortURLRequest{OriginalURL: "https://a.com"})
	require.NoError(t, err)
	_, err = env.server.ResolveURL(context.Background(), &proto.ResolveURLRequest{ShortID: created.ShortID})
	require.NoError(t, err)

	stats, err := env.server.GetStats(context.Background(), &proto.GetStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.URLs)
	assert.Equal(t, int64(1), stats.Users)
	assert.Equal(t, int64(1), stats.Visits)
}

// captureHandler возвращает grpc.UnaryHandler, запоминающий контекст вызова
func captureHandler(called *bool, ctx *context.Context) grpc.UnaryHandler {
	return func(c context.Context, req interface{}) (interface{}, error) {
		*called = true
		if ctx != nil {
			*ctx = c
		}
		return nil, nil
	}
}

func TestAuthInterceptor(t *testing.T) {
	env := newGRPCTestEnv()
	interceptor := AuthInterceptor(env.svc, zap.NewNop())

	token, err := env.svc.GenerateJWT(models.Session{UserID: "user1"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		md         metadata.MD
		wantCode   codes.Code
		wantCalled bool
		wantUserID string
	}{
		{
			name:       "Public method without metadata",
			method:     "/gotiny.v1.ShortenerService/ResolveURL",
			wantCalled: true,
		},
		{
			name:       "Register is public",
			method:     "/gotiny.v1.ShortenerService/Register",
			md:         metadata.MD{},
			wantCalled: true,
		},
		{
			name:     "Protected method without metadata",
			method:   "/gotiny.v1.ShortenerService/CreateShortURL",
			wantCode: codes.Unauthenticated,
		},
		{
			name:     "Protected method without token",
			method:   "/gotiny.v1.ShortenerService/CreateShortURL",
			md:       metadata.MD{},
			wantCode: codes.Unauthenticated,
		},
		{
			name:     "Protected method with garbage token",
			method:   "/gotiny.v1.ShortenerService/GetUserURLs",
			md:       metadata.Pairs("authorization", "Bearer garbage"),
			wantCode: codes.Unauthenticated,
		},
		{
			name:       "Protected method with valid token",
			method:     "/gotiny.v1.ShortenerService/CreateShortURL",
			md:         metadata.Pairs("authorization", "Bearer "+token),
			wantCalled: true,
			wantUserID: "user1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.md != nil {
				ctx = metadata.NewIncomingContext(ctx, tt.md)
			}

			var called bool
			var handlerCtx context.Context
			_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: tt.method}, captureHandler(&called, &handlerCtx))

			assert.Equal(t, tt.wantCalled, called)
			if tt.wantCode != codes.OK {
				assert.Equal(t, tt.wantCode, status.Code(err))
				return
			}
			assert.NoError(t, err)
			if tt.wantUserID != "" {
				sess, ok := sessionFromContext(handlerCtx)
				require.True(t, ok, "Handler context should carry the session")
				assert.Equal(t, tt.wantUserID, sess.UserID)
			}
		})
	}
}

func peerContext(ip string) context.Context {
	return peer.NewContext(context.Background(), &peer.Peer{
		Addr: &net.TCPAddr{IP: net.ParseIP(ip), Port: 54321},
	})
}

func TestTrustedSubnetInterceptor(t *testing.T) {
	const statsMethod = "/gotiny.v1.ShortenerService/GetStats"

	tests := []struct {
		name       string
		subnet     string
		method     string
		ctx        context.Context
		wantCode   codes.Code
		wantCalled bool
	}{
		{
			name:       "Other methods pass without peer",
			subnet:     "192.168.1.0/24",
			method:     "/gotiny.v1.ShortenerService/CreateShortURL",
			ctx:        context.Background(),
			wantCalled: true,
		},
		{
			name:     "Stats without configured subnet",
			subnet:   "",
			method:   statsMethod,
			ctx:      peerContext("192.168.1.10"),
			wantCode: codes.PermissionDenied,
		},
		{
			name:     "Stats without peer info",
			subnet:   "192.168.1.0/24",
			method:   statsMethod,
			ctx:      context.Background(),
			wantCode: codes.PermissionDenied,
		},
		{
			name:       "Stats from address inside subnet",
			subnet:     "192.168.1.0/24",
			method:     statsMethod,
			ctx:        peerContext("192.168.1.10"),
			wantCalled: true,
		},
		{
			name:     "Stats from address outside subnet",
			subnet:   "192.168.1.0/24",
			method:   statsMethod,
			ctx:      peerContext("10.0.0.5"),
			wantCode: codes.PermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interceptor := TrustedSubnetInterceptor(tt.subnet, zap.NewNop())

			var called bool
			_, err := interceptor(tt.ctx, nil, &grpc.UnaryServerInfo{FullMethod: tt.method}, captureHandler(&called, nil))

			assert.Equal(t, tt.wantCalled, called)
			if tt.wantCode != codes.OK {
				assert.Equal(t, tt.wantCode, status.Code(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoggingInterceptor(t *testing.T) {
	interceptor := LoggingInterceptor(zap.NewNop())

	var called bool
	resp, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/gotiny.v1.ShortenerService/ResolveURL"}, func(ctx context.Context, req interface{}) (interface{}, error) {
		called = true
		return "result", nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "result", resp)

	_, err = interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/gotiny.v1.ShortenerService/GetURL"}, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "not found")
	})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
