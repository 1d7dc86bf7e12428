// Package config содержит настройки приложения.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит настройки приложения
type Config struct {
	RunAddr       string
	GRPCAddr      string
	BaseURL       string
	JWTSecret     string
	CookieTTL     time.Duration
	TrustedSubnet string
	BcryptCost    int
}

// NewConfig создает и возвращает новый объект Config с настройками по умолчанию,
// парсит флаги командной строки и переменные окружения
func NewConfig() (*Config, error) {
	return newConfig(os.Args[1:])
}

func newConfig(args []string) (*Config, error) {
	cfg := &Config{
		RunAddr:       ":8080",
		GRPCAddr:      "",
		BaseURL:       "http://localhost:8080",
		JWTSecret:     "default_jwt_secret",
		CookieTTL:     24 * time.Hour,
		TrustedSubnet: "",
		BcryptCost:    10,
	}

	// Регистрируем флаги
	fs := flag.NewFlagSet("gotiny", flag.ContinueOnError)
	flagRunAddr := fs.String("a", ":8080", "address and port to run HTTP server")
	flagGRPCAddr := fs.String("g", "", "address and port to run gRPC server (disabled if empty)")
	flagBaseURL := fs.String("b", "http://localhost:8080", "base URL for shortened links")
	flagJWTSecret := fs.String("j", "default_jwt_secret", "JWT secret key")
	flagCookieTTL := fs.Duration("c", 24*time.Hour, "session cookie lifetime")
	flagTrustedSubnet := fs.String("t", "", "trusted subnet in CIDR notation for internal endpoints")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Проверяем переменные окружения
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.RunAddr = addr
	} else if *flagRunAddr != "" {
		cfg.RunAddr = *flagRunAddr
	}

	if addr := os.Getenv("GRPC_ADDRESS"); addr != "" {
		cfg.GRPCAddr = addr
	} else if *flagGRPCAddr != "" {
		cfg.GRPCAddr = *flagGRPCAddr
	}

	if url := os.Getenv("BASE_URL"); url != "" {
		cfg.BaseURL = url
	} else if *flagBaseURL != "" {
		cfg.BaseURL = *flagBaseURL
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	} else if *flagJWTSecret != "" {
		cfg.JWTSecret = *flagJWTSecret
	}

	if ttl := os.Getenv("COOKIE_TTL"); ttl != "" {
		parsed, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, err
		}
		cfg.CookieTTL = parsed
	} else if *flagCookieTTL > 0 {
		cfg.CookieTTL = *flagCookieTTL
	}

	if subnet := os.Getenv("TRUSTED_SUBNET"); subnet != "" {
		cfg.TrustedSubnet = subnet
	} else if *flagTrustedSubnet != "" {
		cfg.TrustedSubnet = *flagTrustedSubnet
	}

	if cost := os.Getenv("BCRYPT_COST"); cost != "" {
		parsed, err := strconv.Atoi(cost)
		if err != nil {
			return nil, err
		}
		cfg.BcryptCost = parsed
	}

	// Валидация значений
	if !strings.Contains(cfg.RunAddr, ":") {
		cfg.RunAddr = ":" + cfg.RunAddr
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		cfg.BaseURL = "http://" + cfg.BaseURL
	}

	return cfg, nil
}
