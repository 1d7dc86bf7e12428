package middleware

import (
	"net"
	"net/http"

	"go.uber.org/zap"
)

// TrustedSubnetMiddleware ограничивает доступ к служебным маршрутам клиентами
// из доверенной подсети. Адрес клиента берётся из заголовка X-Real-IP,
// CIDR-нотация разбирается один раз при создании middleware.
// Пустая подсеть закрывает доступ полностью.
func TrustedSubnetMiddleware(trustedSubnet string, logger *zap.Logger) func(http.Handler) http.Handler {
	var network *net.IPNet
	var cidrErr error
	if trustedSubnet != "" {
		_, network, cidrErr = net.ParseCIDR(trustedSubnet)
		if cidrErr != nil {
			logger.Error("Invalid trusted_subnet CIDR",
				zap.String("trusted_subnet", trustedSubnet),
				zap.Error(cidrErr))
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cidrErr != nil {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if network == nil {
				logger.Warn("Access denied: trusted_subnet is empty",
					zap.String("method", r.Method),
					zap.String("uri", r.RequestURI),
					zap.String("remote_addr", r.RemoteAddr))
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}

			clientIP := r.Header.Get("X-Real-IP")
			ip := net.ParseIP(clientIP)
			if ip == nil {
				logger.Warn("Access denied: missing or invalid X-Real-IP header",
					zap.String("method", r.Method),
					zap.String("uri", r.RequestURI),
					zap.String("client_ip", clientIP),
					zap.String("remote_addr", r.RemoteAddr))
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}

			if !network.Contains(ip) {
				logger.Warn("Access denied: IP not in trusted subnet",
					zap.String("method", r.Method),
					zap.String("uri", r.RequestURI),
					zap.String("client_ip", clientIP),
					zap.String("trusted_subnet", trustedSubnet))
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
