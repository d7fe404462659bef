package trustedsubnet

import (
	"net"
	"net/http"
	"strings"
)

// TrustedSubnetMiddleware пропускает только запросы из доверенной подсети.
// Адрес клиента берётся из X-Real-IP, а при его отсутствии из RemoteAddr.
// Если подсеть не задана, запрещены все запросы.
func TrustedSubnetMiddleware(trustedNet *net.IPNet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if trustedNet == nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ip := net.ParseIP(clientIP(r))
			if ip == nil || !trustedNet.Contains(ip) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ParseSubnet разбирает подсеть в формате CIDR; пустая строка означает отсутствие подсети
func ParseSubnet(cidr string) (*net.IPNet, error) {
	cidr = strings.TrimSpace(cidr)
	if cidr == "" {
		return nil, nil
	}
	_, trustedNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, err
	}
	return trustedNet, nil
}

func clientIP(r *http.Request) string {
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
