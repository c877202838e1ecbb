package governance

import (
	"net"
	"net/http"
	"strings"
)

// KeyFunc extrai a identidade do cliente usada como chave de rate limit.
// A mesma identidade alimenta a dimensão "client" das estatísticas.
type KeyFunc func(r *http.Request) string

// DefaultKeyFunc resolve a identidade nesta ordem: header de credencial do
// domínio (se configurado), primeiro IP do X-Forwarded-For (se o proxy na
// frente é confiável) e por fim o host do RemoteAddr.
func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}
		if trustXFF {
			if ip := forwardedClientIP(r); ip != "" {
				return ip
			}
		}
		return remoteHost(r)
	}
}

// forwardedClientIP devolve o primeiro IP da cadeia X-Forwarded-For,
// que é o cliente original quando o proxy de borda é honesto.
func forwardedClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		return ""
	}
	first, _, _ := strings.Cut(xff, ",")
	return strings.TrimSpace(first)
}

func remoteHost(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	if addr != "" {
		return addr
	}
	return "unknown"
}
