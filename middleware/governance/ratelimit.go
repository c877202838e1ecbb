package governance

import (
	"net/http"
	"time"

	"governance-gateway/middleware/governance/application"
	"governance-gateway/middleware/governance/domain"
)

type RateLimitOptions struct {
	Config  domain.DomainConfig
	Windows domain.WindowStore
	Stats   domain.StatsStore

	// Fallback + FailMode controlam o comportamento com o store fora do ar.
	Fallback domain.LimiterStore
	FailMode application.FailMode

	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool
	StoreTimeout       time.Duration

	RejectStatus int
	Clock        func() time.Time
}

// RateLimit aplica a janela deslizante por (domínio, categoria, cliente) e
// responde 429 com os metadados da categoria quando o limite estoura.
func RateLimit(opts RateLimitOptions) Middleware {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	svc := application.LimiterService{
		Windows:      opts.Windows,
		Fallback:     opts.Fallback,
		FailMode:     opts.FailMode,
		StoreTimeout: opts.StoreTimeout,
		Now:          opts.Clock,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !opts.Config.Applies(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			client := opts.KeyFn(r)
			dec := svc.Decide(r.Context(), opts.Config, r.URL.Path, client)

			if opts.Stats != nil {
				_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
					Domain:   dec.Domain,
					Category: dec.Category,
					Key:      domain.Key(client),
					Allowed:  dec.Allowed,
					Method:   r.Method,
					Path:     r.URL.Path,
					At:       time.Now(),
				})
			}

			if !dec.Allowed {
				w.Header().Set("Retry-After", formatInt(int(dec.Window.Seconds())))
				writeJSON(w, opts.RejectStatus, map[string]any{
					"error":    "rate limit exceeded",
					"category": dec.Category,
					"limit":    dec.Limit,
					"window":   int(dec.Window.Seconds()),
					"domain":   dec.Domain,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
