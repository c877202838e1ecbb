package governance

import (
	"net/http"
	"time"

	"governance-gateway/middleware/governance/application"
	"governance-gateway/middleware/governance/domain"
	"governance-gateway/middleware/governance/infra"
)

type CapacityOptions struct {
	Config         domain.DomainConfig
	RejectStatus   int
	AcquireTimeout time.Duration
}

// Capacity limita requisições simultâneas nos domínios com controle de
// lotação (DomainConfig.CapacityLimit). Sem limite configurado, o estágio
// é identidade.
func Capacity(opts CapacityOptions) Middleware {
	if opts.Config.CapacityLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}

	svc := application.CapacityService{
		Pool:           infra.NewChanPool(opts.Config.CapacityLimit),
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !opts.Config.Applies(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			release, ok := svc.Acquire(r.Context())
			if !ok {
				http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
