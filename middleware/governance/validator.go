package governance

import (
	"net/http"
	"time"

	"governance-gateway/middleware/governance/application"
	"governance-gateway/middleware/governance/domain"
)

type ValidatorOptions struct {
	Config domain.DomainConfig
	Clock  func() time.Time
}

// Validator aplica as regras estáticas do domínio e curto-circuita com uma
// rejeição estruturada antes dos demais estágios.
func Validator(opts ValidatorOptions) Middleware {
	svc := application.ValidatorService{
		Config: opts.Config,
		Now:    opts.Clock,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !opts.Config.Applies(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			rej := svc.Validate(r.URL.Path, r.Header)
			if rej == nil {
				next.ServeHTTP(w, r)
				return
			}

			switch rej.Kind {
			case domain.RejectOutOfHours:
				writeJSON(w, http.StatusForbidden, map[string]any{
					"error":         rej.Message,
					"allowed_hours": []int{rej.AllowedHours.Start, rej.AllowedHours.End},
				})
			case domain.RejectMissingHeaders:
				writeJSON(w, http.StatusBadRequest, map[string]any{
					"error":           rej.Message,
					"missing_headers": rej.MissingHeaders,
				})
			default:
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
					"error": rej.Message,
				})
			}
		})
	}
}
