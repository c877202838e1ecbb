package governance

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"governance-gateway/middleware/governance/application"
	"governance-gateway/middleware/governance/domain"
)

// Middleware é o contrato de composição de toda a cadeia: cada estágio
// recebe o próximo handler e devolve o handler decorado.
type Middleware func(next http.Handler) http.Handler

// Chain compõe os estágios na ordem declarada: o primeiro da lista é o
// primeiro a ver a requisição. Composição explícita em vez de decoração
// implícita preserva a garantia de ordem.
func Chain(stages ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(stages) - 1; i >= 0; i-- {
			next = stages[i](next)
		}
		return next
	}
}

// ChainOptions reúne as dependências da cadeia completa de um domínio.
type ChainOptions struct {
	Config domain.DomainConfig

	// Logger recebe os registros request_start/request_end; nil desliga o
	// estágio de logging.
	Logger *slog.Logger

	Windows  domain.WindowStore
	Stats    domain.StatsStore
	Fallback domain.LimiterStore
	FailMode application.FailMode

	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool
	StoreTimeout       time.Duration

	CapacityTimeout time.Duration

	// Clock é injetável para testes; nil usa time.Now.
	Clock func() time.Time
}

// DomainChain monta a cadeia na ordem canônica do domínio:
// validação → logging → rate limit → capacidade.
func DomainChain(opts ChainOptions) Middleware {
	stages := []Middleware{
		Validator(ValidatorOptions{Config: opts.Config, Clock: opts.Clock}),
	}
	if opts.Logger != nil {
		stages = append(stages, Logger(LoggerOptions{
			Config: opts.Config,
			Logger: opts.Logger,
			Clock:  opts.Clock,
		}))
	}
	stages = append(stages, RateLimit(RateLimitOptions{
		Config:             opts.Config,
		Windows:            opts.Windows,
		Stats:              opts.Stats,
		Fallback:           opts.Fallback,
		FailMode:           opts.FailMode,
		KeyFn:              opts.KeyFn,
		KeyHeader:          opts.KeyHeader,
		TrustXForwardedFor: opts.TrustXForwardedFor,
		StoreTimeout:       opts.StoreTimeout,
		Clock:              opts.Clock,
	}))
	if opts.Config.CapacityLimit > 0 {
		stages = append(stages, Capacity(CapacityOptions{
			Config:         opts.Config,
			AcquireTimeout: opts.CapacityTimeout,
		}))
	}
	return Chain(stages...)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
