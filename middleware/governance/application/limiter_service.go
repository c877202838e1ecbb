package application

import (
	"context"
	"time"

	"governance-gateway/middleware/governance/domain"
)

// FailMode define o comportamento do rate limiter quando o store
// compartilhado está indisponível.
type FailMode int

const (
	// FailOpen libera o tráfego (o limiter é proteção, não fonte de verdade).
	FailOpen FailMode = iota
	// FailClosed nega todo o tráfego do domínio enquanto o store não volta.
	FailClosed
	// FailLocal degrada para um limiter local por chave (token bucket).
	FailLocal
)

// LimiterService decide, por (domínio, categoria, cliente), se a requisição
// cabe na janela deslizante.
type LimiterService struct {
	Windows domain.WindowStore

	// Fallback só é consultado em FailLocal.
	Fallback domain.LimiterStore
	FailMode FailMode

	// StoreTimeout limita cada ida ao store; 0 usa 250ms.
	StoreTimeout time.Duration

	// Now é injetável para testes; nil usa time.Now.
	Now func() time.Time
}

const defaultStoreTimeout = 250 * time.Millisecond

// WindowKey monta a chave do conjunto de timestamps de um cliente.
// Duas chamadas com os mesmos argumentos produzem a mesma chave.
func WindowKey(prefix, category, client string) string {
	return prefix + ":rate_limit:" + category + ":" + client
}

// Decide resolve a categoria do path, consulta/atualiza a janela e devolve
// a decisão com os metadados necessários para a resposta 429.
func (s LimiterService) Decide(ctx context.Context, cfg domain.DomainConfig, path, client string) domain.LimitDecision {
	category := cfg.CategoryFor(path)
	rule := cfg.RuleFor(category)

	dec := domain.LimitDecision{
		Allowed:  true,
		Domain:   cfg.Prefix,
		Category: category,
		Limit:    rule.Requests,
		Window:   rule.Window,
	}
	if s.Windows == nil {
		return dec
	}

	timeout := s.StoreTimeout
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	key := WindowKey(cfg.Prefix, category, client)
	allowed, err := s.Windows.CheckAndRecord(ctx, key, rule.Requests, rule.Window, now)
	if err != nil {
		return s.decideDegraded(dec, key)
	}
	dec.Allowed = allowed
	return dec
}

func (s LimiterService) decideDegraded(dec domain.LimitDecision, key string) domain.LimitDecision {
	dec.Degraded = true
	switch s.FailMode {
	case FailClosed:
		dec.Allowed = false
	case FailLocal:
		if s.Fallback != nil {
			if lim := s.Fallback.Get(domain.Key(key)); lim != nil {
				dec.Allowed = lim.Allow()
				return dec
			}
		}
		dec.Allowed = true
	default:
		dec.Allowed = true
	}
	return dec
}
