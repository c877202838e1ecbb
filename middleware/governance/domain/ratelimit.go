package domain

import (
	"context"
	"time"
)

type Key string

// WindowStore é o contrato do contador de janela deslizante compartilhado.
//
// CheckAndRecord deve ser atômico: poda entradas anteriores a now-window,
// conta as restantes e, se a contagem for menor que limit, registra now e
// renova a expiração do conjunto. O limite inferior da janela é inclusivo
// (uma entrada exatamente em now-window ainda conta).
type WindowStore interface {
	CheckAndRecord(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (allowed bool, err error)
}

// Limiter representa algo que pode decidir se uma ação é permitida agora.
//
// Usado no modo degradado: quando o WindowStore compartilhado está fora do
// ar, um limiter local (ex: token bucket) pode segurar o tráfego.
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter local por chave (ex: IP, API key).
// A implementação pode manter cache, TTL, etc.
type LimiterStore interface {
	Get(Key) Limiter
}
