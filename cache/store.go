package cache

import (
	"context"
	"time"
)

// Store é o contrato mínimo de chave-valor que o Manager precisa.
//
// Implementações devem degradar graciosamente (retornar erro sem derrubar
// o chamador) para que a lógica de aplicação caia na fonte autoritativa.
type Store interface {
	// Get retorna os bytes da chave. ok=false quando ausente ou expirada.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set grava a chave com expiração ttl, sobrescrevendo incondicionalmente.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete remove exatamente uma chave; ausência não é erro.
	Delete(ctx context.Context, key string) error
	// DeletePattern remove toda chave que casa com o glob e retorna quantas.
	DeletePattern(ctx context.Context, pattern string) (int, error)
	// Incr incrementa um contador, renovando sua expiração.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Counter lê um contador; ausência vale zero.
	Counter(ctx context.Context, key string) (int64, error)
}
