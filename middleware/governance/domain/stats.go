package domain

import (
	"context"
	"time"
)

// StatsEvent representa uma decisão do rate limiter para fins de métrica.
//
// Ele é propositalmente agnóstico de HTTP: Method/Path são strings
// genéricas. Cuidado com cardinalidade ao habilitar rastreio por cliente
// (cada cliente vira uma chave no store).
type StatsEvent struct {
	Domain   string
	Category string
	Key      Key
	Allowed  bool

	Method string
	Path   string

	At time.Time
}

// StatsStore é a estratégia de persistência das estatísticas de decisão.
//
// Implementações podem armazenar em Redis, memória, etc. O middleware trata
// erro como best-effort (nunca derruba a requisição por falha de métrica).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
