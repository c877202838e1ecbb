package infra

import (
	"context"
	"sync"
	"time"

	"governance-gateway/middleware/governance/domain"
)

// MemoryWindowStore é o gêmeo em memória do RedisWindowStore.
// Útil para testes e desenvolvimento; não é distribuído.
type MemoryWindowStore struct {
	mu      sync.Mutex
	windows map[string][]int64
}

var _ domain.WindowStore = (*MemoryWindowStore)(nil)

func NewMemoryWindowStore() *MemoryWindowStore {
	return &MemoryWindowStore{windows: make(map[string][]int64)}
}

// CheckAndRecord aplica a mesma semântica do script server-side:
// poda (score < now-window), contagem inclusiva no limite inferior e
// inserção condicional, tudo sob o mesmo lock.
func (s *MemoryWindowStore) CheckAndRecord(_ context.Context, key string, limit int, window time.Duration, now time.Time) (bool, error) {
	nowSec := now.Unix()
	windowStart := nowSec - int64(window/time.Second)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.windows[key][:0]
	for _, ts := range s.windows[key] {
		if ts >= windowStart {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= limit {
		s.windows[key] = kept
		return false, nil
	}
	s.windows[key] = append(kept, nowSec)
	return true, nil
}

// Len retorna o tamanho atual do conjunto de uma chave (inspeção em testes
// e no endpoint de monitoramento em modo memória).
func (s *MemoryWindowStore) Len(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows[key])
}
