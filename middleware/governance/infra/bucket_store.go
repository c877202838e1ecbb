package infra

import (
	"context"
	"sync"
	"time"

	"governance-gateway/middleware/governance/domain"

	"golang.org/x/time/rate"
)

// BucketStore mantém um token-bucket local (x/time/rate) por chave de
// cliente. Ele não substitui a janela deslizante compartilhada: é a rede de
// segurança do modo fail-local, segurando o tráfego de cada chave enquanto
// o store compartilhado está inacessível.
//
// Chaves sem tráfego recente são descartadas pelo janitor para que um
// incidente longo não acumule limiters de clientes que já foram embora.
type BucketStore struct {
	mu      sync.Mutex
	buckets map[domain.Key]*localBucket

	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type localBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

var _ domain.LimiterStore = (*BucketStore)(nil)

type BucketOption func(*BucketStore)

// WithIdleTTL define quanto tempo sem tráfego uma chave sobrevive.
func WithIdleTTL(d time.Duration) BucketOption {
	return func(s *BucketStore) { s.idleTTL = d }
}

// WithCleanupEvery define o intervalo do janitor; zero desliga.
func WithCleanupEvery(d time.Duration) BucketOption {
	return func(s *BucketStore) { s.cleanupEvery = d }
}

func WithBucketClock(now func() time.Time) BucketOption {
	return func(s *BucketStore) { s.now = now }
}

func NewBucketStore(rps float64, burst int, opts ...BucketOption) *BucketStore {
	s := &BucketStore{
		buckets:      make(map[domain.Key]*localBucket),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get devolve o limiter da chave, criando-o na primeira visita.
func (s *BucketStore) Get(key domain.Key) domain.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.buckets[key]; ok {
		b.lastSeen = s.now()
		return b.lim
	}
	b := &localBucket{lim: rate.NewLimiter(s.rps, s.burst), lastSeen: s.now()}
	s.buckets[key] = b
	return b.lim
}

// Cleanup descarta chaves sem tráfego há mais de idleTTL e devolve quantas
// foram removidas.
func (s *BucketStore) Cleanup() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, b := range s.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(s.buckets, k)
			removed++
		}
	}
	return removed
}

// StartJanitor roda Cleanup periodicamente até o contexto ser cancelado.
func (s *BucketStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(s.cleanupEvery)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
