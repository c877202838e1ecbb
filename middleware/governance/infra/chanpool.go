package infra

import (
	"context"
	"sync"

	"governance-gateway/middleware/governance/domain"
)

// ChanPool limita requisições simultâneas com um channel bufferizado como
// semáforo. A ocupação corrente fica disponível para endpoints de saúde.
type ChanPool struct {
	sem chan struct{}
}

var _ domain.SlotPool = (*ChanPool)(nil)

func NewChanPool(max int) *ChanPool {
	return &ChanPool{sem: make(chan struct{}, max)}
}

// Acquire bloqueia até haver vaga ou o contexto expirar. O release
// retornado é idempotente: chamadas repetidas devolvem a vaga uma vez só.
func (p *ChanPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-p.sem }) }, true
	case <-ctx.Done():
		return nil, false
	}
}

// InUse é a ocupação instantânea do pool.
func (p *ChanPool) InUse() int { return len(p.sem) }

func (p *ChanPool) Capacity() int { return cap(p.sem) }
