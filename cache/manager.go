package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable marca falha de conectividade/timeout do store. O chamador
// trata o cache como otimização e segue para a fonte autoritativa.
var ErrUnavailable = errors.New("cache unavailable")

// Manager é a fachada de cache: construção de chaves, get/set serializado
// em JSON e invalidação por chave ou padrão.
type Manager struct {
	store    Store
	policies Policies
	metrics  *Metrics
}

type ManagerOption func(*Manager)

func WithPolicies(p Policies) ManagerOption {
	return func(m *Manager) { m.policies = p }
}

// WithMetrics liga o registro de hits/misses no Get.
func WithMetrics(mt *Metrics) ManagerOption {
	return func(m *Manager) { m.metrics = mt }
}

func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:    store,
		policies: NewPolicies(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// KeyFor monta a chave juntando as partes com ":". Função pura: as mesmas
// partes sempre produzem a mesma chave.
func (m *Manager) KeyFor(parts ...string) string {
	return strings.Join(parts, ":")
}

// Set serializa value e grava com o TTL da classe. Sobrescreve qualquer
// entrada existente (last-write-wins, sem concorrência otimista).
func (m *Manager) Set(ctx context.Context, key string, value any, ttlType string) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	if err := m.store.Set(ctx, key, payload, m.policies.DurationFor(ttlType)); err != nil {
		return fmt.Errorf("cache set %q: %w: %w", key, ErrUnavailable, err)
	}
	return nil
}

// Get desserializa em dest no hit e retorna (true, nil). Miss ou expiração
// natural retornam (false, nil) — ausência não é erro.
func (m *Manager) Get(ctx context.Context, key string, dest any) (bool, error) {
	payload, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("cache get %q: %w: %w", key, ErrUnavailable, err)
	}
	if !ok {
		if m.metrics != nil {
			m.metrics.Miss(ctx)
		}
		return false, nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("cache get %q: %w", key, err)
	}
	if m.metrics != nil {
		m.metrics.Hit(ctx)
	}
	return true, nil
}

// Invalidate apaga uma chave exata ou, se o argumento contiver um marcador
// de glob (* ? [), toda chave que casar com o padrão. Mutação direta de
// estado compartilhado sem lock: eventualmente consistente, nunca
// linearizável — aceitável porque cache não é fonte de verdade.
func (m *Manager) Invalidate(ctx context.Context, keyOrPattern string) error {
	var err error
	if strings.ContainsAny(keyOrPattern, "*?[") {
		_, err = m.store.DeletePattern(ctx, keyOrPattern)
	} else {
		err = m.store.Delete(ctx, keyOrPattern)
	}
	if err != nil {
		return fmt.Errorf("cache invalidate %q: %w: %w", keyOrPattern, ErrUnavailable, err)
	}
	return nil
}
