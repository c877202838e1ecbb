package cache

import (
	"context"
	"strconv"
	"time"
)

// Metrics agrega hits/misses em buckets de tempo, para export de métricas.
// Registro é best-effort: falha do store não propaga para o chamador.
type Metrics struct {
	store  Store
	prefix string
	bucket time.Duration
	ttl    time.Duration
	now    func() time.Time
}

type MetricsOption func(*Metrics)

// WithMetricsClock troca a fonte de tempo (testes de bucket).
func WithMetricsClock(now func() time.Time) MetricsOption {
	return func(m *Metrics) { m.now = now }
}

func WithMetricsPrefix(prefix string) MetricsOption {
	return func(m *Metrics) { m.prefix = prefix }
}

// NewMetrics agrupa em buckets de 5 minutos que expiram em 1 hora.
func NewMetrics(store Store, opts ...MetricsOption) *Metrics {
	m := &Metrics{
		store:  store,
		prefix: "metrics:cache",
		bucket: 5 * time.Minute,
		ttl:    time.Hour,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Metrics) bucketID() int64 {
	return m.now().Unix() / int64(m.bucket/time.Second)
}

func (m *Metrics) key(kind string, bucket int64) string {
	return m.prefix + "_" + kind + ":" + strconv.FormatInt(bucket, 10)
}

func (m *Metrics) Hit(ctx context.Context) {
	_, _ = m.store.Incr(ctx, m.key("hits", m.bucketID()), m.ttl)
}

func (m *Metrics) Miss(ctx context.Context) {
	_, _ = m.store.Incr(ctx, m.key("misses", m.bucketID()), m.ttl)
}

// Stats é o recorte do bucket corrente.
type Stats struct {
	Bucket int64 `json:"time_bucket"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Snapshot lê os contadores do bucket corrente.
func (m *Metrics) Snapshot(ctx context.Context) (Stats, error) {
	bucket := m.bucketID()
	hits, err := m.store.Counter(ctx, m.key("hits", bucket))
	if err != nil {
		return Stats{}, err
	}
	misses, err := m.store.Counter(ctx, m.key("misses", bucket))
	if err != nil {
		return Stats{}, err
	}
	return Stats{Bucket: bucket, Hits: hits, Misses: misses}, nil
}
