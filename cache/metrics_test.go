package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsInCurrentBucket(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	m := NewMetrics(NewMemoryStore(), WithMetricsClock(func() time.Time { return now }))

	m.Hit(ctx)
	m.Hit(ctx)
	m.Miss(ctx)

	stats, err := m.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Hits)
	require.Equal(t, int64(1), stats.Misses)
	require.Equal(t, now.Unix()/300, stats.Bucket)
}

func TestMetrics_BucketRotates(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	m := NewMetrics(NewMemoryStore(), WithMetricsClock(func() time.Time { return now }))

	m.Hit(ctx)

	// cinco minutos depois estamos em outro bucket, zerado
	now = now.Add(5 * time.Minute)
	stats, err := m.Snapshot(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.Hits)
	require.Zero(t, stats.Misses)
}

func TestMetrics_WiredIntoManagerGets(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	metrics := NewMetrics(store)
	m := NewManager(store, WithMetrics(metrics))

	var out string
	_, err := m.Get(ctx, "ausente", &out)
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "presente", "v", TTLDefault))
	hit, err := m.Get(ctx, "presente", &out)
	require.NoError(t, err)
	require.True(t, hit)

	stats, err := metrics.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Hits)
	require.Equal(t, int64(1), stats.Misses)
}
