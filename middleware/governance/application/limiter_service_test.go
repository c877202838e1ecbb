package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"governance-gateway/middleware/governance/domain"
	"governance-gateway/middleware/governance/infra"
)

func limitedConfig(limit int, window time.Duration) domain.DomainConfig {
	return domain.DomainConfig{
		Prefix: "lang_",
		Categories: map[string]domain.RateRule{
			"courses":              {Requests: limit, Window: window},
			domain.GeneralCategory: {Requests: 1000, Window: window},
		},
		CategoryRoutes: []domain.CategoryRoute{
			{Fragment: "/cursos", Category: "courses"},
		},
	}
}

func TestLimiter_AllowsUpToLimitThenRejects(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	svc := LimiterService{
		Windows: infra.NewMemoryWindowStore(),
		Now:     func() time.Time { return now },
	}
	cfg := limitedConfig(3, 60*time.Second)

	for i := 0; i < 3; i++ {
		dec := svc.Decide(context.Background(), cfg, "/lang/cursos", "10.0.0.1")
		if !dec.Allowed {
			t.Fatalf("request %d: expected allowed", i+1)
		}
	}

	dec := svc.Decide(context.Background(), cfg, "/lang/cursos", "10.0.0.1")
	if dec.Allowed {
		t.Fatalf("4th request within window: expected denied")
	}
	if dec.Category != "courses" || dec.Limit != 3 || dec.Window != 60*time.Second || dec.Domain != "lang_" {
		t.Fatalf("unexpected decision metadata: %+v", dec)
	}
}

func TestLimiter_WindowSlides(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	svc := LimiterService{
		Windows: infra.NewMemoryWindowStore(),
		Now:     func() time.Time { return now },
	}
	cfg := limitedConfig(2, 60*time.Second)

	for i := 0; i < 2; i++ {
		if dec := svc.Decide(context.Background(), cfg, "/lang/cursos", "c1"); !dec.Allowed {
			t.Fatalf("request %d: expected allowed", i+1)
		}
	}
	if dec := svc.Decide(context.Background(), cfg, "/lang/cursos", "c1"); dec.Allowed {
		t.Fatalf("expected rejection inside window")
	}

	// depois da janela inteira sem chamadas, volta a aceitar
	now = now.Add(61 * time.Second)
	if dec := svc.Decide(context.Background(), cfg, "/lang/cursos", "c1"); !dec.Allowed {
		t.Fatalf("expected allow after window elapsed")
	}
}

func TestLimiter_IsolatesClientsAndCategories(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	svc := LimiterService{
		Windows: infra.NewMemoryWindowStore(),
		Now:     func() time.Time { return now },
	}
	cfg := limitedConfig(1, 60*time.Second)

	if dec := svc.Decide(context.Background(), cfg, "/lang/cursos", "c1"); !dec.Allowed {
		t.Fatalf("c1 first request: expected allowed")
	}
	if dec := svc.Decide(context.Background(), cfg, "/lang/cursos", "c1"); dec.Allowed {
		t.Fatalf("c1 second request: expected denied")
	}
	// outro cliente tem a própria janela
	if dec := svc.Decide(context.Background(), cfg, "/lang/cursos", "c2"); !dec.Allowed {
		t.Fatalf("c2 first request: expected allowed")
	}
	// outra categoria do mesmo cliente também
	if dec := svc.Decide(context.Background(), cfg, "/lang/otros", "c1"); !dec.Allowed {
		t.Fatalf("c1 general category: expected allowed")
	}
}

type failingWindows struct{}

func (failingWindows) CheckAndRecord(context.Context, string, int, time.Duration, time.Time) (bool, error) {
	return false, errors.New("store down")
}

func TestLimiter_FailOpenByDefault(t *testing.T) {
	svc := LimiterService{Windows: failingWindows{}}
	dec := svc.Decide(context.Background(), limitedConfig(1, time.Minute), "/lang/cursos", "c1")
	if !dec.Allowed {
		t.Fatalf("expected fail-open to allow")
	}
	if !dec.Degraded {
		t.Fatalf("expected decision marked degraded")
	}
}

func TestLimiter_FailClosed(t *testing.T) {
	svc := LimiterService{Windows: failingWindows{}, FailMode: FailClosed}
	dec := svc.Decide(context.Background(), limitedConfig(1, time.Minute), "/lang/cursos", "c1")
	if dec.Allowed {
		t.Fatalf("expected fail-closed to deny")
	}
	if !dec.Degraded {
		t.Fatalf("expected decision marked degraded")
	}
}

func TestLimiter_FailLocalUsesFallbackBucket(t *testing.T) {
	svc := LimiterService{
		Windows:  failingWindows{},
		FailMode: FailLocal,
		Fallback: infra.NewBucketStore(0.02, 1),
	}
	cfg := limitedConfig(100, time.Minute)

	first := svc.Decide(context.Background(), cfg, "/lang/cursos", "c1")
	if !first.Allowed {
		t.Fatalf("expected first degraded request to pass the local bucket")
	}
	second := svc.Decide(context.Background(), cfg, "/lang/cursos", "c1")
	if second.Allowed {
		t.Fatalf("expected second immediate request to be held by the local bucket")
	}
}

func TestWindowKey_Deterministic(t *testing.T) {
	a := WindowKey("lang_", "courses", "10.0.0.1")
	b := WindowKey("lang_", "courses", "10.0.0.1")
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}
	if a != "lang_:rate_limit:courses:10.0.0.1" {
		t.Fatalf("unexpected key layout: %q", a)
	}
}
