package governance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"governance-gateway/middleware/governance/domain"
	"governance-gateway/middleware/governance/infra"
)

func TestChain_OrderIsDeclared(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(tag("a"), tag("b"), tag("c"))(okHandler())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://example/", nil))

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("expected declared order a,b,c, got %v", order)
	}
}

// Cenário fim a fim do domínio lang_: 2 requisições em /lang/cursos passam,
// a 3ª dentro da mesma janela leva 429 com os metadados da categoria.
func TestDomainChain_EndToEnd(t *testing.T) {
	cfg := domain.DomainConfig{
		Prefix: "lang_",
		Hours:  domain.BusinessHours{Start: 0, End: 24},
		Categories: map[string]domain.RateRule{
			"courses":              {Requests: 2, Window: 60 * time.Second},
			domain.GeneralCategory: {Requests: 100, Window: 60 * time.Second},
		},
		CategoryRoutes: []domain.CategoryRoute{
			{Fragment: "/cursos", Category: "courses"},
		},
		LogEndpoints: map[string]domain.Severity{
			"/cursos": domain.SeverityInfo,
		},
	}

	var logBuf bytes.Buffer
	clock := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

	handlerCalls := 0
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
		w.WriteHeader(http.StatusOK)
	})

	h := DomainChain(ChainOptions{
		Config:  cfg,
		Logger:  NewDomainLogger(cfg.Prefix, &logBuf),
		Windows: infra.NewMemoryWindowStore(),
		Stats:   infra.NewMemoryStatsStore(),
		Clock:   func() time.Time { return clock },
	})(upstream)

	request := func(path string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "http://example"+path, nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	if w := request("/lang/cursos"); w.Code != http.StatusOK {
		t.Fatalf("1st request: expected 200, got %d", w.Code)
	}
	if w := request("/lang/cursos"); w.Code != http.StatusOK {
		t.Fatalf("2nd request: expected 200, got %d", w.Code)
	}

	w := request("/lang/cursos")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("3rd request: expected 429, got %d", w.Code)
	}
	var body struct {
		Category string `json:"category"`
		Limit    int    `json:"limit"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid 429 body: %v", err)
	}
	if body.Category != "courses" || body.Limit != 2 {
		t.Fatalf("expected category=courses limit=2, got %+v", body)
	}

	if handlerCalls != 2 {
		t.Fatalf("expected upstream to receive 2 requests, got %d", handlerCalls)
	}
	if logBuf.Len() == 0 {
		t.Fatalf("expected chain to emit request logs for /cursos")
	}

	// tráfego de outro domínio atravessa a cadeia intocado
	if w := request("/other/api"); w.Code != http.StatusOK {
		t.Fatalf("expected pass-through outside /lang, got %d", w.Code)
	}
	if handlerCalls != 3 {
		t.Fatalf("expected pass-through to reach upstream, got %d calls", handlerCalls)
	}
}

func TestDomainChain_ValidatorRunsBeforeRateLimit(t *testing.T) {
	cfg := domain.DomainConfig{
		Prefix:          "vet_",
		Hours:           domain.BusinessHours{Start: 0, End: 24},
		RequiredHeaders: []string{"X-Vet-License"},
		Categories: map[string]domain.RateRule{
			domain.GeneralCategory: {Requests: 1, Window: time.Minute},
		},
	}

	windows := infra.NewMemoryWindowStore()
	h := DomainChain(ChainOptions{
		Config:  cfg,
		Windows: windows,
	})(okHandler())

	// sem o header, a rejeição vem do validador e a janela não é tocada
	for i := 0; i < 3; i++ {
		r := httptest.NewRequest(http.MethodGet, "http://example/vet/consulta", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 from validator, got %d", w.Code)
		}
	}

	r := httptest.NewRequest(http.MethodGet, "http://example/vet/consulta", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Vet-License", "OK")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected valid request to pass rate limit untouched, got %d", w.Code)
	}
}

func TestDomainChain_CapacityStageRejectsWhenFull(t *testing.T) {
	cfg := domain.DomainConfig{
		Prefix:        "gym_",
		Hours:         domain.BusinessHours{Start: 0, End: 24},
		CapacityLimit: 1,
		Categories: map[string]domain.RateRule{
			domain.GeneralCategory: {Requests: 100, Window: time.Minute},
		},
	}

	release := make(chan struct{})
	entered := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	})

	h := DomainChain(ChainOptions{
		Config:          cfg,
		Windows:         infra.NewMemoryWindowStore(),
		CapacityTimeout: 20 * time.Millisecond,
	})(slow)

	go func() {
		r := httptest.NewRequest(http.MethodGet, "http://example/gym/checkin", nil)
		r.RemoteAddr = "10.0.0.1:1111"
		h.ServeHTTP(httptest.NewRecorder(), r)
	}()
	<-entered

	r := httptest.NewRequest(http.MethodGet, "http://example/gym/checkin", nil)
	r.RemoteAddr = "10.0.0.2:2222"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	close(release)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with capacity exhausted, got %d", w.Code)
	}
}
