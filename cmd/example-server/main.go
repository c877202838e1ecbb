package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"governance-gateway/cache"
	"governance-gateway/middleware/governance"
	"governance-gateway/middleware/governance/domain"
	"governance-gateway/middleware/governance/infra"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
)

// Exemplo de uso em modo biblioteca: a API do domínio lang_ (academia de
// idiomas) com a cadeia de governança na frente e cache read-through nos
// catálogos.
type specification struct {
	ListenAddr    string `default:":8081" envconfig:"listen_addr"`
	RedisAddr     string `default:"localhost:6379" envconfig:"redis_addr"`
	RedisPassword string `envconfig:"redis_password"`
	RedisDB       int    `default:"0" envconfig:"redis_db"`
	LogDir        string `default:"logs" envconfig:"log_dir"`
}

func main() {
	_ = godotenv.Load()

	var spec specification
	if err := envconfig.Process("server", &spec); err != nil {
		log.Fatalf("config error: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     spec.RedisAddr,
		Password: spec.RedisPassword,
		DB:       spec.RedisDB,
	})
	defer func() { _ = rdb.Close() }()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		cancelPing()
		log.Fatalf("redis ping error: %v", err)
	}
	cancelPing()

	registry, err := domain.NewRegistry(domain.BuiltinConfigs()...)
	if err != nil {
		log.Fatalf("registry error: %v", err)
	}
	cfg := registry.Resolve("lang_")

	store := cache.NewRedisStore(rdb)
	metrics := cache.NewMetrics(store)
	manager := cache.NewManager(store, cache.WithMetrics(metrics))

	logFile, err := governance.OpenDomainLog(spec.LogDir, cfg.Prefix)
	if err != nil {
		log.Fatalf("log sink error: %v", err)
	}
	defer func() { _ = logFile.Close() }()

	chain := governance.DomainChain(governance.ChainOptions{
		Config:  cfg,
		Logger:  governance.NewDomainLogger(cfg.Prefix, logFile),
		Windows: infra.NewRedisWindowStore(rdb),
		Stats:   infra.NewRedisStatsStore(rdb),
	})

	api := &langAPI{
		cfg:     cfg,
		manager: manager,
		metrics: metrics,
		rdb:     rdb,
	}

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "domain": cfg.Prefix})
	})
	r.Route("/lang", func(r chi.Router) {
		r.Get("/grupos/frecuentes", api.gruposFrecuentes)
		r.Get("/niveles", api.niveles)
		r.Get("/catalogo", api.catalogo)
		r.Put("/cursos/{cursoID}", api.updateCurso)

		r.Get("/monitoring/rate-limits", api.rateLimitStats)
		r.Get("/monitoring/cache-metrics", api.cacheMetrics)
		r.Get("/monitoring/middleware-health", api.middlewareHealth)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              spec.ListenAddr,
		Handler:           chain(r),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("example server listening on %s (domain %s)", spec.ListenAddr, cfg.Prefix)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

type langAPI struct {
	cfg     domain.DomainConfig
	manager *cache.Manager
	metrics *cache.Metrics
	rdb     *redis.Client
}

// cached faz o read-through: tenta o cache, cai na fonte autoritativa em
// miss OU em falha do cache (cache é otimização, nunca pré-condição).
func (a *langAPI) cached(w http.ResponseWriter, r *http.Request, key, ttlType string, fetch func() any) {
	var out json.RawMessage
	hit, err := a.manager.Get(r.Context(), key, &out)
	if err != nil {
		log.Printf("warn: %v", err)
	}
	if hit {
		writeJSON(w, http.StatusOK, out)
		return
	}

	fresh := fetch()
	if err := a.manager.Set(r.Context(), key, fresh, ttlType); err != nil {
		log.Printf("warn: %v", err)
	}
	writeJSON(w, http.StatusOK, fresh)
}

func (a *langAPI) gruposFrecuentes(w http.ResponseWriter, r *http.Request) {
	a.cached(w, r, a.manager.KeyFor("grupos", "frecuentes"), cache.TTLFrequentData, func() any {
		return []map[string]any{
			{"id": 1, "nombre": "Inglés A1", "descripcion": "Curso para principiantes"},
			{"id": 2, "nombre": "Inglés A2", "descripcion": "Curso para nivel intermedio bajo"},
			{"id": 3, "nombre": "Inglés B1", "descripcion": "Curso para nivel intermedio alto"},
		}
	})
}

func (a *langAPI) niveles(w http.ResponseWriter, r *http.Request) {
	a.cached(w, r, a.manager.KeyFor("configuracion", "niveles"), cache.TTLStableData, func() any {
		return map[string]any{"niveles_disponibles": []string{"A1", "A2", "B1", "B2", "C1", "C2"}}
	})
}

func (a *langAPI) catalogo(w http.ResponseWriter, r *http.Request) {
	a.cached(w, r, a.manager.KeyFor("catalogo", "cursos"), cache.TTLReferenceData, func() any {
		return []map[string]any{
			{"id": 1, "curso": "Inglés A1", "duracion": "3 meses"},
			{"id": 2, "curso": "Inglés A2", "duracion": "3 meses"},
			{"id": 3, "curso": "Inglés B1", "duracion": "3 meses"},
		}
	})
}

// updateCurso simula a escrita na fonte autoritativa e invalida os caches
// relacionados ao curso.
func (a *langAPI) updateCurso(w http.ResponseWriter, r *http.Request) {
	cursoID := chi.URLParam(r, "cursoID")

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	patterns := []string{
		a.manager.KeyFor("curso", cursoID) + "*",
		a.manager.KeyFor("catalogo", "cursos"),
		a.manager.KeyFor("grupos", "frecuentes"),
	}
	for _, pattern := range patterns {
		if err := a.manager.Invalidate(r.Context(), pattern); err != nil {
			log.Printf("warn: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"curso_id":    cursoID,
		"actualizado": true,
		"data":        body,
	})
}

// rateLimitStats varre as chaves de janela do domínio e reporta o tamanho
// de cada conjunto por categoria e cliente.
func (a *langAPI) rateLimitStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]map[string]int64)

	iter := a.rdb.Scan(ctx, 0, a.cfg.Prefix+":rate_limit:*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		parts := strings.SplitN(key, ":", 4)
		if len(parts) < 4 {
			continue
		}
		category, client := parts[2], parts[3]

		count, err := a.rdb.ZCard(ctx, key).Result()
		if err != nil {
			continue
		}
		if stats[category] == nil {
			stats[category] = make(map[string]int64)
		}
		stats[category][client] = count
	}
	if err := iter.Err(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"domain":           a.cfg.Prefix,
		"rate_limit_stats": stats,
	})
}

func (a *langAPI) cacheMetrics(w http.ResponseWriter, r *http.Request) {
	snap, err := a.metrics.Snapshot(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (a *langAPI) middlewareHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"domain":       a.cfg.Prefix,
		"validator":    "active",
		"logger":       "active",
		"rate_limiter": "active",
		"status":       "healthy",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
