package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"governance-gateway/middleware/governance"
	"governance-gateway/middleware/governance/application"
	"governance-gateway/middleware/governance/domain"
	"governance-gateway/middleware/governance/infra"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
)

// specification é a configuração do binário, lida do ambiente.
type specification struct {
	ListenAddr   string `default:":8080" envconfig:"listen_addr"`
	UpstreamURL  string `required:"true" envconfig:"upstream_url"`
	DomainPrefix string `default:"lang_" envconfig:"domain_prefix"`

	RedisAddr     string `default:"localhost:6379" envconfig:"redis_addr"`
	RedisPassword string `envconfig:"redis_password"`
	RedisDB       int    `default:"0" envconfig:"redis_db"`

	// RateFailMode: open, closed ou local (token bucket em processo).
	RateFailMode     string        `default:"open" envconfig:"rate_fail_mode"`
	RateStoreTimeout time.Duration `default:"250ms" envconfig:"rate_store_timeout"`
	RateKeyHeader    string        `envconfig:"rate_key_header"`
	TrustXFF         bool          `default:"false" envconfig:"trust_xff"`

	FallbackRPS   float64 `default:"2" envconfig:"fallback_rps"`
	FallbackBurst int     `default:"5" envconfig:"fallback_burst"`

	StatsEnabled      bool `default:"true" envconfig:"stats_enabled"`
	StatsTrackClients bool `default:"false" envconfig:"stats_track_clients"`

	LogDir          string        `default:"logs" envconfig:"log_dir"`
	CapacityTimeout time.Duration `default:"0" envconfig:"capacity_timeout"`
}

func main() {
	// .env é opcional; variáveis já exportadas têm precedência.
	_ = godotenv.Load()

	var spec specification
	if err := envconfig.Process("gateway", &spec); err != nil {
		log.Fatalf("config error: %v", err)
	}

	target, err := url.Parse(spec.UpstreamURL)
	if err != nil {
		log.Fatalf("invalid GATEWAY_UPSTREAM_URL: %v", err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("proxy error: %v", err)
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	registry, err := domain.NewRegistry(domain.BuiltinConfigs()...)
	if err != nil {
		log.Fatalf("registry error: %v", err)
	}
	cfg := registry.Resolve(spec.DomainPrefix)

	rdb := redis.NewClient(&redis.Options{
		Addr:     spec.RedisAddr,
		Password: spec.RedisPassword,
		DB:       spec.RedisDB,
	})
	defer func() { _ = rdb.Close() }()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	_, err = rdb.Ping(pingCtx).Result()
	cancelPing()
	if err != nil {
		log.Fatalf("redis ping error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	failMode, fallback := failPolicy(ctx, spec)

	var stats domain.StatsStore
	if spec.StatsEnabled {
		stats = infra.NewRedisStatsStore(rdb,
			infra.WithStatsTrackClients(spec.StatsTrackClients),
		)
	}

	logFile, err := governance.OpenDomainLog(spec.LogDir, cfg.Prefix)
	if err != nil {
		log.Fatalf("log sink error: %v", err)
	}
	defer func() { _ = logFile.Close() }()

	chain := governance.DomainChain(governance.ChainOptions{
		Config:             cfg,
		Logger:             governance.NewDomainLogger(cfg.Prefix, logFile),
		Windows:            infra.NewRedisWindowStore(rdb),
		Stats:              stats,
		Fallback:           fallback,
		FailMode:           failMode,
		KeyHeader:          spec.RateKeyHeader,
		TrustXForwardedFor: spec.TrustXFF,
		StoreTimeout:       spec.RateStoreTimeout,
		CapacityTimeout:    spec.CapacityTimeout,
	})

	srv := &http.Server{
		Addr:              spec.ListenAddr,
		Handler:           chain(proxy),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("gateway listening on %s -> %s", spec.ListenAddr, target)
	log.Printf("domain: prefix=%q root=%q capacity=%d", cfg.Prefix, cfg.RouteRoot(), cfg.CapacityLimit)
	log.Printf("rate: failMode=%q storeTimeout=%s keyHeader=%q trustXFF=%v", spec.RateFailMode, spec.RateStoreTimeout, spec.RateKeyHeader, spec.TrustXFF)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// failPolicy traduz o modo configurado e, em "local", liga o token bucket
// de contingência com seu janitor.
func failPolicy(ctx context.Context, spec specification) (application.FailMode, domain.LimiterStore) {
	switch spec.RateFailMode {
	case "closed":
		return application.FailClosed, nil
	case "local":
		store := infra.NewBucketStore(spec.FallbackRPS, spec.FallbackBurst)
		store.StartJanitor(ctx)
		return application.FailLocal, store
	default:
		return application.FailOpen, nil
	}
}
