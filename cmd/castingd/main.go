package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/config"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/infra/auth/bearer"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/infra/auth/oidc"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/infra/auth/rbac"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/infra/db"
	httpinfra "github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/infra/http"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/infra/memstore"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/infra/metrics"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/infra/policyopa"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/infra/ratelimit"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/logging"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/usecase"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	verifier, err := buildVerifier(ctx, cfg, m)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to init token verifier")
	}
	enforcer, err := buildEnforcer(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to init policy engine")
	}
	gate := usecase.NewAuthorizationGate(bearer.Extract, verifier, enforcer)
	gate.Observer = m

	store, err := db.NewStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to init store")
	}
	defer func() {
		_ = store.Close()
	}()

	deps := httpinfra.ServerDeps{Gate: gate, Metrics: m}
	if store.Enabled() {
		deps.Catalog = usecase.NewCatalogService(db.NewMovieRepository(store.DB), db.NewActorRepository(store.DB))
		deps.Storage = store
	} else {
		mem := memstore.New()
		deps.Catalog = usecase.NewCatalogService(mem, mem)
	}

	if cfg.RateLimitRequests > 0 {
		limiter, closeLimiter, err := buildRateLimiter(ctx, cfg)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to init rate limiter")
		}
		defer closeLimiter()
		deps.RateLimiter = limiter
	}

	srv := httpinfra.NewServerWithDeps(cfg, deps)
	if err := srv.Run(ctx); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func buildVerifier(ctx context.Context, cfg config.Config, m *metrics.Metrics) (*oidc.Verifier, error) {
	keySetURL := cfg.KeySetURL()
	if cfg.OIDCDiscovery && cfg.JWKSURL == "" {
		discovered, err := oidc.DiscoverKeySetURL(ctx, &http.Client{Timeout: cfg.JWKSFetchTimeout}, cfg.Issuer())
		if err != nil {
			return nil, err
		}
		keySetURL = discovered
	}
	logging.Info().Str("jwks_url", keySetURL).Str("issuer", cfg.Issuer()).Msg("token verification configured")

	provider := oidc.NewKeySetProvider(keySetURL,
		oidc.WithFetchTimeout(cfg.JWKSFetchTimeout),
		oidc.WithFetchObserver(m),
	)
	keys := oidc.NewCachedKeySet(provider, cfg.JWKSCacheTTL, cfg.JWKSMaxStale)
	return oidc.NewVerifier(keys, cfg.Issuer(), cfg.APIAudience,
		oidc.WithAlgorithms(cfg.Algorithms()...),
		oidc.WithLeeway(cfg.AuthLeeway),
	)
}

func buildEnforcer(ctx context.Context, cfg config.Config) (domain.PermissionEnforcer, error) {
	if cfg.PolicyEngine != config.PolicyEngineOPA {
		return rbac.NewEnforcer(), nil
	}
	var (
		engine *policyopa.Engine
		err    error
	)
	if cfg.PolicyBundlePath != "" {
		engine, err = policyopa.NewEngineFromBundlePath(ctx, cfg.PolicyBundlePath)
	} else {
		engine, err = policyopa.NewEngine(ctx)
	}
	if err != nil {
		return nil, err
	}
	logging.Info().Str("bundle_hash", engine.BundleHash()).Msg("opa policy loaded")
	return engine, nil
}

func buildRateLimiter(ctx context.Context, cfg config.Config) (domain.RateLimiter, func(), error) {
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemoryLimiter(ratelimit.MemoryConfig{MaxKeys: cfg.RateLimitMaxKeys}), func() {}, nil
	}
	limiter, err := ratelimit.NewRedisLimiter(ctx, ratelimit.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, err
	}
	return limiter, func() { _ = limiter.Close() }, nil
}
