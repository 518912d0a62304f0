package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	PolicyEngineRBAC = "rbac"
	PolicyEngineOPA  = "opa"
)

type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR,default=:8080"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=json"`

	Auth0Domain    string        `env:"AUTH0_DOMAIN"`
	APIAudience    string        `env:"API_AUDIENCE"`
	AuthAlgorithms string        `env:"AUTH_ALGORITHMS,default=RS256"`
	AuthLeeway     time.Duration `env:"AUTH_LEEWAY,default=0s"`

	JWKSURL          string        `env:"JWKS_URL"`
	OIDCDiscovery    bool          `env:"OIDC_DISCOVERY,default=false"`
	JWKSFetchTimeout time.Duration `env:"JWKS_FETCH_TIMEOUT,default=5s"`
	JWKSCacheTTL     time.Duration `env:"JWKS_CACHE_TTL,default=0s"`
	JWKSMaxStale     time.Duration `env:"JWKS_MAX_STALE,default=15m"`

	PolicyEngine     string `env:"POLICY_ENGINE,default=rbac"`
	PolicyBundlePath string `env:"POLICY_BUNDLE_PATH"`

	RateLimitRequests      int `env:"RATE_LIMIT_REQUESTS,default=0"`
	RateLimitWindowSeconds int `env:"RATE_LIMIT_WINDOW_SECONDS,default=60"`
	RateLimitMaxKeys       int `env:"RATE_LIMIT_MAX_KEYS,default=10000"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS,default=*"`
}

// FromEnv loads an optional .env file and decodes the process environment.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode env: %w", err)
	}
	cfg.Auth0Domain = normalizeDomain(cfg.Auth0Domain)
	return cfg, nil
}

func (c Config) Validate() error {
	var missing []string
	if c.Auth0Domain == "" {
		missing = append(missing, "AUTH0_DOMAIN")
	}
	if c.APIAudience == "" {
		missing = append(missing, "API_AUDIENCE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	switch c.PolicyEngine {
	case "", PolicyEngineRBAC, PolicyEngineOPA:
	default:
		return fmt.Errorf("unsupported POLICY_ENGINE %q", c.PolicyEngine)
	}
	if len(c.Algorithms()) == 0 {
		return errors.New("AUTH_ALGORITHMS must name at least one algorithm")
	}
	return nil
}

// Issuer is the expected iss claim: https://<domain>/.
func (c Config) Issuer() string {
	if c.Auth0Domain == "" {
		return ""
	}
	return "https://" + c.Auth0Domain + "/"
}

// KeySetURL returns the explicit JWKS_URL or the well-known location under
// the issuer domain.
func (c Config) KeySetURL() string {
	if u := strings.TrimSpace(c.JWKSURL); u != "" {
		return u
	}
	if c.Auth0Domain == "" {
		return ""
	}
	return "https://" + c.Auth0Domain + "/.well-known/jwks.json"
}

func (c Config) Algorithms() []string {
	var out []string
	for _, alg := range strings.Split(c.AuthAlgorithms, ",") {
		if alg = strings.TrimSpace(alg); alg != "" {
			out = append(out, alg)
		}
	}
	return out
}

func (c Config) RateLimitWindow() time.Duration {
	if c.RateLimitWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func (c Config) AllowedOrigins() []string {
	var out []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimRight(domain, "/")
}
