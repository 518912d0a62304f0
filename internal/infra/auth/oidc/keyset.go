package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/logging"
)

const (
	defaultFetchTimeout = 5 * time.Second
	maxKeySetBytes      = 1 << 20
)

// FetchObserver is told about every key set fetch. outcome is "ok" or "error".
type FetchObserver interface {
	ObserveKeySetFetch(outcome string, elapsed time.Duration)
}

// KeySetProvider fetches the issuer's published signing keys over HTTP.
// Each call performs exactly one request.
type KeySetProvider struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
	observer   FetchObserver
}

type ProviderOption func(*KeySetProvider)

func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *KeySetProvider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

func WithFetchTimeout(timeout time.Duration) ProviderOption {
	return func(p *KeySetProvider) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

func WithFetchObserver(observer FetchObserver) ProviderOption {
	return func(p *KeySetProvider) {
		p.observer = observer
	}
}

func NewKeySetProvider(url string, opts ...ProviderOption) *KeySetProvider {
	p := &KeySetProvider{
		url:        url,
		httpClient: http.DefaultClient,
		timeout:    defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *KeySetProvider) URL() string {
	return p.url
}

func (p *KeySetProvider) KeySet(ctx context.Context) (domain.KeySet, error) {
	start := time.Now()
	set, err := p.fetch(ctx)
	if p.observer != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		p.observer.ObserveKeySetFetch(outcome, time.Since(start))
	}
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("url", p.url).Msg("jwks fetch failed")
		return domain.KeySet{}, err
	}
	logging.Ctx(ctx).Debug().Str("url", p.url).Int("keys", len(set.Keys)).Msg("jwks fetched")
	return set, nil
}

func (p *KeySetProvider) fetch(ctx context.Context) (domain.KeySet, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return domain.KeySet{}, fmt.Errorf("build jwks request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domain.KeySet{}, fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.KeySet{}, fmt.Errorf("fetch jwks: unexpected status %d", resp.StatusCode)
	}
	var set domain.KeySet
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxKeySetBytes)).Decode(&set); err != nil {
		return domain.KeySet{}, fmt.Errorf("decode jwks: %w", err)
	}
	return set, nil
}
