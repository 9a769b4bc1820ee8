package explorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/etherscope-bot/pkg/config"
	"github.com/etherscope-bot/pkg/models"
)

// Client fetches on-chain data for a validated address. Two backends exist
// with equivalent call shapes; one is selected at startup and fixed for the
// process lifetime.
type Client interface {
	GetBalance(ctx context.Context, address string) (string, error)
	GetTokens(ctx context.Context, address string) (*models.TokenSummary, error)
	GetTransactions(ctx context.Context, address string, limit int) (*models.TransactionSummary, error)
}

// New builds the provider selected by configuration.
func New(cfg *config.Config) Client {
	t := &transport{
		hc:         &http.Client{Timeout: cfg.APITimeout},
		limiter:    NewRateLimiter(cfg.RateLimitPerMin),
		maxRetries: cfg.APIMaxRetries,
		retryDelay: cfg.APIRetryDelay,
	}
	if cfg.APIProvider == config.ProviderAlchemy {
		return &Alchemy{t: t, baseURL: config.AlchemyBaseURL, apiKey: cfg.AlchemyAPIKey}
	}
	return &Etherscan{t: t, baseURL: config.EtherscanBaseURL, apiKey: cfg.EtherscanAPIKey}
}

// transport wraps an http.Client with the shared request policy: one unit
// of the rolling rate budget per call, then bounded retries with
// exponential backoff. A provider-reported 429 fails immediately.
type transport struct {
	hc         *http.Client
	limiter    *RateLimiter
	maxRetries int
	retryDelay time.Duration
}

func (t *transport) getJSON(ctx context.Context, url string, out interface{}) error {
	return t.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}, out)
}

func (t *transport) postJSON(ctx context.Context, url string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return t.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, out)
}

func (t *transport) do(ctx context.Context, build func() (*http.Request, error), out interface{}) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < t.maxRetries; attempt++ {
		req, err := build()
		if err != nil {
			return err
		}
		resp, err := t.hc.Do(req)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt+1).Msg("request error, retrying")
		} else {
			body, readErr := io.ReadAll(io.LimitReader(resp.Body, 10<<20)) // 10MB max
			resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				log.Warn().Str("url", req.URL.Host).Msg("provider rate limit exceeded")
				return &RateLimitError{Msg: "API rate limit exceeded"}
			case resp.StatusCode/100 != 2:
				lastErr = fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Host)
				log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Msg("request failed, retrying")
			case readErr != nil:
				lastErr = readErr
			default:
				if err := json.Unmarshal(body, out); err != nil {
					return &UpstreamError{Msg: "malformed provider response", Err: err}
				}
				return nil
			}
		}

		if attempt < t.maxRetries-1 {
			d := t.retryDelay * (1 << attempt)
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	log.Error().Err(lastErr).Int("attempts", t.maxRetries).Msg("API request failed after all retries")
	return &UpstreamError{
		Msg: fmt.Sprintf("failed to fetch blockchain data after %d attempts", t.maxRetries),
		Err: lastErr,
	}
}
