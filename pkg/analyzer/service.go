package analyzer

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/etherscope-bot/pkg/cache"
	"github.com/etherscope-bot/pkg/config"
	"github.com/etherscope-bot/pkg/db"
	"github.com/etherscope-bot/pkg/explorer"
	"github.com/etherscope-bot/pkg/models"
)

// Service owns the full analysis pipeline: validate, consult the cache,
// fetch from the explorer, score, cache and persist. It is constructed
// once at startup and passed to every caller; no package-level state.
type Service struct {
	client explorer.Client
	cache  *cache.Cache
	store  *db.Store // optional; nil disables persistence
	cfg    *config.Config

	sf  singleflight.Group
	now func() time.Time
}

func NewService(client explorer.Client, c *cache.Cache, store *db.Store, cfg *config.Config) *Service {
	return &Service{client: client, cache: c, store: store, cfg: cfg, now: time.Now}
}

// CacheKey is the canonical cache key for an already-normalized address.
func CacheKey(address string) string {
	return "analysis:" + address
}

// Analyze produces a complete WalletAnalysis for the raw address. The
// second return reports whether the result came from the cache. A cache
// miss is all-or-nothing: any fetch failure aborts the whole analysis.
func (s *Service) Analyze(ctx context.Context, raw string) (*models.WalletAnalysis, bool, error) {
	address, err := explorer.NormalizeAddress(raw)
	if err != nil {
		return nil, false, err
	}

	key := CacheKey(address)
	if hit := s.cache.Get(key); hit != nil {
		log.Info().Str("address", address).Msg("returning cached analysis")
		return hit, true, nil
	}

	// Concurrent misses for the same address share one fetch.
	v, err, shared := s.sf.Do(key, func() (interface{}, error) {
		if hit := s.cache.Get(key); hit != nil {
			return hit, nil
		}
		return s.analyze(ctx, address)
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*models.WalletAnalysis), shared, nil
}

func (s *Service) analyze(ctx context.Context, address string) (*models.WalletAnalysis, error) {
	var (
		balance string
		tokens  *models.TokenSummary
		txs     *models.TransactionSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balance, err = s.client.GetBalance(gctx, address)
		return err
	})
	g.Go(func() error {
		var err error
		tokens, err = s.client.GetTokens(gctx, address)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.client.GetTransactions(gctx, address, s.cfg.TxFetchLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	behavior := AnalyzeBehavior(txs, s.cfg.DeFiContractThreshold)
	days, firstTx := DaysActive(txs.LastTransactions, s.now().UTC())

	analysis := &models.WalletAnalysis{
		WalletAddress:      address,
		ETHBalance:         balance,
		ETHBalanceDisplay:  explorer.FormatWei(balance),
		TokenSummary:       tokens,
		TransactionSummary: txs,
		Behavior:           behavior,
		AnalyzedAt:         s.now().UTC(),
	}
	if len(txs.LastTransactions) > 0 {
		analysis.FirstTransactionDate = &firstTx
		analysis.DaysActive = &days
	}

	s.cache.Set(CacheKey(address), analysis)

	if s.store != nil {
		if err := s.store.RecordAnalysis(analysis); err != nil {
			log.Warn().Err(err).Str("address", address).Msg("failed to persist analysis")
		}
	}

	log.Info().Str("address", address).Int("score", behavior.WalletScore).
		Str("activity", string(behavior.ActivityLevel)).Msg("analysis complete")
	return analysis, nil
}

// CacheStats exposes cache state for the health command and dashboard.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.GetStats()
}
