package analyzer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etherscope-bot/pkg/cache"
	"github.com/etherscope-bot/pkg/config"
	"github.com/etherscope-bot/pkg/explorer"
	"github.com/etherscope-bot/pkg/models"
)

// stubClient counts provider calls and serves canned data.
type stubClient struct {
	balance string
	tokens  *models.TokenSummary
	txs     *models.TransactionSummary
	err     error

	balanceCalls atomic.Int32
	tokenCalls   atomic.Int32
	txCalls      atomic.Int32
}

func (s *stubClient) GetBalance(ctx context.Context, address string) (string, error) {
	s.balanceCalls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return s.balance, nil
}

func (s *stubClient) GetTokens(ctx context.Context, address string) (*models.TokenSummary, error) {
	s.tokenCalls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.tokens, nil
}

func (s *stubClient) GetTransactions(ctx context.Context, address string, limit int) (*models.TransactionSummary, error) {
	s.txCalls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.txs, nil
}

func testConfig() *config.Config {
	return &config.Config{
		TxFetchLimit:          10,
		DeFiContractThreshold: 5,
		CacheEnabled:          true,
		CacheTTL:              5 * time.Minute,
		CacheMaxSize:          100,
	}
}

func newTestService(client explorer.Client) *Service {
	cfg := testConfig()
	return NewService(client, cache.New(cfg.CacheEnabled, cfg.CacheTTL, cfg.CacheMaxSize), nil, cfg)
}

func TestAnalyzeEndToEnd(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{Hash: "0x1", ToAddress: "0xaaa", Timestamp: now.Add(-6 * time.Hour)},
		{Hash: "0x2", ToAddress: "0xaaa", Timestamp: now.Add(-30 * time.Hour)},
		{Hash: "0x3", ToAddress: "0xbbb", Timestamp: now.Add(-50 * time.Hour)},
		{Hash: "0x4", ToAddress: "0xbbb", Timestamp: now.Add(-70 * time.Hour)},
		{Hash: "0x5", ToAddress: "0xccc", Timestamp: now.Add(-90 * time.Hour)},
	}
	stub := &stubClient{
		balance: "2000000000000000000",
		tokens:  models.EmptyTokenSummary(),
		txs: &models.TransactionSummary{
			TotalTransactions:         5,
			LastTransactions:          txs,
			UniqueInteractedAddresses: 3,
		},
	}
	svc := newTestService(stub)
	svc.now = func() time.Time { return now }

	got, cached, err := svc.Analyze(context.Background(), "0xD8Da6BF26964aF9D7eEd9e03E53415D37aA96045")
	require.NoError(t, err)
	assert.False(t, cached)

	assert.Equal(t, "0xd8da6bf26964af9d7eed9e03e53415d37aa96045", got.WalletAddress)
	assert.Equal(t, "2", got.ETHBalanceDisplay)
	assert.Equal(t, models.ActivityLow, got.Behavior.ActivityLevel)
	assert.False(t, got.Behavior.DeFiUser)
	require.NotNil(t, got.DaysActive)
	assert.Equal(t, 3, *got.DaysActive)
	require.NotNil(t, got.FirstTransactionDate)
	assert.Equal(t, now.Add(-90*time.Hour), *got.FirstTransactionDate)
	assert.Equal(t, now, got.AnalyzedAt)
}

func TestAnalyzeSecondRequestHitsCache(t *testing.T) {
	stub := &stubClient{
		balance: "0",
		tokens:  models.EmptyTokenSummary(),
		txs:     models.EmptyTransactionSummary(),
	}
	svc := newTestService(stub)

	first, cached, err := svc.Analyze(context.Background(), "0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := svc.Analyze(context.Background(), "  0xD8DA6BF26964AF9D7EED9E03E53415D37AA96045  ")
	require.NoError(t, err)
	assert.True(t, cached, "normalized variants must share one cache entry")
	assert.Same(t, first, second)

	assert.Equal(t, int32(1), stub.balanceCalls.Load())
	assert.Equal(t, int32(1), stub.tokenCalls.Load())
	assert.Equal(t, int32(1), stub.txCalls.Load())
}

func TestAnalyzeInvalidAddress(t *testing.T) {
	stub := &stubClient{}
	svc := newTestService(stub)

	_, _, err := svc.Analyze(context.Background(), "not-an-address")
	require.Error(t, err)
	var invalid *explorer.InvalidAddressError
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, int32(0), stub.balanceCalls.Load(), "invalid input must not reach the provider")
}

func TestAnalyzeFetchFailureIsAllOrNothing(t *testing.T) {
	stub := &stubClient{err: &explorer.UpstreamError{Msg: "boom"}}
	svc := newTestService(stub)

	_, _, err := svc.Analyze(context.Background(), "0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	require.Error(t, err)
	var upstream *explorer.UpstreamError
	assert.True(t, errors.As(err, &upstream))

	// Failures are not cached; a retry fetches again.
	stub.err = nil
	stub.balance = "0"
	stub.tokens = models.EmptyTokenSummary()
	stub.txs = models.EmptyTransactionSummary()
	got, cached, err := svc.Analyze(context.Background(), "0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	require.NoError(t, err)
	assert.False(t, cached)
	require.NotNil(t, got)
}

func TestAnalyzeEmptyWindowOmitsHistory(t *testing.T) {
	stub := &stubClient{
		balance: "0",
		tokens:  models.EmptyTokenSummary(),
		txs:     models.EmptyTransactionSummary(),
	}
	svc := newTestService(stub)

	got, _, err := svc.Analyze(context.Background(), "0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	require.NoError(t, err)
	assert.Equal(t, models.ActivityDormant, got.Behavior.ActivityLevel)
	assert.Nil(t, got.DaysActive)
	assert.Nil(t, got.FirstTransactionDate)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "analysis:0xabc", CacheKey("0xabc"))
}
