// Package db persists computed wallet analyses to sqlite so history and
// operator stats survive restarts. The cache, not the store, decides
// whether a fresh analysis is needed; the store only records outcomes.
package db

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/etherscope-bot/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS wallet_analyses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    address TEXT NOT NULL,
    eth_balance TEXT NOT NULL DEFAULT '0',
    activity_level TEXT NOT NULL,
    defi_user BOOLEAN NOT NULL DEFAULT FALSE,
    nft_trader BOOLEAN NOT NULL DEFAULT FALSE,
    contract_deployer BOOLEAN NOT NULL DEFAULT FALSE,
    wallet_score INTEGER NOT NULL,
    total_transactions INTEGER NOT NULL DEFAULT 0,
    unique_addresses INTEGER NOT NULL DEFAULT 0,
    tokens_held INTEGER NOT NULL DEFAULT 0,
    days_active INTEGER,
    analyzed_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_address ON wallet_analyses(address);
CREATE INDEX IF NOT EXISTS idx_analyses_analyzed_at ON wallet_analyses(analyzed_at);
`

// AnalysisRecord is one persisted analysis outcome.
type AnalysisRecord struct {
	ID                int64                `json:"id"`
	Address           string               `json:"address"`
	ETHBalance        string               `json:"eth_balance"`
	ActivityLevel     models.ActivityLevel `json:"activity_level"`
	DeFiUser          bool                 `json:"defi_user"`
	NFTTrader         bool                 `json:"nft_trader"`
	ContractDeployer  bool                 `json:"contract_deployer"`
	WalletScore       int                  `json:"wallet_score"`
	TotalTransactions int                  `json:"total_transactions"`
	UniqueAddresses   int                  `json:"unique_addresses"`
	TokensHeld        int                  `json:"tokens_held"`
	DaysActive        *int                 `json:"days_active,omitempty"`
	AnalyzedAt        time.Time            `json:"analyzed_at"`
}

type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordAnalysis appends the outcome of one completed analysis.
func (s *Store) RecordAnalysis(a *models.WalletAnalysis) error {
	_, err := s.db.Exec(`
		INSERT INTO wallet_analyses
		(address, eth_balance, activity_level, defi_user, nft_trader, contract_deployer,
		 wallet_score, total_transactions, unique_addresses, tokens_held, days_active, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.WalletAddress, a.ETHBalance, string(a.Behavior.ActivityLevel),
		a.Behavior.DeFiUser, a.Behavior.NFTTrader, a.Behavior.ContractDeployer,
		a.Behavior.WalletScore,
		a.TransactionSummary.TotalTransactions,
		a.TransactionSummary.UniqueInteractedAddresses,
		a.TokenSummary.TotalTokensHeld,
		a.DaysActive, a.AnalyzedAt,
	)
	return err
}

// RecentAnalyses returns the newest records first.
func (s *Store) RecentAnalyses(limit int) ([]AnalysisRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, address, eth_balance, activity_level, defi_user, nft_trader,
		       contract_deployer, wallet_score, total_transactions, unique_addresses,
		       tokens_held, days_active, analyzed_at
		FROM wallet_analyses ORDER BY analyzed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisRecord
	for rows.Next() {
		var r AnalysisRecord
		var level string
		if err := rows.Scan(&r.ID, &r.Address, &r.ETHBalance, &level, &r.DeFiUser,
			&r.NFTTrader, &r.ContractDeployer, &r.WalletScore, &r.TotalTransactions,
			&r.UniqueAddresses, &r.TokensHeld, &r.DaysActive, &r.AnalyzedAt); err != nil {
			return nil, err
		}
		r.ActivityLevel = models.ActivityLevel(level)
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetStats reports aggregate counts for the dashboard and health checks.
func (s *Store) GetStats() (map[string]int64, error) {
	stats := map[string]int64{}
	queries := map[string]string{
		"analyses":         "SELECT COUNT(*) FROM wallet_analyses",
		"unique_wallets":   "SELECT COUNT(DISTINCT address) FROM wallet_analyses",
		"defi_wallets":     "SELECT COUNT(DISTINCT address) FROM wallet_analyses WHERE defi_user",
		"deployer_wallets": "SELECT COUNT(DISTINCT address) FROM wallet_analyses WHERE contract_deployer",
	}
	for name, q := range queries {
		var n int64
		if err := s.db.QueryRow(q).Scan(&n); err != nil {
			return nil, err
		}
		stats[name] = n
	}
	return stats, nil
}
