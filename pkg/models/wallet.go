package models

import "time"

// ActivityLevel buckets a wallet by how many transactions the fetched
// window contained.
type ActivityLevel string

const (
	ActivityDormant      ActivityLevel = "dormant"
	ActivityLow          ActivityLevel = "low"
	ActivityModerate     ActivityLevel = "moderate"
	ActivityActive       ActivityLevel = "active"
	ActivityHighlyActive ActivityLevel = "highly_active"
)

// WalletBehavior is the heuristic classification of a wallet. WalletScore
// is always within [0, 100].
type WalletBehavior struct {
	ActivityLevel    ActivityLevel `json:"activity_level"`
	DeFiUser         bool          `json:"defi_user"`
	NFTTrader        bool          `json:"nft_trader"`
	ContractDeployer bool          `json:"contract_deployer"`
	WalletScore      int           `json:"wallet_score"`
}

// WalletAnalysis is the complete report for one address. Built once per
// cache miss and immutable afterwards. WalletAddress is always canonical
// lower-case, and the summaries are never nil.
type WalletAnalysis struct {
	WalletAddress        string              `json:"wallet_address"`
	ETHBalance           string              `json:"eth_balance"`
	ETHBalanceDisplay    string              `json:"eth_balance_display"`
	TokenSummary         *TokenSummary       `json:"token_summary"`
	TransactionSummary   *TransactionSummary `json:"transaction_summary"`
	Behavior             WalletBehavior      `json:"behavior"`
	AnalyzedAt           time.Time           `json:"analyzed_at"`
	FirstTransactionDate *time.Time          `json:"first_transaction_date,omitempty"`
	DaysActive           *int                `json:"days_active,omitempty"`
}
