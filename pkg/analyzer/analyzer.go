// Package analyzer derives heuristic behavioral labels and a 0-100 score
// from a wallet's recent transaction window. The classification functions
// are pure; the Service orchestrates fetch, scoring, caching and
// persistence.
package analyzer

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/etherscope-bot/pkg/models"
)

// Score weights: activity 40, contract-interaction ratio 30, counterpart
// diversity 15, advanced activity 15.
const (
	diversityCap        = 15
	advancedCap         = 15
	pointsPerFlag       = 5
	defaultDeFiMinCalls = 5
)

// DetectActivityLevel buckets the wallet by the number of transactions in
// the fetched window. An empty sample is dormant.
func DetectActivityLevel(txs []models.Transaction) models.ActivityLevel {
	switch n := len(txs); {
	case n >= 1000:
		return models.ActivityHighlyActive
	case n >= 100:
		return models.ActivityActive
	case n >= 20:
		return models.ActivityModerate
	case n >= 5:
		return models.ActivityLow
	default:
		return models.ActivityDormant
	}
}

// DetectDeFiUsage flags wallets whose contract-call share of the sample
// reaches 20%, with an absolute floor. A placeholder signal, not a
// protocol-registry lookup.
func DetectDeFiUsage(txs []models.Transaction, minCalls int) bool {
	if len(txs) == 0 {
		return false
	}
	if minCalls <= 0 {
		minCalls = defaultDeFiMinCalls
	}
	contractCalls := 0
	for _, tx := range txs {
		if tx.MethodID != "" && tx.MethodID != "0x" {
			contractCalls++
		}
	}
	threshold := float64(len(txs)) * 0.2
	if float64(minCalls) > threshold {
		threshold = float64(minCalls)
	}
	isDeFi := float64(contractCalls) >= threshold
	log.Debug().Int("contract_calls", contractCalls).Int("sample", len(txs)).Bool("defi_user", isDeFi).Msg("DeFi detection")
	return isDeFi
}

// DetectNFTTrader looks for an "nft" substring in any call selector.
// A placeholder signal carried over for behavioral parity.
func DetectNFTTrader(txs []models.Transaction) bool {
	for _, tx := range txs {
		if strings.Contains(strings.ToLower(tx.MethodID), "nft") {
			return true
		}
	}
	return false
}

// DetectContractDeployer flags wallets with any transaction lacking a
// recipient (contract creation).
func DetectContractDeployer(txs []models.Transaction) bool {
	for _, tx := range txs {
		if tx.ToAddress == "" {
			return true
		}
	}
	return false
}

// CalculateWalletScore sums the four independent components, each clamped
// to its budget, and caps the result at 100.
func CalculateWalletScore(
	level models.ActivityLevel,
	summary *models.TransactionSummary,
	defiUser, nftTrader, contractDeployer bool,
) int {
	score := 0

	switch level {
	case models.ActivityLow:
		score += 10
	case models.ActivityModerate:
		score += 20
	case models.ActivityActive:
		score += 30
	case models.ActivityHighlyActive:
		score += 40
	}

	total := summary.TotalTransactions
	if total < 1 {
		total = 1
	}
	ratio := float64(summary.ContractInteractions) / float64(total)
	switch {
	case ratio >= 0.5:
		score += 30
	case ratio >= 0.3:
		score += 20
	case ratio >= 0.1:
		score += 10
	default:
		score += 5
	}

	diversity := summary.UniqueInteractedAddresses / 10
	if diversity > diversityCap {
		diversity = diversityCap
	}
	score += diversity

	advanced := 0
	for _, flag := range []bool{defiUser, nftTrader, contractDeployer} {
		if flag {
			advanced += pointsPerFlag
		}
	}
	if advanced > advancedCap {
		advanced = advancedCap
	}
	score += advanced

	if score > 100 {
		score = 100
	}
	log.Debug().Int("score", score).Msg("wallet score calculated")
	return score
}

// AnalyzeBehavior runs the full classification over the fetched window.
func AnalyzeBehavior(summary *models.TransactionSummary, defiMinCalls int) models.WalletBehavior {
	recent := summary.LastTransactions

	level := DetectActivityLevel(recent)
	defiUser := DetectDeFiUsage(recent, defiMinCalls)
	nftTrader := DetectNFTTrader(recent)
	deployer := DetectContractDeployer(recent)

	return models.WalletBehavior{
		ActivityLevel:    level,
		DeFiUser:         defiUser,
		NFTTrader:        nftTrader,
		ContractDeployer: deployer,
		WalletScore:      CalculateWalletScore(level, summary, defiUser, nftTrader, deployer),
	}
}

// DaysActive returns whole days since the earliest timestamp in the sample
// and that timestamp. Bounded by the fetched window: unless the window
// happens to contain the first-ever transaction this undercounts, which is
// an inherent approximation of the design. Empty sample reports (0, now).
func DaysActive(txs []models.Transaction, now time.Time) (int, time.Time) {
	if len(txs) == 0 {
		return 0, now
	}
	first := txs[0].Timestamp
	for _, tx := range txs[1:] {
		if tx.Timestamp.Before(first) {
			first = tx.Timestamp
		}
	}
	days := int(now.Sub(first).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, first
}
