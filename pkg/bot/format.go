package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/etherscope-bot/pkg/cache"
	"github.com/etherscope-bot/pkg/config"
	"github.com/etherscope-bot/pkg/explorer"
	"github.com/etherscope-bot/pkg/models"
)

// FormatAnalysis renders a WalletAnalysis as the Telegram HTML report.
func FormatAnalysis(a *models.WalletAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "💼 <b>Wallet Analysis Report</b>\n")
	fmt.Fprintf(&b, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	fmt.Fprintf(&b, "<b>Address:</b>\n<code>%s</code>\n\n", a.WalletAddress)
	fmt.Fprintf(&b, "<b>💰 ETH Balance</b>\n")
	fmt.Fprintf(&b, "Balance: <code>%s ETH</code>\n", a.ETHBalanceDisplay)

	fmt.Fprintf(&b, "\n<b>🪙 Token Holdings</b>\n")
	fmt.Fprintf(&b, "Total Tokens: <code>%d</code>\n", a.TokenSummary.TotalTokensHeld)
	if len(a.TokenSummary.TopTokens) > 0 {
		fmt.Fprintf(&b, "Top Tokens:\n")
		top := a.TokenSummary.TopTokens
		if len(top) > 5 {
			top = top[:5]
		}
		for _, t := range top {
			fmt.Fprintf(&b, "  • %s: <code>%s</code>\n", t.Symbol, t.BalanceDisplay)
		}
	}

	ts := a.TransactionSummary
	fmt.Fprintf(&b, "\n<b>📊 Transaction History</b>\n")
	fmt.Fprintf(&b, "Total Transactions: <code>%d</code>\n", ts.TotalTransactions)
	fmt.Fprintf(&b, "Unique Addresses: <code>%d</code>\n", ts.UniqueInteractedAddresses)
	fmt.Fprintf(&b, "Contract Interactions: <code>%d</code>\n", ts.ContractInteractions)
	fmt.Fprintf(&b, "Failed Transactions: <code>%d</code>\n", ts.FailedTransactions)

	if len(ts.LastTransactions) > 0 {
		fmt.Fprintf(&b, "\n<b>📝 Latest Transactions</b>\n")
		recent := ts.LastTransactions
		if len(recent) > 3 {
			recent = recent[:3]
		}
		for _, tx := range recent {
			direction := "↑"
			if tx.ToAddress != "" && tx.ToAddress == a.WalletAddress {
				direction = "↓"
			}
			fmt.Fprintf(&b, "%s %s ETH - <code>%s...</code> (%s)\n",
				direction, tx.ValueDisplay, abbrevHash(tx.Hash), tx.Timestamp.Format("2006-01-02"))
		}
	}

	fmt.Fprintf(&b, "\n<b>🎯 Behavioral Analysis</b>\n")
	fmt.Fprintf(&b, "Activity Level: <code>%s</code>\n", strings.ToUpper(string(a.Behavior.ActivityLevel)))
	fmt.Fprintf(&b, "DeFi User: <code>%s</code>\n", yesNo(a.Behavior.DeFiUser))
	fmt.Fprintf(&b, "NFT Trader: <code>%s</code>\n", yesNo(a.Behavior.NFTTrader))
	fmt.Fprintf(&b, "Contract Deployer: <code>%s</code>\n", yesNo(a.Behavior.ContractDeployer))
	fmt.Fprintf(&b, "Wallet Score: <code>%d/100</code>\n", a.Behavior.WalletScore)

	if a.DaysActive != nil && a.FirstTransactionDate != nil {
		fmt.Fprintf(&b, "\n<b>📅 Account History</b>\n")
		fmt.Fprintf(&b, "Active Days: <code>%d</code>\n", *a.DaysActive)
		fmt.Fprintf(&b, "First Transaction: <code>%s</code>\n", a.FirstTransactionDate.Format("2006-01-02"))
	}

	fmt.Fprintf(&b, "\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "Generated: %s", a.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"))

	return b.String()
}

func FormatWelcome() string {
	return "👋 <b>Welcome to EtherScope</b>\n\n" +
		"Your Web3 Wallet Intelligence Bot\n\n" +
		"<b>📖 Available Commands:</b>\n\n" +
		"/analyze [wallet_address]\n" +
		"  Analyze an Ethereum wallet address\n\n" +
		"/health\n" +
		"  Check bot health status\n\n" +
		"<b>💡 Example:</b>\n" +
		"/analyze 0x1234567890123456789012345678901234567890\n\n" +
		"Bot will provide detailed analysis including:\n" +
		"  • ETH balance and token holdings\n" +
		"  • Transaction statistics\n" +
		"  • DeFi and NFT activity detection\n" +
		"  • Behavioral classification\n" +
		"  • Overall wallet score\n"
}

func FormatHealth(cfg *config.Config, stats cache.Stats, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ <b>EtherScope Bot Status</b>\n\n")
	fmt.Fprintf(&b, "<b>System Information</b>\n")
	fmt.Fprintf(&b, "Environment: <code>%s</code>\n", cfg.Environment)
	fmt.Fprintf(&b, "Blockchain Provider: <code>%s</code>\n", cfg.APIProvider)
	fmt.Fprintf(&b, "API Timeout: <code>%s</code>\n\n", cfg.APITimeout)
	fmt.Fprintf(&b, "<b>Cache Status</b>\n")
	fmt.Fprintf(&b, "Enabled: <code>%s</code>\n", yesNo(stats.Enabled))
	fmt.Fprintf(&b, "Size: <code>%d/%d</code>\n", stats.Size, stats.MaxSize)
	fmt.Fprintf(&b, "Utilization: <code>%.1f%%</code>\n\n", stats.Utilization*100)
	fmt.Fprintf(&b, "<b>Bot Status</b>\n")
	fmt.Fprintf(&b, "Status: <code>🟢 Operational</code>\n")
	fmt.Fprintf(&b, "Timestamp: <code>%s</code>\n", now.Format("2006-01-02 15:04:05 UTC"))
	return b.String()
}

// FormatError maps the error taxonomy to a user-visible message.
func FormatError(err error) string {
	var invalid *explorer.InvalidAddressError
	var rateLimited *explorer.RateLimitError
	var upstream *explorer.UpstreamError

	switch {
	case errors.As(err, &invalid):
		return fmt.Sprintf(
			"❌ <b>Invalid Wallet Address</b>\n\n"+
				"Error: %s\n\n"+
				"Please provide a valid Ethereum address (42 characters starting with 0x)",
			err.Error())
	case errors.As(err, &rateLimited):
		return "❌ <b>Rate Limit Exceeded</b>\n\n" +
			"The blockchain API is throttling requests. Please try again in a minute."
	case errors.As(err, &upstream):
		return "❌ <b>Blockchain API Error</b>\n\n" +
			"Failed to fetch blockchain data. Please try again later."
	default:
		return "❌ <b>Analysis Error</b>\n\n" +
			"An unexpected error occurred. Please try again later."
	}
}

// SplitMessage chunks a long message so no piece exceeds maxLen, splitting
// only at line boundaries, never mid-line.
func SplitMessage(msg string, maxLen int) []string {
	if len(msg) <= maxLen {
		return []string{msg}
	}

	var chunks []string
	current := ""
	for _, line := range strings.Split(msg, "\n") {
		if len(current)+len(line)+1 > maxLen {
			if current != "" {
				chunks = append(chunks, current)
			}
			current = line + "\n"
		} else {
			current += line + "\n"
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func abbrevHash(hash string) string {
	if len(hash) > 10 {
		return hash[:10]
	}
	return hash
}
