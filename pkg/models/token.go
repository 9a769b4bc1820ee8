package models

// Token is an ERC20 holding derived from the wallet's transfer history.
// Balance is the raw base-unit amount as a decimal string.
type Token struct {
	ContractAddress string `json:"contract_address"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	Decimals        int    `json:"decimals"`
	Balance         string `json:"balance"`
	BalanceDisplay  string `json:"balance_display"`
}

// TokenSummary lists the top holdings by raw balance plus the distinct
// token count.
type TokenSummary struct {
	TopTokens       []Token `json:"top_tokens"`
	TotalTokensHeld int     `json:"total_tokens_held"`
}

func EmptyTokenSummary() *TokenSummary {
	return &TokenSummary{TopTokens: []Token{}}
}
