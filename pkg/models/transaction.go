package models

import "time"

// TransactionType classifies a transaction relative to the queried wallet.
type TransactionType string

const (
	TxSend                TransactionType = "send"
	TxReceive             TransactionType = "receive"
	TxContractInteraction TransactionType = "contract_interaction"
	TxTokenTransfer       TransactionType = "token_transfer"
	TxNFTTransfer         TransactionType = "nft_transfer"
)

// Transaction is a single on-chain transaction as reported by the explorer.
// ToAddress is empty for contract creations. MethodID holds the first four
// bytes of the call data ("0x" + 8 hex chars) and is empty for plain
// transfers.
type Transaction struct {
	Hash         string          `json:"hash"`
	FromAddress  string          `json:"from_address"`
	ToAddress    string          `json:"to_address,omitempty"`
	Value        string          `json:"value"`
	ValueDisplay string          `json:"value_display"`
	GasPrice     string          `json:"gas_price"`
	GasUsed      string          `json:"gas_used,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
	BlockNumber  int64           `json:"block_number"`
	IsError      bool            `json:"is_error"`
	Type         TransactionType `json:"type"`
	MethodID     string          `json:"method_id,omitempty"`
}

// TransactionSummary aggregates the fetched transaction window.
// LastTransactions is bounded by the fetch limit (10 by default), and
// TotalTransactions counts what the provider returned for that window,
// not the wallet's lifetime history.
type TransactionSummary struct {
	TotalTransactions         int           `json:"total_transactions"`
	LastTransactions          []Transaction `json:"last_transactions"`
	UniqueInteractedAddresses int           `json:"unique_interacted_addresses"`
	ContractInteractions      int           `json:"contract_interactions"`
	FailedTransactions        int           `json:"failed_transactions"`
}

// EmptyTransactionSummary returns a summary with no activity. Summaries are
// never nil; callers rely on empty collections instead.
func EmptyTransactionSummary() *TransactionSummary {
	return &TransactionSummary{LastTransactions: []Transaction{}}
}
