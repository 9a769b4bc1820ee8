package explorer

import (
	"context"
	"math/big"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/etherscope-bot/pkg/models"
)

// Etherscan is the query-parameter provider: every call returns a JSON
// envelope with a status flag, a message and a result payload.
type Etherscan struct {
	t       *transport
	baseURL string
	apiKey  string
}

type etherscanEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

type etherscanListEnvelope struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Result  []etherscanRow `json:"result"`
}

// etherscanRow covers both txlist and tokentx rows; unknown fields decode
// to their zero values.
type etherscanRow struct {
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"`
	GasPrice        string `json:"gasPrice"`
	Gas             string `json:"gas"`
	TimeStamp       string `json:"timeStamp"`
	BlockNumber     string `json:"blockNumber"`
	IsError         string `json:"isError"`
	Input           string `json:"input"`
	ContractAddress string `json:"contractAddress"`
	TokenName       string `json:"tokenName"`
	TokenSymbol     string `json:"tokenSymbol"`
	TokenDecimal    string `json:"tokenDecimal"`
}

func (e *Etherscan) accountURL(action, address string, extra url.Values) string {
	q := url.Values{}
	q.Set("module", "account")
	q.Set("action", action)
	q.Set("address", address)
	q.Set("apikey", e.apiKey)
	for k, vs := range extra {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	return e.baseURL + "?" + q.Encode()
}

func (e *Etherscan) GetBalance(ctx context.Context, address string) (string, error) {
	log.Info().Str("address", address).Msg("fetching ETH balance")

	var env etherscanEnvelope
	if err := e.t.getJSON(ctx, e.accountURL("balance", address, nil), &env); err != nil {
		return "", err
	}
	if env.Status != "1" {
		msg := env.Message
		if msg == "" {
			msg = "unknown error"
		}
		return "", &UpstreamError{Msg: "etherscan error: " + msg}
	}
	if env.Result == "" {
		return "0", nil
	}
	return env.Result, nil
}

func (e *Etherscan) GetTokens(ctx context.Context, address string) (*models.TokenSummary, error) {
	log.Info().Str("address", address).Msg("fetching ERC20 tokens")

	extra := url.Values{}
	extra.Set("page", "1")
	extra.Set("offset", "10000")
	extra.Set("sort", "desc")

	var env etherscanListEnvelope
	if err := e.t.getJSON(ctx, e.accountURL("tokentx", address, extra), &env); err != nil {
		return nil, err
	}
	if env.Status != "1" || len(env.Result) == 0 {
		return models.EmptyTokenSummary(), nil
	}

	// First transfer per contract wins (results are newest-first); its value
	// stands in for the balance. A real balance would need per-token calls.
	seen := map[string]models.Token{}
	var order []string
	for _, row := range env.Result {
		contract := strings.ToLower(row.ContractAddress)
		if contract == "" {
			continue
		}
		if _, ok := seen[contract]; ok {
			continue
		}
		decimals := 18
		if d, err := strconv.Atoi(row.TokenDecimal); err == nil {
			decimals = d
		}
		name := row.TokenName
		if name == "" {
			name = "Unknown"
		}
		symbol := row.TokenSymbol
		if symbol == "" {
			symbol = "???"
		}
		value := row.Value
		if value == "" {
			value = "0"
		}
		seen[contract] = models.Token{
			ContractAddress: contract,
			Name:            name,
			Symbol:          symbol,
			Decimals:        decimals,
			Balance:         value,
			BalanceDisplay:  FormatUnits(value, decimals),
		}
		order = append(order, contract)
	}

	tokens := make([]models.Token, 0, len(order))
	for _, c := range order {
		tokens = append(tokens, seen[c])
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		return rawBalance(tokens[i].Balance).Cmp(rawBalance(tokens[j].Balance)) > 0
	})
	if len(tokens) > 10 {
		tokens = tokens[:10]
	}

	return &models.TokenSummary{TopTokens: tokens, TotalTokensHeld: len(seen)}, nil
}

func (e *Etherscan) GetTransactions(ctx context.Context, address string, limit int) (*models.TransactionSummary, error) {
	log.Info().Str("address", address).Int("limit", limit).Msg("fetching transactions")

	extra := url.Values{}
	extra.Set("page", "1")
	extra.Set("offset", strconv.Itoa(limit))
	extra.Set("sort", "desc")

	var env etherscanListEnvelope
	if err := e.t.getJSON(ctx, e.accountURL("txlist", address, extra), &env); err != nil {
		return nil, err
	}
	if env.Status != "1" || len(env.Result) == 0 {
		return models.EmptyTransactionSummary(), nil
	}

	rows := env.Result
	total := len(rows)
	if len(rows) > limit {
		rows = rows[:limit]
	}

	unique := map[string]bool{}
	contractInteractions := 0
	failed := 0
	txs := make([]models.Transaction, 0, len(rows))

	for _, row := range rows {
		from := strings.ToLower(row.From)
		to := strings.ToLower(row.To)
		if to != "" {
			unique[to] = true
		}
		if from != "" {
			unique[from] = true
		}

		input := row.Input
		if input == "" {
			input = "0x"
		}
		if input != "0x" {
			contractInteractions++
		}

		isError := row.IsError == "1"
		if isError {
			failed++
		}

		txType := models.TxContractInteraction
		if to == address {
			txType = models.TxReceive
		} else if input == "0x" {
			txType = models.TxSend
		}

		methodID := ""
		if input != "0x" && len(input) >= 10 {
			methodID = input[:10]
		}

		value := row.Value
		if value == "" {
			value = "0"
		}
		ts, _ := strconv.ParseInt(row.TimeStamp, 10, 64)
		block, _ := strconv.ParseInt(row.BlockNumber, 10, 64)

		txs = append(txs, models.Transaction{
			Hash:         row.Hash,
			FromAddress:  from,
			ToAddress:    to,
			Value:        value,
			ValueDisplay: FormatWei(value),
			GasPrice:     orZero(row.GasPrice),
			GasUsed:      orZero(row.Gas),
			Timestamp:    time.Unix(ts, 0).UTC(),
			BlockNumber:  block,
			IsError:      isError,
			Type:         txType,
			MethodID:     methodID,
		})
	}

	// The queried address does not count as its own counterpart.
	delete(unique, address)

	return &models.TransactionSummary{
		TotalTransactions:         total,
		LastTransactions:          txs,
		UniqueInteractedAddresses: len(unique),
		ContractInteractions:      contractInteractions,
		FailedTransactions:        failed,
	}, nil
}

func rawBalance(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return big.NewInt(0)
	}
	return n
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
