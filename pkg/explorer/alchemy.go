package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/etherscope-bot/pkg/models"
)

// Alchemy is the JSON-RPC provider: POST {jsonrpc,id,method,params} with
// hex-encoded numeric results; an error field denotes failure.
type Alchemy struct {
	t       *transport
	baseURL string
	apiKey  string
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

func (a *Alchemy) endpoint() string {
	return a.baseURL + "/" + a.apiKey
}

func (a *Alchemy) call(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	var resp rpcResponse
	err := a.t.postJSON(ctx, a.endpoint(), rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, &UpstreamError{Msg: fmt.Sprintf("alchemy error: %s", resp.Error.Message)}
	}
	return resp.Result, nil
}

func (a *Alchemy) GetBalance(ctx context.Context, address string) (string, error) {
	log.Info().Str("address", address).Msg("fetching ETH balance")

	raw, err := a.call(ctx, "eth_getBalance", []interface{}{address, "latest"})
	if err != nil {
		return "", err
	}
	var hexBalance string
	if err := json.Unmarshal(raw, &hexBalance); err != nil {
		return "", &UpstreamError{Msg: "malformed provider response", Err: err}
	}
	return hexToDecimal(hexBalance), nil
}

// GetTokens is not implemented for the JSON-RPC backend; it reports an
// empty summary rather than failing.
func (a *Alchemy) GetTokens(ctx context.Context, address string) (*models.TokenSummary, error) {
	log.Info().Str("address", address).Msg("alchemy token fetching not implemented, returning empty summary")
	return models.EmptyTokenSummary(), nil
}

// GetTransactions is not implemented for the JSON-RPC backend; it reports
// an empty summary rather than failing.
func (a *Alchemy) GetTransactions(ctx context.Context, address string, limit int) (*models.TransactionSummary, error) {
	log.Info().Str("address", address).Msg("alchemy transaction fetching not implemented, returning empty summary")
	return models.EmptyTransactionSummary(), nil
}

// hexToDecimal converts an 0x-prefixed hex quantity to a decimal string.
// Unparseable input formats as "0".
func hexToDecimal(hex string) string {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "0x")
	if s == "" {
		return "0"
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return "0"
	}
	return n.String()
}
