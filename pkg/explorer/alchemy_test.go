package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAlchemy(serverURL string) *Alchemy {
	return &Alchemy{
		t: &transport{
			hc:         &http.Client{Timeout: 5 * time.Second},
			limiter:    NewRateLimiter(1000),
			maxRetries: 3,
			retryDelay: time.Millisecond,
		},
		baseURL: serverURL,
		apiKey:  "test-key",
	}
}

func TestAlchemyGetBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-key", r.URL.Path)
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "eth_getBalance", req.Method)
		require.Len(t, req.Params, 2)
		assert.Equal(t, testAddr, req.Params[0])
		assert.Equal(t, "latest", req.Params[1])
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":"0xde0b6b3a7640000"}`)
	}))
	defer srv.Close()

	bal, err := newTestAlchemy(srv.URL).GetBalance(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", bal)
}

func TestAlchemyGetBalanceRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid params"}}`)
	}))
	defer srv.Close()

	_, err := newTestAlchemy(srv.URL).GetBalance(context.Background(), testAddr)
	require.Error(t, err)
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Contains(t, upstream.Msg, "invalid params")
}

func TestAlchemyStubSummaries(t *testing.T) {
	a := newTestAlchemy("http://unused")

	tokens, err := a.GetTokens(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Equal(t, 0, tokens.TotalTokensHeld)
	assert.Empty(t, tokens.TopTokens)

	txs, err := a.GetTransactions(context.Background(), testAddr, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, txs.TotalTransactions)
	assert.Empty(t, txs.LastTransactions)
}

func TestHexToDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0xde0b6b3a7640000", "1000000000000000000"},
		{"0x0", "0"},
		{"0x", "0"},
		{"", "0"},
		{"0xzz", "0"},
		{"0xff", "255"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, hexToDecimal(tc.in), "input %q", tc.in)
	}
}
