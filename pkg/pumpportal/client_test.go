package pumpportal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTokenTransactionNormalization(t *testing.T) {
	var payload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/trade-local", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.Write([]byte{0xaa, 0xbb})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	data, err := client.CreateTokenTransaction(context.Background(), CreateTokenRequest{
		PublicKey: "CREATOR",
		TokenMetadata: TokenMetadata{
			Name:   "Foo",
			Symbol: "FOO",
			URI:    "https://ipfs.io/ipfs/meta123",
		},
		Mint: "MINT",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb}, data)

	assert.Equal(t, "create", payload["action"])
	assert.Equal(t, "CREATOR", payload["publicKey"])
	assert.Equal(t, "MINT", payload["mint"])
	assert.Equal(t, true, payload["denominatedInSol"])
	assert.Equal(t, DefaultAmount, payload["amount"])
	assert.Equal(t, DefaultSlippage, payload["slippage"])
	assert.Equal(t, DefaultPriorityFee, payload["priorityFee"])
	assert.Equal(t, DefaultPool, payload["pool"])
}

func TestCreateTokenTransactionExplicitZeroSurvives(t *testing.T) {
	var payload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &payload)
		w.Write([]byte{0x01})
	}))
	defer server.Close()

	denominated := false
	priorityFee := 0.0
	client := NewClient(server.URL)
	_, err := client.CreateTokenTransaction(context.Background(), CreateTokenRequest{
		PublicKey:        "CREATOR",
		TokenMetadata:    TokenMetadata{Name: "Foo", Symbol: "FOO", URI: "uri"},
		Mint:             "MINT",
		DenominatedInSOL: &denominated,
		PriorityFee:      &priorityFee,
	})
	require.NoError(t, err)

	assert.Equal(t, false, payload["denominatedInSol"])
	assert.Equal(t, 0.0, payload["priorityFee"])
}

func TestCreateTokenTransactionUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.CreateTokenTransaction(context.Background(), CreateTokenRequest{
		PublicKey:     "CREATOR",
		TokenMetadata: TokenMetadata{Name: "Foo", Symbol: "FOO", URI: "uri"},
		Mint:          "MINT",
	})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Equal(t, "rate limited", upstream.Body)
}

func TestCreateTokenTransactionEmptyErrorBodyFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.CreateTokenTransaction(context.Background(), CreateTokenRequest{
		PublicKey:     "CREATOR",
		TokenMetadata: TokenMetadata{Name: "Foo", Symbol: "FOO", URI: "uri"},
		Mint:          "MINT",
	})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
	assert.Equal(t, "Bad Gateway", upstream.Body)
}

func TestNewClientDefaultsBaseURL(t *testing.T) {
	client := NewClient("")
	assert.Equal(t, DefaultBaseURL, client.baseURL)

	client = NewClient("http://localhost:9999/")
	assert.Equal(t, "http://localhost:9999", client.baseURL)
}
