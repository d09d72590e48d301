package pumpportal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public trade-construction API endpoint
	DefaultBaseURL = "https://pumpportal.fun"

	// DefaultPool is the launch venue used when the caller does not pick one
	DefaultPool = "pump"
)

// Creation defaults applied when the caller leaves a field unset
const (
	DefaultAmount      = 1.0
	DefaultSlippage    = 10.0
	DefaultPriorityFee = 0.0005
)

// TokenMetadata identifies the token being created. URI must point to
// previously uploaded, immutable metadata.
type TokenMetadata struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

// CreateTokenRequest describes a token creation intent. Optional fields
// are pointers so an explicit zero can be told apart from "use default".
type CreateTokenRequest struct {
	PublicKey        string        `json:"publicKey"`
	TokenMetadata    TokenMetadata `json:"tokenMetadata"`
	Mint             string        `json:"mint"`
	DenominatedInSOL *bool         `json:"denominatedInSol,omitempty"`
	Amount           *float64      `json:"amount,omitempty"`
	Slippage         *float64      `json:"slippage,omitempty"`
	PriorityFee      *float64      `json:"priorityFee,omitempty"`
	Pool             string        `json:"pool,omitempty"`
}

// createTokenPayload is the normalized wire format sent upstream
type createTokenPayload struct {
	PublicKey        string        `json:"publicKey"`
	Action           string        `json:"action"`
	TokenMetadata    TokenMetadata `json:"tokenMetadata"`
	Mint             string        `json:"mint"`
	DenominatedInSOL bool          `json:"denominatedInSol"`
	Amount           float64       `json:"amount"`
	Slippage         float64       `json:"slippage"`
	PriorityFee      float64       `json:"priorityFee"`
	Pool             string        `json:"pool"`
}

// UpstreamError carries a non-success response from the trade API.
// Body is never empty: it falls back to the status reason phrase.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error %d: %s", e.StatusCode, e.Body)
}

// Client is a trade-construction API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a trade-construction API client. An empty baseURL
// selects the public endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// normalize fills in defaults for every unset optional field
func normalize(req CreateTokenRequest) createTokenPayload {
	payload := createTokenPayload{
		PublicKey:        req.PublicKey,
		Action:           "create",
		TokenMetadata:    req.TokenMetadata,
		Mint:             req.Mint,
		DenominatedInSOL: true,
		Amount:           DefaultAmount,
		Slippage:         DefaultSlippage,
		PriorityFee:      DefaultPriorityFee,
		Pool:             DefaultPool,
	}
	if req.DenominatedInSOL != nil {
		payload.DenominatedInSOL = *req.DenominatedInSOL
	}
	if req.Amount != nil {
		payload.Amount = *req.Amount
	}
	if req.Slippage != nil {
		payload.Slippage = *req.Slippage
	}
	if req.PriorityFee != nil {
		payload.PriorityFee = *req.PriorityFee
	}
	if req.Pool != "" {
		payload.Pool = req.Pool
	}
	return payload
}

// CreateTokenTransaction requests an unsigned create transaction for the
// given intent and returns the raw binary payload unchanged. A non-2xx
// upstream response is returned as *UpstreamError.
func (c *Client) CreateTokenTransaction(ctx context.Context, req CreateTokenRequest) ([]byte, error) {
	body, err := json.Marshal(normalize(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/trade-local", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call trade API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errText, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(errText))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: msg}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}
