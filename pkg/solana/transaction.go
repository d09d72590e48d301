package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	log "github.com/sirupsen/logrus"
)

// SendOptions control how a signed transaction is submitted and confirmed.
type SendOptions struct {
	SkipPreflight       bool
	PreflightCommitment rpc.CommitmentType
	MaxRetries          uint
	ConfirmationTimeout time.Duration
}

// DefaultSendOptions returns the submission defaults: preflight enabled at
// confirmed commitment, 3 retries delegated to the RPC node, 30s
// confirmation bound.
func DefaultSendOptions() SendOptions {
	return SendOptions{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
		MaxRetries:          3,
		ConfirmationTimeout: 30 * time.Second,
	}
}

// DeserializeTransaction decodes a binary-encoded transaction envelope.
// The payload is not inspected beyond what decoding requires.
func DeserializeTransaction(data []byte) (*solana.Transaction, error) {
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(data))
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize transaction: %w", err)
	}
	return tx, nil
}

// RPCBroadcaster submits transactions to a Solana RPC endpoint and waits
// for confirmation by polling signature statuses.
type RPCBroadcaster struct {
	client       *rpc.Client
	pollInterval time.Duration
}

// NewRPCBroadcaster creates a broadcaster over the given RPC client
func NewRPCBroadcaster(client *rpc.Client) *RPCBroadcaster {
	return &RPCBroadcaster{
		client:       client,
		pollInterval: 2 * time.Second,
	}
}

// SendTransaction submits a fully-signed transaction. The returned
// signature only means the network accepted the transaction for
// processing, not that it confirmed.
func (b *RPCBroadcaster) SendTransaction(ctx context.Context, tx *solana.Transaction, opts SendOptions) (string, error) {
	maxRetries := opts.MaxRetries
	sig, err := b.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       opts.SkipPreflight,
		PreflightCommitment: opts.PreflightCommitment,
		MaxRetries:          &maxRetries,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig.String(), nil
}

// ConfirmTransaction blocks until the signature reaches confirmed
// commitment, the transaction errors on-chain, or ctx is done.
func (b *RPCBroadcaster) ConfirmTransaction(ctx context.Context, signature string) error {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return fmt.Errorf("invalid signature format: %w", err)
	}

	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for {
		res, err := b.client.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			log.Warnf("Failed to get signature status for %s: %v", signature, err)
		} else if len(res.Value) > 0 && res.Value[0] != nil {
			status := res.Value[0]
			if status.Err != nil {
				errJSON, _ := json.Marshal(status.Err)
				return fmt.Errorf("transaction failed on-chain: %s", string(errJSON))
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// CheckTransactionStatus reports the current status of a signature:
// "pending", "confirmed", "finalized" or "error".
func CheckTransactionStatus(client *rpc.Client, signature string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return "", fmt.Errorf("invalid signature format: %w", err)
	}

	res, err := client.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return "", fmt.Errorf("failed to get signature status: %w", err)
	}

	if len(res.Value) == 0 || res.Value[0] == nil {
		return "pending", nil
	}

	status := res.Value[0]

	if status.Err != nil {
		errJSON, _ := json.Marshal(status.Err)
		return "error", fmt.Errorf("transaction failed: %s", string(errJSON))
	}

	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusFinalized:
		return "finalized", nil
	case rpc.ConfirmationStatusConfirmed:
		return "confirmed", nil
	}

	return "pending", nil
}

// ExplorerTransactionURL returns a solscan link for a signature so users
// can verify the action independently.
func ExplorerTransactionURL(signature string) string {
	return "https://solscan.io/tx/" + signature
}
