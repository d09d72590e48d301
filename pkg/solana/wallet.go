package solana

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Wallet is a signing capability. It can countersign a transaction it
// did not originate; the holder of the capability decides whether to sign.
type Wallet interface {
	PublicKey() solana.PublicKey
	SignTransaction(tx *solana.Transaction) error
}

// LocalWallet is a Wallet backed by an in-process private key, used for
// server-managed creator accounts.
type LocalWallet struct {
	key solana.PrivateKey
}

// NewLocalWallet wraps a private key as a Wallet
func NewLocalWallet(key solana.PrivateKey) *LocalWallet {
	return &LocalWallet{key: key}
}

func (w *LocalWallet) PublicKey() solana.PublicKey {
	return w.key.PublicKey()
}

// SignTransaction applies this wallet's signature to the transaction,
// leaving other required signatures untouched.
func (w *LocalWallet) SignTransaction(tx *solana.Transaction) error {
	pub := w.key.PublicKey()
	if _, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(pub) {
			return &w.key
		}
		return nil
	}); err != nil {
		return fmt.Errorf("wallet signing failed: %w", err)
	}
	return nil
}
