package solana

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoSignerTransaction builds a transaction requiring both the payer and
// a second account to sign.
func twoSignerTransaction(t *testing.T, payer, second solana.PublicKey) *solana.Transaction {
	t.Helper()
	inst := solana.NewInstruction(
		solana.SystemProgramID,
		solana.AccountMetaSlice{
			solana.NewAccountMeta(payer, true, true),
			solana.NewAccountMeta(second, true, true),
		},
		[]byte{0x01},
	)
	tx, err := solana.NewTransaction([]solana.Instruction{inst}, solana.Hash{}, solana.TransactionPayer(payer))
	require.NoError(t, err)
	return tx
}

func TestLocalWalletSignTransaction(t *testing.T) {
	walletKey, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	otherKey, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	wallet := NewLocalWallet(walletKey)
	assert.Equal(t, walletKey.PublicKey(), wallet.PublicKey())

	tx := twoSignerTransaction(t, walletKey.PublicKey(), otherKey.PublicKey())
	require.NoError(t, wallet.SignTransaction(tx))

	// The wallet fills only its own signature slot
	require.Len(t, tx.Signatures, 2)
	assert.False(t, tx.Signatures[0].IsZero())
	assert.True(t, tx.Signatures[1].IsZero())

	msg, err := tx.Message.MarshalBinary()
	require.NoError(t, err)
	assert.True(t, tx.Signatures[0].Verify(walletKey.PublicKey(), msg))
}

func TestDeserializeTransactionRoundTrip(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	other, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	tx := twoSignerTransaction(t, key.PublicKey(), other.PublicKey())
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)

	decoded, err := DeserializeTransaction(raw)
	require.NoError(t, err)
	assert.Equal(t, tx.Message.AccountKeys, decoded.Message.AccountKeys)
}

func TestDeserializeTransactionRejectsGarbage(t *testing.T) {
	_, err := DeserializeTransaction([]byte{0xff, 0xfe, 0xfd})
	assert.Error(t, err)
}

func TestExplorerTransactionURL(t *testing.T) {
	assert.Equal(t, "https://solscan.io/tx/SIG1", ExplorerTransactionURL("SIG1"))
}
