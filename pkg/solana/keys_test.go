package solana

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyManager(t *testing.T) {
	km := NewKeyManager(t.TempDir())

	t.Run("Generate Mint Key", func(t *testing.T) {
		key := NewMintKey()
		assert.Equal(t, 64, len(key), "Private key should be 64 bytes")
		assert.NotEmpty(t, key.PublicKey().String())

		// Two generations never collide
		other := NewMintKey()
		assert.NotEqual(t, key.PublicKey(), other.PublicKey())
	})

	t.Run("Encrypt and Decrypt Private Key", func(t *testing.T) {
		key := NewMintKey()

		password := "test-password"
		encrypted, err := km.EncryptPrivateKey(key, password)
		require.NoError(t, err)
		assert.NotEmpty(t, encrypted)

		decrypted, err := km.DecryptPrivateKey(encrypted, password)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(key[:], decrypted), "Decrypted private key should match original")
	})

	t.Run("Decrypt With Wrong Password Fails", func(t *testing.T) {
		key := NewMintKey()

		encrypted, err := km.EncryptPrivateKey(key, "right-password")
		require.NoError(t, err)

		_, err = km.DecryptPrivateKey(encrypted, "wrong-password")
		assert.Error(t, err)
	})

	t.Run("Save and Load Keystore Entry", func(t *testing.T) {
		dir := t.TempDir()
		km := NewKeyManager(dir)
		key := NewMintKey()
		address := key.PublicKey().String()

		password := "test-password"
		require.NoError(t, km.SaveKeyStoreEntry(key, password))

		// The entry lands as <address>.json with restrictive permissions
		filename := filepath.Join(dir, address+".json")
		info, err := os.Stat(filename)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

		data, err := os.ReadFile(filename)
		require.NoError(t, err)
		var entry KeyStoreEntry
		require.NoError(t, json.Unmarshal(data, &entry))
		assert.Equal(t, address, entry.Address)
		assert.Equal(t, 1, entry.Version)
		assert.NotEmpty(t, entry.EncryptedKey)

		loaded, err := km.LoadKeyStoreEntry(address, password)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(key[:], loaded[:]))
	})

	t.Run("Load Missing Entry Fails", func(t *testing.T) {
		km := NewKeyManager(t.TempDir())
		_, err := km.LoadKeyStoreEntry("nonexistent", "password")
		assert.Error(t, err)
	})
}

func TestLoadWalletFromKeystore(t *testing.T) {
	dir := t.TempDir()
	km := NewKeyManager(dir)
	key := NewMintKey()
	address := key.PublicKey().String()

	password := "wallet-password"
	require.NoError(t, km.SaveKeyStoreEntry(key, password))

	wallet, err := LoadWalletFromKeystore(filepath.Join(dir, address+".json"), password)
	require.NoError(t, err)
	assert.Equal(t, address, wallet.PublicKey().String())

	_, err = LoadWalletFromKeystore(filepath.Join(dir, address+".json"), "wrong-password")
	assert.Error(t, err)
}
