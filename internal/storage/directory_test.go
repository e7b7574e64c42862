package storage

import (
	"path/filepath"
	"testing"

	"github.com/LightningTipBot/lnaddress/internal/lnbits"
	"github.com/stretchr/testify/require"
)

func TestDirectory(t *testing.T) {
	d, err := NewDirectory(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)

	_, err = d.FindUser("alice")
	require.Error(t, err)

	alice := &lnbits.User{Name: "Alice", Initialized: true, Wallet: &lnbits.Wallet{ID: "w1", Inkey: "inkey"}}
	require.NoError(t, d.SaveUser(alice))
	require.Equal(t, "alice", alice.Name)

	got, err := d.FindUser("ALICE")
	require.NoError(t, err)
	require.True(t, got.Initialized)
	require.NotNil(t, got.Wallet)
	require.Equal(t, "w1", got.Wallet.ID)
	require.Equal(t, "inkey", got.Wallet.Inkey)

	alice.Wallet.Inkey = "rotated"
	require.NoError(t, d.SaveUser(alice))
	got, err = d.FindUser("alice")
	require.NoError(t, err)
	require.Equal(t, "rotated", got.Wallet.Inkey)
}
