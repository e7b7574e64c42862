package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDB_Invoices(t *testing.T) {
	db, err := NewBunt(":memory:")
	require.NoError(t, err)
	defer db.Close()

	records := []InvoiceRecord{
		{PaymentHash: "bb", Address: "bob@example.com", AmountMsat: 2000, CreatedAt: 200},
		{PaymentHash: "aa", Address: "alice@example.com", AmountMsat: 1000, CreatedAt: 100},
		{PaymentHash: "cc", Address: "alice@example.com", AmountMsat: 3000, CreatedAt: 300},
	}
	for _, r := range records {
		require.NoError(t, db.Set(r))
	}

	all, err := db.Invoices("")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{"aa", "bb", "cc"}, []string{all[0].PaymentHash, all[1].PaymentHash, all[2].PaymentHash})

	alice, err := db.Invoices("alice@example.com")
	require.NoError(t, err)
	require.Len(t, alice, 2)
	require.Equal(t, int64(3000), alice[1].AmountMsat)
}

func TestDB_GetExistsDelete(t *testing.T) {
	db, err := NewBunt(":memory:")
	require.NoError(t, err)
	defer db.Close()

	r := InvoiceRecord{PaymentHash: "aa", Address: "alice@example.com", AmountMsat: 1000, CreatedAt: 1}
	ok, err := db.Exists(r)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, db.Set(r))
	ok, err = db.Exists(r)
	require.NoError(t, err)
	require.True(t, ok)

	got := &InvoiceRecord{PaymentHash: "aa"}
	require.NoError(t, db.Get(got))
	require.Equal(t, r, *got)
	require.Equal(t, int64(1), got.Created().UnixNano()/1e6)

	require.NoError(t, db.Delete(r))
	require.NoError(t, db.Delete(r))
	ok, err = db.Exists(r)
	require.NoError(t, err)
	require.False(t, ok)
}
