package main

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/LightningTipBot/lnaddress/internal/storage"
	"github.com/LightningTipBot/lnaddress/pkg/lnaddress"
	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/require"
)

const testInvoice = "lnbc2500u1pvjluezpp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqypqdq5xysxxatsyp3k7enxv4jsxqzpuaztrnwngzn3kdzw5hydlzf03qdgm2hdq27cqv3agm2awhz5se903vruatfhq77w3ls4evs3ch9zw97j25emudupq63nyw24cg27h2rspfj9srp"

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := ioutil.WriteFile(path, []byte(`
log_level: debug
server:
  public_url: https://pay.example.com/
  lnbits:
    url: http://127.0.0.1:5000
  recipients:
    - name: Alice
      wallet_id: w1
      inkey: inkey1
`), 0600)
	require.NoError(t, err)

	require.NoError(t, loadConfig(path))
	require.Equal(t, "debug", Configuration.LogLevel)
	require.Equal(t, int64(30), Configuration.TimeoutSeconds)
	require.Equal(t, "history.db", Configuration.HistoryPath)
	require.Equal(t, "0.0.0.0:5454", Configuration.Server.Listen)
	require.Len(t, Configuration.Server.Recipients, 1)
	require.Equal(t, "inkey1", Configuration.Server.Recipients[0].Inkey)
	require.NoError(t, setLogger())

	require.NoError(t, checkServerConfiguration())
	require.Equal(t, "pay.example.com", Configuration.Server.PublicUrlUrl.Host)

	directory, err := storage.NewDirectory(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	require.NoError(t, seedRecipients(directory, Configuration.Server.Recipients))
	user, err := directory.FindUser("alice")
	require.NoError(t, err)
	require.True(t, user.Initialized)
	require.Equal(t, "w1", user.Wallet.ID)

	require.Error(t, seedRecipients(directory, []RecipientConfiguration{{Name: "bob"}}))
}

func TestClassifyPayload(t *testing.T) {
	tests := []struct {
		payload string
		want    payloadKind
	}{
		{payload: testInvoice, want: payloadInvoice},
		{payload: "lightning:" + testInvoice, want: payloadInvoice},
		{payload: "LNURL1DP68GURN8GHJ7UM9WFMXJCM99E3K7MF0V9CXJ0M385EKVCENXC6R2C35XVUKXEFCV5MKVV34X5EKZD3EV56NYD3HXQURZEPEXEJXXEPNXSCRVWFNV9NXZCN9XQ6XYEFHVGCXXCMYXYMNSERXFQ5FNS", want: payloadLNURL},
		{payload: "alice@example.com", want: payloadAddress},
		{payload: "lightning:alice@example.com", want: payloadAddress},
		{payload: "https://example.com", want: payloadUnknown},
		{payload: "", want: payloadUnknown},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, classifyPayload(tt.payload), tt.payload)
	}
}

func TestTryRecognizeQrCode(t *testing.T) {
	for _, payload := range []string{"alice@example.com", testInvoice} {
		qr, err := qrcode.New(payload, qrcode.Medium)
		require.NoError(t, err)
		got, err := TryRecognizeQrCode(qr.Image(512))
		require.NoError(t, err)
		require.Equal(t, payload, got)
	}
}

func TestInvoiceHistory(t *testing.T) {
	db, err := storage.NewBunt(":memory:")
	require.NoError(t, err)
	defer db.Close()

	d := &lnaddress.ServiceDescriptor{
		Address:  lnaddress.Address{Username: "alice", Domain: "example.com"},
		Metadata: `[["text/plain","pay alice"]]`,
	}
	invoice := &lnaddress.Invoice{}
	invoice.PaymentHash = "aa"
	invoice.PaymentRequest = testInvoice

	saved, err := saveInvoice(db, d, invoice, 5000, time.Unix(100, 0))
	require.NoError(t, err)
	require.True(t, saved)
	saved, err = saveInvoice(db, d, invoice, 5000, time.Unix(200, 0))
	require.NoError(t, err)
	require.False(t, saved)

	r, err := findInvoice(db, "aa")
	require.NoError(t, err)
	require.Equal(t, testInvoice, r.PaymentRequest)
	require.Equal(t, "alice@example.com", r.Address)
	require.Equal(t, "pay alice", r.Description)
	require.Equal(t, int64(100000), r.CreatedAt)

	require.NoError(t, deleteInvoice(db, "aa"))
	require.Error(t, deleteInvoice(db, "aa"))
	_, err = findInvoice(db, "aa")
	require.Error(t, err)
}
