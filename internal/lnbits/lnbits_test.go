package lnbits

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Invoice(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/payments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "inkey", r.Header.Get("X-Api-Key"))
		var params InvoiceParams
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		if params.Amount <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"amount must be positive"}`))
			return
		}
		assert.False(t, params.Out)
		assert.Equal(t, "abcd", params.DescriptionHash)
		_, _ = w.Write([]byte(`{"payment_hash":"ff","payment_request":"lnbc1test"}`))
	}).Methods(http.MethodPost)
	srv := httptest.NewServer(router)
	defer srv.Close()

	c := NewClient(srv.URL+"/", srv.Client())
	wallet := Wallet{ID: "w1", Inkey: "inkey"}

	inv, err := c.Invoice(context.Background(), InvoiceParams{Amount: 5, DescriptionHash: "abcd", Out: true}, wallet)
	require.NoError(t, err)
	require.Equal(t, BitInvoice{PaymentHash: "ff", PaymentRequest: "lnbc1test"}, inv)

	_, err = c.Invoice(context.Background(), InvoiceParams{Amount: 0}, wallet)
	require.EqualError(t, err, "amount must be positive")
}

func TestWebhookHandler(t *testing.T) {
	var got []Webhook
	handler := WebhookHandler(func(w Webhook) { got = append(got, w) })

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"payment_hash":"ff","amount":21000,"wallet_id":"w1"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`not json`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	require.Len(t, got, 1)
	require.Equal(t, 21000, got[0].Amount)
	require.Equal(t, "w1", got[0].WalletID)
}
