package lightning

import (
	"errors"
	"fmt"
	"strings"

	decodepay "github.com/fiatjaf/ln-decodepay"
)

const uriPrefix = "lightning:"

// invoice prefixes for mainnet, testnet, signet and regtest
var invoicePrefixes = []string{"lnbc", "lntb", "lntbs", "lnbcrt", "lnsb"}

// ErrEmptyInvoice is returned when decoding an empty payment request.
var ErrEmptyInvoice = errors.New("empty payment request")

// Invoice is a decoded and signature-checked BOLT11 payment request.
type Invoice struct {
	decodepay.Bolt11
	// PaymentRequest is the normalized text the invoice was decoded from.
	PaymentRequest string `json:"payment_request"`
}

// AmountMsat returns the invoice amount in millisatoshi, 0 if the invoice has none.
func (i Invoice) AmountMsat() int64 {
	return i.MSatoshi
}

// HasAmount reports whether the invoice specifies an amount.
func (i Invoice) HasAmount() bool {
	return i.MSatoshi > 0
}

// Normalize lowercases a payment request and strips the lightning: URI prefix.
func Normalize(paymentRequest string) string {
	paymentRequest = strings.ToLower(strings.TrimSpace(paymentRequest))
	return strings.TrimPrefix(paymentRequest, uriPrefix)
}

// IsInvoice is used to check if a string matches a BOLT11 invoice pattern.
func IsInvoice(invoice string) bool {
	invoice = Normalize(invoice)
	// invoice string must be a single word
	if invoice == "" || strings.ContainsAny(invoice, " \t\n") {
		return false
	}
	for _, prefix := range invoicePrefixes {
		if strings.HasPrefix(invoice, prefix) {
			return true
		}
	}
	return false
}

// Decode parses a BOLT11 payment request. Checksum and signature are
// verified by the codec; any failure is returned wrapped.
func Decode(paymentRequest string) (*Invoice, error) {
	pr := Normalize(paymentRequest)
	if pr == "" {
		return nil, ErrEmptyInvoice
	}
	bolt11, err := decodepay.Decodepay(pr)
	if err != nil {
		return nil, fmt.Errorf("could not decode invoice: %w", err)
	}
	return &Invoice{Bolt11: bolt11, PaymentRequest: pr}, nil
}
