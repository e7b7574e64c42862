/*
Package lnaddress resolves Lightning Addresses (user@domain) into BOLT11
invoices using the LNURL-pay protocol (LUD-06, LUD-16).

Resolution is two-phased. A Resolver fetches
https://domain/.well-known/lnurlp/user and validates it into a
ServiceDescriptor. A Requester then calls the descriptor's callback with an
amount and returns the decoded Invoice. One descriptor may back any number
of invoice requests.

	descriptor, err := lnaddress.Resolve(ctx, "alice@example.com")
	if err != nil {
		return err
	}
	invoice, err := lnaddress.RequestInvoice(ctx, descriptor, 21000)

Every failure is an *Error whose kind can be tested with errors.Is against
ErrMalformedAddress, ErrTransport, ErrProtocolViolation, ErrAmountOutOfRange
and ErrInvoiceDecode. Nothing is cached and nothing is retried. Timeouts
come from the context.
*/
package lnaddress

import (
	"context"
)

var (
	defaultResolver  = NewResolver()
	defaultRequester = NewRequester()
)

// Resolve parses address and discovers its pay service with default options.
func Resolve(ctx context.Context, address string) (*ServiceDescriptor, error) {
	return defaultResolver.Resolve(ctx, address)
}

// RequestInvoice requests an invoice of amountMsat with default options.
func RequestInvoice(ctx context.Context, d *ServiceDescriptor, amountMsat int64) (*Invoice, error) {
	return defaultRequester.RequestInvoice(ctx, d, amountMsat)
}
