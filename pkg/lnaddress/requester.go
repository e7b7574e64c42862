package lnaddress

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Requester fetches invoices from a resolved pay service. It never
// retries; that is left to the caller.
type Requester struct {
	transport transport
	logger    log.FieldLogger
	decode    InvoiceDecoder
}

// NewRequester returns a Requester configured with opts.
func NewRequester(opts ...Option) *Requester {
	o := newOptions(opts)
	return &Requester{
		transport: newTransport(o.client),
		logger:    o.logger,
		decode:    o.decode,
	}
}

// callbackURL appends the amount query parameter to the callback.
func callbackURL(callback string, amountMsat int64) string {
	delim := "?"
	switch {
	case strings.HasSuffix(callback, "?"), strings.HasSuffix(callback, "&"):
		delim = ""
	case strings.Contains(callback, "?"):
		delim = "&"
	}
	return callback + delim + "amount=" + strconv.FormatInt(amountMsat, 10)
}

// RequestInvoice asks the service behind d for an invoice of amountMsat.
// The amount is checked against the advertised bounds before any request
// is sent.
func (r *Requester) RequestInvoice(ctx context.Context, d *ServiceDescriptor, amountMsat int64) (*Invoice, error) {
	if d == nil {
		return nil, violation(opRequestInvoice, "missing service descriptor", nil)
	}
	if !d.Accepts(amountMsat) {
		return nil, outOfRange(amountMsat, d.MinSendableMsat, d.MaxSendableMsat)
	}
	if err := validateCallback(d.CallbackURL); err != nil {
		return nil, violation(opRequestInvoice, "invalid callback url", err)
	}

	logger := r.logger.WithField("address", d.Address.String())
	rawurl := callbackURL(d.CallbackURL, amountMsat)
	logger.Debugf("[lnaddress] requesting invoice of %d msat from %s", amountMsat, rawurl)

	resp, err := r.transport.get(ctx, rawurl)
	if err != nil {
		logger.Warnf("[lnaddress] callback request failed: %v", err)
		return nil, transportError(opRequestInvoice, err)
	}

	invoice, err := r.newInvoice(d, amountMsat, rawurl, resp)
	if err != nil {
		logger.Warnf("[lnaddress] %v", err)
		return nil, err
	}
	logger.Debugf("[lnaddress] received invoice %s", invoice.PaymentHash)
	return invoice, nil
}

func (r *Requester) newInvoice(d *ServiceDescriptor, amountMsat int64, rawurl string, resp *response) (*Invoice, error) {
	if err := remoteError(parseLoose(resp.body), rawurl); err != nil {
		return nil, violation(opRequestInvoice, "service returned an error", err)
	}
	if !resp.ok() {
		return nil, violation(opRequestInvoice, fmt.Sprintf("unexpected status %d", resp.status), nil)
	}

	cb, err := parseCallback(resp.body)
	if err != nil {
		return nil, violation(opRequestInvoice, "invalid callback response", err)
	}

	decoded, err := r.decode(cb.PR)
	if err != nil {
		return nil, decodeError(err)
	}
	if decoded.HasAmount() && decoded.AmountMsat() != amountMsat {
		return nil, violation(opRequestInvoice, "invoice amount mismatch",
			fmt.Errorf("requested %d msat, invoice is for %d msat", amountMsat, decoded.AmountMsat()))
	}
	if decoded.DescriptionHash != "" {
		hash := sha256.Sum256([]byte(d.Metadata))
		if !strings.EqualFold(decoded.DescriptionHash, hex.EncodeToString(hash[:])) {
			return nil, violation(opRequestInvoice, "invoice description hash does not match metadata", nil)
		}
	}

	return &Invoice{
		Invoice:       *decoded,
		SuccessAction: cb.SuccessAction,
		Verify:        cb.Verify,
	}, nil
}
