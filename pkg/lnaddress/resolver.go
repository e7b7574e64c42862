package lnaddress

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

const (
	opDiscover       = "discover"
	opRequestInvoice = "request_invoice"
)

// Resolver turns Lightning Addresses into ServiceDescriptors. It keeps no
// state between calls and is safe for concurrent use.
type Resolver struct {
	transport transport
	logger    log.FieldLogger
}

// NewResolver returns a Resolver configured with opts.
func NewResolver(opts ...Option) *Resolver {
	o := newOptions(opts)
	return &Resolver{
		transport: newTransport(o.client),
		logger:    o.logger,
	}
}

// Resolve parses address and discovers its pay service.
func (r *Resolver) Resolve(ctx context.Context, address string) (*ServiceDescriptor, error) {
	a, err := Parse(address)
	if err != nil {
		return nil, err
	}
	return r.Discover(ctx, a)
}

// Discover fetches the well-known document of a and validates it. The
// descriptor is returned only if every check passed.
func (r *Resolver) Discover(ctx context.Context, a Address) (*ServiceDescriptor, error) {
	logger := r.logger.WithField("address", a.String())
	rawurl := a.URL()
	logger.Debugf("[lnaddress] discovering %s", rawurl)

	resp, err := r.transport.get(ctx, rawurl)
	if err != nil {
		logger.Warnf("[lnaddress] discovery request failed: %v", err)
		return nil, transportError(opDiscover, err)
	}

	descriptor, err := newDescriptor(a, rawurl, resp)
	if err != nil {
		logger.Warnf("[lnaddress] %v", err)
		return nil, err
	}
	logger.Debugf("[lnaddress] resolved callback %s (%d-%d msat)",
		descriptor.CallbackURL, descriptor.MinSendableMsat, descriptor.MaxSendableMsat)
	return descriptor, nil
}

func newDescriptor(a Address, rawurl string, resp *response) (*ServiceDescriptor, error) {
	if err := remoteError(parseLoose(resp.body), rawurl); err != nil {
		return nil, violation(opDiscover, "service returned an error", err)
	}
	if !resp.ok() {
		return nil, violation(opDiscover, fmt.Sprintf("unexpected status %d", resp.status), nil)
	}

	wk, err := parseWellKnown(resp.body)
	if err != nil {
		return nil, violation(opDiscover, "invalid discovery response", err)
	}
	if wk.Tag != payRequestTag {
		return nil, violation(opDiscover, fmt.Sprintf("unexpected tag %q", wk.Tag), nil)
	}
	callback := normalizeCallback(wk.Callback)
	if err := validateCallback(callback); err != nil {
		return nil, violation(opDiscover, "invalid callback url", err)
	}
	if err := validateMetadata(wk.Metadata); err != nil {
		return nil, violation(opDiscover, "invalid metadata", err)
	}
	if wk.MinSendable < 0 || wk.MinSendable > wk.MaxSendable {
		return nil, violation(opDiscover, "invalid sendable range",
			fmt.Errorf("minSendable %d, maxSendable %d", wk.MinSendable, wk.MaxSendable))
	}

	descriptor := &ServiceDescriptor{
		Address:         a,
		CallbackURL:     callback,
		MinSendableMsat: wk.MinSendable,
		MaxSendableMsat: wk.MaxSendable,
		Metadata:        wk.Metadata,
		AllowsComments:  wk.CommentAllowed > 0,
		CommentAllowed:  wk.CommentAllowed,
		PayerData:       wk.PayerData,
	}
	if wk.AllowsNostr && wk.NostrPubkey != "" {
		descriptor.NostrPubkey = wk.NostrPubkey
	}
	return descriptor, nil
}
