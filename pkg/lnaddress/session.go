package lnaddress

import (
	"context"
	"errors"
	"fmt"
)

// State is the position of a Session in the resolution flow.
type State int

const (
	StateUnresolved State = iota
	StateDiscovering
	StateResolved
	StateRequestingInvoice
	StateInvoiceReady
	StateFailed
)

var stateNames = map[State]string{
	StateUnresolved:        "unresolved",
	StateDiscovering:       "discovering",
	StateResolved:          "resolved",
	StateRequestingInvoice: "requesting_invoice",
	StateInvoiceReady:      "invoice_ready",
	StateFailed:            "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrInvalidState is returned when a Session step is called out of order.
var ErrInvalidState = errors.New("invalid session state")

// Session drives one address through discovery and any number of invoice
// requests. A Session is not safe for concurrent use; run independent
// resolutions in independent sessions.
type Session struct {
	address    string
	resolver   *Resolver
	requester  *Requester
	state      State
	descriptor *ServiceDescriptor
	invoice    *Invoice
	err        error
}

// NewSession prepares a session for address. Nothing is sent until Resolve.
func NewSession(address string, resolver *Resolver, requester *Requester) *Session {
	if resolver == nil {
		resolver = defaultResolver
	}
	if requester == nil {
		requester = defaultRequester
	}
	return &Session{address: address, resolver: resolver, requester: requester}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Err returns the error that moved the session to StateFailed.
func (s *Session) Err() error { return s.err }

// Descriptor returns the resolved descriptor, nil before StateResolved.
func (s *Session) Descriptor() *ServiceDescriptor { return s.descriptor }

// Invoice returns the last invoice received.
func (s *Session) Invoice() *Invoice { return s.invoice }

func (s *Session) fail(err error) error {
	s.state = StateFailed
	s.err = err
	return err
}

// Resolve runs discovery. It is only valid from StateUnresolved.
func (s *Session) Resolve(ctx context.Context) (*ServiceDescriptor, error) {
	if s.state != StateUnresolved {
		return nil, fmt.Errorf("%w: resolve from %s", ErrInvalidState, s.state)
	}
	s.state = StateDiscovering
	d, err := s.resolver.Resolve(ctx, s.address)
	if err != nil {
		return nil, s.fail(err)
	}
	s.descriptor = d
	s.state = StateResolved
	return d, nil
}

// RequestInvoice requests an invoice against the resolved descriptor. It may
// be called again after an invoice was received.
func (s *Session) RequestInvoice(ctx context.Context, amountMsat int64) (*Invoice, error) {
	if s.state != StateResolved && s.state != StateInvoiceReady {
		return nil, fmt.Errorf("%w: request invoice from %s", ErrInvalidState, s.state)
	}
	s.state = StateRequestingInvoice
	invoice, err := s.requester.RequestInvoice(ctx, s.descriptor, amountMsat)
	if err != nil {
		return nil, s.fail(err)
	}
	s.invoice = invoice
	s.state = StateInvoiceReady
	return invoice, nil
}
