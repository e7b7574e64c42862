package lnaddress

import (
	"errors"
	"fmt"
)

// Failure kinds. Use errors.Is to tell them apart.
var (
	ErrMalformedAddress  = errors.New("malformed lightning address")
	ErrTransport         = errors.New("transport error")
	ErrProtocolViolation = errors.New("protocol violation")
	ErrAmountOutOfRange  = errors.New("amount out of range")
	ErrInvoiceDecode     = errors.New("invoice decode error")
)

// Error is returned by every operation of this package.
type Error struct {
	// Kind is one of the Err* sentinels above.
	Kind error
	// Op is the failing operation: parse, discover or request_invoice.
	Op string
	// Reason is a short human readable diagnostic.
	Reason string
	// Err is the underlying cause, if any.
	Err error

	// Min, Max and Amount are only set for ErrAmountOutOfRange.
	Min, Max, Amount int64
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("lnaddress: %s: %v", e.Op, e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the failure kind, so errors.Is(err, ErrTransport) works
// while errors.Unwrap still yields the cause.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func malformed(reason string) error {
	return &Error{Kind: ErrMalformedAddress, Op: "parse", Reason: reason}
}

func transportError(op string, err error) error {
	return &Error{Kind: ErrTransport, Op: op, Err: err}
}

func violation(op, reason string, err error) error {
	return &Error{Kind: ErrProtocolViolation, Op: op, Reason: reason, Err: err}
}

func outOfRange(amount, min, max int64) error {
	return &Error{
		Kind:   ErrAmountOutOfRange,
		Op:     opRequestInvoice,
		Reason: fmt.Sprintf("%d msat not in [%d, %d]", amount, min, max),
		Min:    min,
		Max:    max,
		Amount: amount,
	}
}

func decodeError(err error) error {
	return &Error{Kind: ErrInvoiceDecode, Op: opRequestInvoice, Err: err}
}
