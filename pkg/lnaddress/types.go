package lnaddress

import (
	"encoding/json"

	"github.com/LightningTipBot/lnaddress/pkg/lightning"
	"github.com/fiatjaf/go-lnurl"
)

const (
	payRequestTag = "payRequest"
	statusError   = "ERROR"
)

// PayerDataDetails tells whether a payer data field is required.
type PayerDataDetails struct {
	Mandatory bool `json:"mandatory"`
}

// PayerData lists the payer identity fields a service accepts (LUD-18).
// Submitting them is not supported, only their presence is reported.
type PayerData struct {
	Name   *PayerDataDetails `json:"name,omitempty"`
	Email  *PayerDataDetails `json:"email,omitempty"`
	Pubkey *PayerDataDetails `json:"pubkey,omitempty"`
}

// WellKnownResponse is the raw discovery payload.
type WellKnownResponse struct {
	Status         string     `json:"status,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	Tag            string     `json:"tag"`
	CommentAllowed uint32     `json:"commentAllowed"`
	Callback       string     `json:"callback"`
	Metadata       string     `json:"metadata"`
	MinSendable    int64      `json:"minSendable"`
	MaxSendable    int64      `json:"maxSendable"`
	PayerData      *PayerData `json:"payerData,omitempty"`
	NostrPubkey    string     `json:"nostrPubkey"`
	AllowsNostr    bool       `json:"allowsNostr"`
}

// SuccessAction is shown to the payer once the invoice is paid (LUD-09).
type SuccessAction struct {
	Tag         string `json:"tag"`
	Message     string `json:"message,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// CallbackResponse is the raw callback payload.
type CallbackResponse struct {
	Status        string            `json:"status,omitempty"`
	Reason        string            `json:"reason,omitempty"`
	SuccessAction *SuccessAction    `json:"successAction,omitempty"`
	Verify        string            `json:"verify,omitempty"`
	Routes        []json.RawMessage `json:"routes,omitempty"`
	PR            string            `json:"pr"`
}

// ServiceDescriptor is a validated discovery result. It is only produced by
// a successful discovery: CallbackURL carries no trailing slash and
// 0 <= MinSendableMsat <= MaxSendableMsat.
type ServiceDescriptor struct {
	Address         Address    `json:"address"`
	CallbackURL     string     `json:"callback"`
	MinSendableMsat int64      `json:"min_sendable_msat"`
	MaxSendableMsat int64      `json:"max_sendable_msat"`
	Metadata        string     `json:"metadata"`
	AllowsComments  bool       `json:"allows_comments"`
	CommentAllowed  uint32     `json:"comment_allowed,omitempty"`
	PayerData       *PayerData `json:"payer_data,omitempty"`
	// NostrPubkey is empty unless the service accepts zaps.
	NostrPubkey string `json:"nostr_pubkey,omitempty"`
}

// Accepts reports whether amountMsat lies within the sendable bounds.
func (d ServiceDescriptor) Accepts(amountMsat int64) bool {
	return amountMsat >= d.MinSendableMsat && amountMsat <= d.MaxSendableMsat
}

// Description returns the text/plain metadata entry.
func (d ServiceDescriptor) Description() string {
	return metadataEntry(d.Metadata, "text/plain")
}

// Identifier returns the text/identifier metadata entry, if any.
func (d ServiceDescriptor) Identifier() string {
	return metadataEntry(d.Metadata, "text/identifier")
}

func metadataEntry(raw, kind string) string {
	var metadata lnurl.Metadata
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return ""
	}
	for _, entry := range metadata {
		if len(entry) == 2 && entry[0] == kind {
			return entry[1]
		}
	}
	return ""
}

// Invoice is the outcome of a callback: the decoded BOLT11 invoice plus the
// optional hints the service returned with it.
type Invoice struct {
	lightning.Invoice
	SuccessAction *SuccessAction `json:"success_action,omitempty"`
	Verify        string         `json:"verify,omitempty"`
}
