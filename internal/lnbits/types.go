package lnbits

import (
	"github.com/imroc/req"
)

type Client struct {
	r      *req.Req
	header req.Header
	url    string
}

// User is a Lightning Address recipient backed by an LNbits wallet.
type User struct {
	Name        string  `json:"name" gorm:"primaryKey"`
	Initialized bool    `json:"initialized"`
	Wallet      *Wallet `gorm:"embedded;embeddedPrefix:wallet_"`
}

type Wallet struct {
	ID       string `json:"id" gorm:"id"`
	Adminkey string `json:"adminkey"`
	Inkey    string `json:"inkey"`
	Name     string `json:"name"`
}

type InvoiceParams struct {
	Out             bool   `json:"out"`                        // must be True if invoice is payed, False if invoice is received
	Amount          int64  `json:"amount"`                     // amount in satoshi
	Memo            string `json:"memo,omitempty"`             // the invoice memo.
	Webhook         string `json:"webhook,omitempty"`          // the webhook to fire back to when payment is received.
	DescriptionHash string `json:"description_hash,omitempty"` // the invoice description hash.
}

type Error struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Code    int    `json:"code"`
	Status  int    `json:"status"`
}

func (err Error) Error() string {
	if err.Message == "" {
		return err.Detail
	}
	return err.Message
}

type BitInvoice struct {
	PaymentHash    string `json:"payment_hash"`
	PaymentRequest string `json:"payment_request"`
}

type Webhook struct {
	CheckingID  string `json:"checking_id"`
	Pending     int    `json:"pending"`
	Amount      int    `json:"amount"` // msat
	Fee         int    `json:"fee"`
	Memo        string `json:"memo"`
	Time        int    `json:"time"`
	Bolt11      string `json:"bolt11"`
	Preimage    string `json:"preimage"`
	PaymentHash string `json:"payment_hash"`
	WalletID    string `json:"wallet_id"`
	Webhook     string `json:"webhook"`
}
