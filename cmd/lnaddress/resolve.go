package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/LightningTipBot/lnaddress/internal/storage"
	"github.com/LightningTipBot/lnaddress/pkg/lnaddress"
	log "github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
	"github.com/urfave/cli/v2"
)

var resolveCommand = &cli.Command{
	Name:      "resolve",
	Usage:     "Discover the pay service behind a Lightning Address",
	ArgsUsage: "<address>",
	Action:    resolveAction,
}

var invoiceCommand = &cli.Command{
	Name:      "invoice",
	Usage:     "Request an invoice from a Lightning Address",
	ArgsUsage: "<address> <amount_msat>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "qr",
			Usage: "write the invoice as PNG QR code to this file",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "do not record the invoice",
		},
	},
	Action: invoiceAction,
}

func newClients() (*lnaddress.Resolver, *lnaddress.Requester, error) {
	client, err := getHttpClient()
	if err != nil {
		return nil, nil, err
	}
	opts := []lnaddress.Option{lnaddress.WithHTTPClient(client), lnaddress.WithLogger(log.StandardLogger())}
	return lnaddress.NewResolver(opts...), lnaddress.NewRequester(opts...), nil
}

func resolveAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("usage: resolve %s", ctx.Command.ArgsUsage)
	}
	resolver, _, err := newClients()
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx.Context, timeout())
	defer cancel()

	d, err := resolver.Resolve(c, ctx.Args().First())
	if err != nil {
		return err
	}
	printDescriptor(d)
	return nil
}

func printDescriptor(d *lnaddress.ServiceDescriptor) {
	fmt.Printf("Address:     %s\n", d.Address)
	if encoded, err := d.Address.LNURL(); err == nil {
		fmt.Printf("LNURL:       %s\n", encoded)
	}
	fmt.Printf("Callback:    %s\n", d.CallbackURL)
	fmt.Printf("Sendable:    %d - %d msat\n", d.MinSendableMsat, d.MaxSendableMsat)
	if description := d.Description(); description != "" {
		fmt.Printf("Description: %s\n", description)
	}
	if d.AllowsComments {
		fmt.Printf("Comments:    up to %d characters\n", d.CommentAllowed)
	}
	if d.NostrPubkey != "" {
		fmt.Printf("Nostr:       %s\n", d.NostrPubkey)
	}
}

func invoiceAction(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("usage: invoice %s", ctx.Command.ArgsUsage)
	}
	amount, err := strconv.ParseInt(ctx.Args().Get(1), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", ctx.Args().Get(1), err)
	}
	resolver, requester, err := newClients()
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx.Context, timeout())
	defer cancel()

	session := lnaddress.NewSession(ctx.Args().First(), resolver, requester)
	if _, err = session.Resolve(c); err != nil {
		return err
	}
	invoice, err := session.RequestInvoice(c, amount)
	if err != nil {
		return err
	}

	fmt.Println(invoice.PaymentRequest)
	if invoice.SuccessAction != nil && invoice.SuccessAction.Message != "" {
		log.Infof("[invoice] Success message: %s", invoice.SuccessAction.Message)
	}

	if path := ctx.String("qr"); path != "" {
		err = qrcode.WriteFile(invoice.PaymentRequest, qrcode.Medium, 256, path)
		if err != nil {
			return fmt.Errorf("[invoice] Failed to create QR code for invoice: %w", err)
		}
		log.Infof("[invoice] QR code written to %s", path)
	}

	if ctx.Bool("no-history") {
		return nil
	}
	return recordInvoice(session.Descriptor(), invoice, amount)
}

func recordInvoice(d *lnaddress.ServiceDescriptor, invoice *lnaddress.Invoice, amount int64) error {
	db, err := storage.NewBunt(Configuration.HistoryPath)
	if err != nil {
		return fmt.Errorf("[history] could not open %s: %w", Configuration.HistoryPath, err)
	}
	defer db.Close()
	_, err = saveInvoice(db, d, invoice, amount, time.Now())
	return err
}

// saveInvoice stores invoice unless its payment hash is already recorded.
func saveInvoice(db *storage.DB, d *lnaddress.ServiceDescriptor, invoice *lnaddress.Invoice, amount int64, now time.Time) (bool, error) {
	description := invoice.Description
	if description == "" {
		description = d.Description()
	}
	record := storage.InvoiceRecord{
		PaymentHash:    invoice.PaymentHash,
		Address:        d.Address.String(),
		AmountMsat:     amount,
		Description:    description,
		PaymentRequest: invoice.PaymentRequest,
		CreatedAt:      now.UnixNano() / int64(time.Millisecond),
	}
	exists, err := db.Exists(record)
	if err != nil {
		return false, err
	}
	if exists {
		log.Warnf("[history] Invoice %s is already recorded", record.PaymentHash)
		return false, nil
	}
	return true, db.Set(record)
}
