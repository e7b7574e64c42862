package main

import (
	"fmt"

	"github.com/LightningTipBot/lnaddress/internal/storage"
	"github.com/tidwall/buntdb"
	"github.com/urfave/cli/v2"
)

var historyCommand = &cli.Command{
	Name:      "history",
	Usage:     "List recorded invoices, oldest first",
	ArgsUsage: "[address]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "show",
			Usage: "print the payment request of the invoice with this payment hash",
		},
		&cli.StringFlag{
			Name:  "delete",
			Usage: "remove the invoice with this payment hash",
		},
	},
	Action: historyAction,
}

func historyAction(ctx *cli.Context) error {
	db, err := storage.NewBunt(Configuration.HistoryPath)
	if err != nil {
		return fmt.Errorf("[history] could not open %s: %w", Configuration.HistoryPath, err)
	}
	defer db.Close()

	if hash := ctx.String("show"); hash != "" {
		r, err := findInvoice(db, hash)
		if err != nil {
			return err
		}
		fmt.Println(r.PaymentRequest)
		return nil
	}
	if hash := ctx.String("delete"); hash != "" {
		return deleteInvoice(db, hash)
	}

	records, err := db.Invoices(ctx.Args().First())
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Printf("%s  %-32s %12d msat  %s\n", r.Created().Format("2006-01-02 15:04:05"), r.Address, r.AmountMsat, r.PaymentHash)
		if r.Description != "" {
			fmt.Printf("    %s\n", r.Description)
		}
	}
	return nil
}

func findInvoice(db *storage.DB, hash string) (*storage.InvoiceRecord, error) {
	r := &storage.InvoiceRecord{PaymentHash: hash}
	err := db.Get(r)
	if err == buntdb.ErrNotFound {
		return nil, fmt.Errorf("[history] no invoice with payment hash %s", hash)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func deleteInvoice(db *storage.DB, hash string) error {
	r := storage.InvoiceRecord{PaymentHash: hash}
	exists, err := db.Exists(r)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("[history] no invoice with payment hash %s", hash)
	}
	return db.Delete(r)
}
