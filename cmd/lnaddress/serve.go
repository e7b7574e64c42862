package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LightningTipBot/lnaddress/internal/lnbits"
	"github.com/LightningTipBot/lnaddress/internal/lnurl"
	"github.com/LightningTipBot/lnaddress/internal/storage"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Serve Lightning Addresses for the configured recipients",
	Action: serveAction,
}

// seedRecipients stores the configured recipients in the directory.
func seedRecipients(directory *storage.Directory, recipients []RecipientConfiguration) error {
	for _, r := range recipients {
		if r.Name == "" || r.Inkey == "" {
			return fmt.Errorf("recipient %q needs a name and an inkey", r.Name)
		}
		user := &lnbits.User{
			Name:        r.Name,
			Initialized: true,
			Wallet:      &lnbits.Wallet{ID: r.WalletId, Inkey: r.Inkey, Name: r.Name},
		}
		if err := directory.SaveUser(user); err != nil {
			return err
		}
		log.Infof("[serve] Serving %s@%s", user.Name, Configuration.Server.PublicUrlUrl.Host)
	}
	return nil
}

func serveAction(ctx *cli.Context) error {
	if err := checkServerConfiguration(); err != nil {
		return err
	}
	directory, err := storage.NewDirectory(Configuration.Server.DbPath)
	if err != nil {
		return err
	}
	if err = seedRecipients(directory, Configuration.Server.Recipients); err != nil {
		return err
	}
	client, err := getHttpClient()
	if err != nil {
		return err
	}

	server := lnurl.NewServer(lnurl.Config{
		Addr:             Configuration.Server.Listen,
		CallbackHostname: Configuration.Server.PublicUrlUrl,
		WebhookServer:    Configuration.Server.Lnbits.Webhook,
		MinSendable:      Configuration.Server.MinSendable,
		MaxSendable:      Configuration.Server.MaxSendable,
		OnPayment: func(w lnbits.Webhook) {
			log.Infof("[serve] Payment %s of %d msat received on wallet %s", w.PaymentHash, w.Amount, w.WalletID)
		},
	}, directory, lnbits.NewClient(Configuration.Server.Lnbits.Url, client))

	c, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	server.Start()
	<-c.Done()

	log.Infof("[serve] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
