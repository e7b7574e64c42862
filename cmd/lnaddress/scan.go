package main

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/LightningTipBot/lnaddress/pkg/lightning"
	"github.com/LightningTipBot/lnaddress/pkg/lnaddress"
	"github.com/fiatjaf/go-lnurl"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var scanCommand = &cli.Command{
	Name:      "scan",
	Usage:     "Read a Lightning Address, LNURL or invoice from a QR code image",
	ArgsUsage: "<image>",
	Action:    scanAction,
}

type payloadKind int

const (
	payloadUnknown payloadKind = iota
	payloadInvoice
	payloadLNURL
	payloadAddress
)

// TryRecognizeQrCode returns the text of the QR code in img.
func TryRecognizeQrCode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", err
	}
	qrReader := qrcode.NewQRCodeReader()
	result, err := qrReader.Decode(bmp, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.String()), nil
}

// classifyPayload tells what a scanned payload points to.
func classifyPayload(payload string) payloadKind {
	if lightning.IsInvoice(payload) {
		return payloadInvoice
	}
	if strings.HasPrefix(lightning.Normalize(payload), "lnurl1") {
		return payloadLNURL
	}
	if _, err := lnaddress.Parse(payload); err == nil {
		return payloadAddress
	}
	return payloadUnknown
}

func scanAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("usage: scan %s", ctx.Command.ArgsUsage)
	}
	f, err := os.Open(ctx.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("[scan] image.Decode error: %w", err)
	}
	payload, err := TryRecognizeQrCode(img)
	if err != nil {
		return fmt.Errorf("[scan] could not recognize a QR code: %w", err)
	}
	log.Debugf("[scan] payload: %s", payload)

	switch classifyPayload(payload) {
	case payloadInvoice:
		invoice, err := lightning.Decode(payload)
		if err != nil {
			return err
		}
		fmt.Printf("Invoice:     %s\n", invoice.PaymentRequest)
		fmt.Printf("Amount:      %d msat\n", invoice.AmountMsat())
		if invoice.Description != "" {
			fmt.Printf("Description: %s\n", invoice.Description)
		}
		fmt.Printf("Hash:        %s\n", invoice.PaymentHash)
	case payloadLNURL:
		rawurl, err := lnurl.LNURLDecode(lightning.Normalize(payload))
		if err != nil {
			return fmt.Errorf("[scan] error decoding LNURL: %w", err)
		}
		fmt.Printf("LNURL:       %s\n", rawurl)
	case payloadAddress:
		resolver, _, err := newClients()
		if err != nil {
			return err
		}
		c, cancel := context.WithTimeout(ctx.Context, timeout())
		defer cancel()
		d, err := resolver.Resolve(c, payload)
		if err != nil {
			return err
		}
		printDescriptor(d)
	default:
		return fmt.Errorf("[scan] %q is not a Lightning Address, LNURL or invoice", payload)
	}
	return nil
}
