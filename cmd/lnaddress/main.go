package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()

	app.Name = "lnaddress"
	app.Usage = "Resolve Lightning Addresses and request invoices"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Value: "config.yaml",
			Usage: "path to the configuration file",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		if err := loadConfig(ctx.String("config")); err != nil {
			return err
		}
		return setLogger()
	}
	app.Commands = []*cli.Command{
		resolveCommand,
		invoiceCommand,
		historyCommand,
		scanCommand,
		serveCommand,
	}

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[lnaddress] %v\n", err)
	os.Exit(1)
}
