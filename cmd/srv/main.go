package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var server srv

func main() {
	app := &cli.App{
		Name:  "srv",
		Usage: "askbot services",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the TOML configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "api",
				Usage:  "run the interaction webhook server",
				Action: server.startApi,
			},
			{
				Name:   "register",
				Usage:  "register the application commands with Discord",
				Action: server.registerCommands,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
