package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/simaogato/assetval-backend/internal/cli"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	logger := log.New(os.Stderr, "", 0)
	app := cli.NewApp(os.Stdout, logger)
	cli.Register(commander, app)

	flag.Parse()
	status := commander.Execute(context.Background())
	if err := app.Close(); err != nil {
		logger.Printf("closing store: %v", err)
	}
	os.Exit(int(status))
}
