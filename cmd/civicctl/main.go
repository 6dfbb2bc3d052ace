package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/civicctl"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/logging"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/config"
)

const usage = `usage: civicctl <command> [args]

commands:
  register            interactively register an account against a running server
  backup              upload a snapshot of the data directory to S3
  restore <prefix>    restore the snapshot stored under the given prefix
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]
	os.Args = append(os.Args[:1], os.Args[2:]...)

	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	app := civicctl.NewApp(cfg, "http://localhost"+cfg.EndpointAddrHTTP, logger, os.Stdout)

	ctx := context.Background()

	var err error
	switch command {
	case "register":
		err = app.Register(bufio.NewReader(os.Stdin))
	case "backup":
		err = app.Backup(ctx)
	case "restore":
		if len(os.Args) < 2 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		err = app.Restore(ctx, os.Args[1])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
