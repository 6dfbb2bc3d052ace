package main

import (
	"context"
	"log"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
