package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"pharmalink/pos/internal/api"
	"pharmalink/pos/internal/cli"
	"pharmalink/pos/internal/config"
	"pharmalink/pos/internal/session"
	"pharmalink/pos/internal/store"
	"pharmalink/pos/internal/suppliers"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("local store error: %v", err)
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		log.Fatalf("local store error: %v", err)
	}

	sess := session.NewStore(db)
	app := &cli.App{
		Client:    api.New(cfg.BaseURL, cfg.HTTPTimeout, sess),
		Session:   sess,
		Suppliers: suppliers.NewRepo(db),
		In:        os.Stdin,
		Out:       os.Stdout,
	}

	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
