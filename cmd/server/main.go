package main

import (
	"log"

	"partnerdesk-backend/internal/config"
	"partnerdesk-backend/internal/database"
	"partnerdesk-backend/internal/importer"
	"partnerdesk-backend/internal/server"
	"partnerdesk-backend/internal/store"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	// One-shot spreadsheet import, before any request is served.
	importer.ImportAll(store.New(db), cfg.ImportDir)

	app := server.New(db, cfg)

	log.Println("Server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
