package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/rangeforge/marksim/internal/api"
	"github.com/rangeforge/marksim/internal/config"
	"github.com/rangeforge/marksim/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	logger := log.New(os.Stdout, "[MARKSIM] ", log.LstdFlags)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Fatalf("failed to load config %s: %v", *configPath, err)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Listen.Addr = *addr
	}

	db, err := store.NewSQLiteDB(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("failed to open store %s: %v", cfg.Database.Path, err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	server := api.NewServer(db, cfg.Generation)

	logger.Printf("listening on %s (db=%s)", cfg.Listen.Addr, cfg.Database.Path)
	if err := http.ListenAndServe(cfg.Listen.Addr, server.Routes()); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
