package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ahamlinman/gamehost/internal/config"
	"github.com/ahamlinman/gamehost/internal/server"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("Scanning %s", cfg.GamesDir)
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Unable to start: %v", err)
	}
	defer srv.Close()
	log.Printf("Found %d games", len(srv.Games()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Printf("Server error: %v", err)
		stop()
		srv.Close()
		os.Exit(1)
	}
}
