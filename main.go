package main

import (
	"context"
	"log"

	"museum-buddy/config"
	"museum-buddy/di"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[MAIN] Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("[MAIN] Failed to initialize: %v", err)
	}
	defer container.Close()

	refresher := container.BaselineRefresherService
	if err := refresher.RestoreBaseline(); err != nil {
		log.Printf("[MAIN] No baseline snapshot to restore: %v", err)
	}

	log.Println("[MAIN] refreshing baseline")
	if err := refresher.RefreshBaseline(ctx); err != nil {
		log.Printf("[MAIN] Baseline refresh failed: %v", err)
	}
	log.Println("[MAIN] starting periodic job")
	refresher.StartPeriodicJob(ctx, cfg.BaselineRefresh)

	log.Printf("[MAIN] starting server on %s", cfg.HTTPAddr)
	if err := container.MuseumBuddyHttpServer.Start(); err != nil {
		log.Fatalf("[MAIN] Server failed: %v", err)
	}
}
