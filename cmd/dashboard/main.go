package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"inventory-dashboard/internal/dashboard"
	"inventory-dashboard/internal/models"
	"inventory-dashboard/internal/util"
)

func main() {

	serverURL := os.Getenv("SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:5000"
	}

	if err := util.InitLogger(os.Getenv("ENV")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	sync := dashboard.NewSynchronizer(serverURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sync.Load(ctx); err != nil {
		log.Fatalf("Failed to load initial state: %v", err)
	}

	render(sync)

	sync.OnEvent = func(env models.Envelope) {
		fmt.Printf("\n-- %s --\n", env.Event)
		render(sync)
	}

	go func() {
		if err := sync.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("Synchronizer stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

func render(sync *dashboard.Synchronizer) {
	products := sync.Products()
	stats := sync.Stats()

	fmt.Printf("%-5s %-24s %10s  %-10s\n", "ID", "NAME", "PRICE", "STATUS")
	for _, p := range products {
		fmt.Printf("%-5d %-24s %10.2f  %-10s\n", p.ID, p.Name, p.Price, p.Status)
	}

	fmt.Printf("\n%d products, total value %.2f\n", stats.Totals.TotalProducts, stats.Totals.TotalValue)
	for _, st := range stats.ByStatus {
		fmt.Printf("  %-10s %4d  %10.2f\n", st.Status, st.Count, st.TotalValue)
	}
}
