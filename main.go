package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/dnldd/chartboard/service"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Printf("loading config: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dashboardCfg := service.DashboardConfig{
		APIBaseURL: cfg.APIBaseURL,
		Mode:       cfg.AcquisitionMode(),
		Timeout:    cfg.Timeout(),
		ListenAddr: cfg.ListenAddr,
		Cancel:     cancel,
	}
	if cfg.Fixtures {
		dashboardCfg.FixtureAddr = cfg.FixtureAddr
		dashboardCfg.FixtureFile = cfg.FixtureFile
	}

	dashboard, err := service.NewDashboard(&dashboardCfg)
	if err != nil {
		log.Printf("creating dashboard service: %v", err)
		return
	}

	go handleTermination(ctx, cancel)
	dashboard.Run(ctx)
}
