package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"QuantDesk/internal/di"
	"QuantDesk/pkg/config"
)

func main() {
	// .env is optional, real environments set variables directly
	_ = godotenv.Load()

	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s port=%d market_data=%s", cfg.Environment, cfg.Server.Port, cfg.MarketData.BaseURL)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// blocks until signal
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
