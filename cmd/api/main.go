package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/relecloud/ticketing/config"
	"github.com/relecloud/ticketing/internal/api"
	"github.com/relecloud/ticketing/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	logger.Setup(logger.Options{
		Level:   cfg.LogLevel,
		Console: cfg.LogFormat == "text",
	})

	if err := api.Run(cfg); err != nil {
		log.Fatalf("API service error: %s", err)
	}
}
