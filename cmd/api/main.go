package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gosift/adapters/api"
	"gosift/adapters/postgres"
	"gosift/internal/config"
	"gosift/internal/container"
)

// JSON API without the dashboard, for scripted profiling.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := appContainer.InitWithDatabase(db); err != nil {
			log.Fatalf("Failed to attach query source: %v", err)
		}
	}

	service := api.NewService(cfg, appContainer.Insights)
	log.Fatal(service.Start(":" + cfg.Server.Port))
}
