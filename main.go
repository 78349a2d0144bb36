package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gosift/adapters/postgres"
	"gosift/internal/config"
	"gosift/internal/container"
	"gosift/ui"
)

func main() {
	// Load environment variables from .env file
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

	// The Postgres query source is optional; without it the dashboard
	// works on uploads and bundled files only.
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := appContainer.InitWithDatabase(db); err != nil {
			log.Fatalf("Failed to attach query source: %v", err)
		}
	}

	dashboard, err := ui.NewApp(cfg, appContainer.Insights)
	if err != nil {
		log.Fatalf("Failed to create dashboard: %v", err)
	}

	log.Printf("🚀 Starting gosift dashboard on port %s", cfg.Server.Port)
	log.Fatal(dashboard.Start())
}
