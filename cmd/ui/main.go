package main

import (
	"log"

	"github.com/joho/godotenv"

	"gosift/app"
	"gosift/internal/config"
	"gosift/ui"
)

// Standalone dashboard without the optional query source. Uploads and
// bundled files only.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dashboard, err := ui.NewApp(cfg, app.NewInsightsService(cfg))
	if err != nil {
		log.Fatalf("Failed to create dashboard: %v", err)
	}

	log.Printf("Starting gosift dashboard on http://localhost:%s", cfg.Server.Port)
	log.Fatal(dashboard.Start())
}
