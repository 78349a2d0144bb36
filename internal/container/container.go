package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gosift/adapters/postgres"
	"gosift/app"
	"gosift/internal"
	"gosift/internal/config"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Application services
	Insights *app.InsightsService

	logger *internal.Logger
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return &Container{
		Config:   cfg,
		Insights: app.NewInsightsService(cfg),
		logger:   internal.DefaultLogger,
	}, nil
}

// InitWithDatabase attaches the optional read-only query source. The
// application works fully without it; only query-backed datasets need it.
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.DB = db
	c.Insights.AttachSource(postgres.NewTableSource(db))
	c.logger.Info("[Container] query source attached")
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
