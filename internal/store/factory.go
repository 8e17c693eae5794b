package store

import (
	"context"
	"fmt"

	"github.com/anshuman444/hacknovation2.0/internal/config"
	"github.com/anshuman444/hacknovation2.0/internal/domain"
	"github.com/anshuman444/hacknovation2.0/internal/observability"
)

// New creates the store selected by configuration.
func New(ctx context.Context, cfg *config.Config, logger observability.Logger) (domain.Store, error) {
	switch cfg.Adapters.Store {
	case "memory":
		logger.Info(ctx, "Creating in-memory store", nil)
		return NewMemoryStore(), nil

	case "postgres":
		logger.Info(ctx, "Creating postgres store", observability.Fields{
			"adapter": "postgres",
		})
		return OpenPostgres(ctx, cfg.Database.URL)

	default:
		return nil, fmt.Errorf("unsupported store adapter: %s", cfg.Adapters.Store)
	}
}
