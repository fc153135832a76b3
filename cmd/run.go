package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/satcoach/internal/catalog"
	"github.com/abhisek/satcoach/internal/coach"
	"github.com/abhisek/satcoach/internal/config"
	"github.com/abhisek/satcoach/internal/store"
	"github.com/abhisek/satcoach/internal/store/mongostore"
)

// openRepo opens the configured storage backend.
func openRepo(ctx context.Context) (store.Repo, error) {
	switch cfg.Backend {
	case config.BackendMongo:
		s, err := mongostore.Open(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			PoolSize: cfg.Mongo.PoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		return s, nil
	default:
		dbPath, err := resolveDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		logger.Debug("store opened", "path", dbPath)
		return s, nil
	}
}

// loadCatalog returns the catalog from --catalog, or the built-in one.
func loadCatalog() (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("catalog loaded", "path", cfg.CatalogPath, "version", cat.Version())
	return cat, nil
}

// openCoach opens the store and catalog and builds the coach service.
// The returned close func releases the store.
func openCoach(ctx context.Context) (*coach.Service, func(), error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, nil, err
	}
	repo, err := openRepo(ctx)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}
	return coach.New(repo, cat, coach.WithLogger(logger)), closeFn, nil
}
