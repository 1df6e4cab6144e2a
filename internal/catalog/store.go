package catalog

import (
	"context"

	"github.com/flexprice/entitlement-engine/internal/config"
	domainCatalog "github.com/flexprice/entitlement-engine/internal/domain/catalog"
	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/flexprice/entitlement-engine/internal/logger"
	"github.com/flexprice/entitlement-engine/internal/types"
)

// Load reads the catalog from the source selected in cfg
func Load(ctx context.Context, cfg config.CatalogConfig) (*domainCatalog.Catalog, error) {
	switch cfg.Source {
	case types.CatalogSourceEmbedded:
		return LoadDefault(ctx)
	case types.CatalogSourceDir:
		return LoadDir(ctx, cfg.Dir)
	default:
		return nil, ierr.NewErrorf("unknown catalog source %q", cfg.Source).
			WithHint("catalog.source must be embedded or dir").
			Mark(ierr.ErrConfiguration)
	}
}

// NewStore loads the configured catalog and serves it from a new store.
// Any failure is fatal for startup.
func NewStore(ctx context.Context, cfg *config.Configuration, log *logger.Logger) (*domainCatalog.Store, error) {
	c, err := Load(ctx, cfg.Catalog)
	if err != nil {
		log.Errorw("failed to load billing catalog",
			"source", cfg.Catalog.Source,
			"dir", cfg.Catalog.Dir,
			"error", err)
		return nil, err
	}

	store, err := domainCatalog.NewStore(c)
	if err != nil {
		return nil, err
	}

	summary := c.Summary()
	log.Infow("billing catalog loaded",
		"revision", c.Revision(),
		"source", cfg.Catalog.Source,
		"products", summary.Products,
		"plans", summary.Plans,
		"prices", summary.Prices,
		"events", summary.Events)
	return store, nil
}

// Reload loads the configured catalog again and swaps it into store. On
// failure the store keeps serving the previous snapshot.
func Reload(ctx context.Context, store *domainCatalog.Store, cfg *config.Configuration, log *logger.Logger) (*domainCatalog.Catalog, error) {
	next, err := Load(ctx, cfg.Catalog)
	if err != nil {
		log.Warnw("billing catalog reload rejected, keeping current snapshot",
			"revision", store.Load().Revision(),
			"error", err)
		return nil, err
	}

	prev, err := store.Swap(next)
	if err != nil {
		return nil, err
	}

	log.Infow("billing catalog reloaded",
		"previous_revision", prev.Revision(),
		"revision", next.Revision())
	return next, nil
}
