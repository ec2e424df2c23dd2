package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/navbar/internal/domain"
	"github.com/MrSnakeDoc/navbar/internal/index"
	"github.com/MrSnakeDoc/navbar/internal/logger"
	"github.com/MrSnakeDoc/navbar/internal/metrics"
	"github.com/MrSnakeDoc/navbar/internal/sources/navfile"
)

// SourceBuiltin marks the compiled-in catalog.
const SourceBuiltin = "builtin"

// CatalogPublisher shares a freshly loaded catalog with other replicas.
type CatalogPublisher interface {
	SaveCatalog(ctx context.Context, version string, cat domain.Catalog) error
}

// CatalogReloader handles periodic reloading of the catalog file
type CatalogReloader struct {
	loader        *navfile.Loader
	publisher     CatalogPublisher
	index         *index.CatalogIndex
	logger        logger.Logger
	reloads       metrics.IncrementalCounter
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
}

// NewCatalogReloader creates a new catalog reloader. An empty catalogFile
// serves the built-in catalog; publisher may be nil.
func NewCatalogReloader(
	catalogFile string,
	publisher CatalogPublisher,
	idx *index.CatalogIndex,
	log logger.Logger,
	reloads metrics.IncrementalCounter,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	var loader *navfile.Loader
	if catalogFile != "" {
		loader = navfile.NewLoader(catalogFile)
	}
	if reloads == nil {
		reloads = metrics.Nop()
	}

	return &CatalogReloader{
		loader:        loader,
		publisher:     publisher,
		index:         idx,
		logger:        log,
		reloads:       reloads,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Run reloads on every tick and on every manual trigger until ctx is done
// or Stop is called.
func (cr *CatalogReloader) Run(ctx context.Context) error {
	ticker := time.NewTicker(cr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := cr.Reload(ctx); err != nil {
				cr.logger.Error("failed to reload catalog",
					logger.Error(err))
			}
		case <-cr.manualTrigger:
			cr.logger.Info("manual reload triggered")
			if err := cr.Reload(ctx); err != nil {
				cr.logger.Error("failed to reload catalog",
					logger.Error(err))
			}
		case <-cr.stopCh:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// Stop stops the reloader
func (cr *CatalogReloader) Stop() {
	cr.stopOnce.Do(func() { close(cr.stopCh) })
}

// Reload loads the catalog and swaps it into the index. On failure the
// index keeps serving the previous catalog.
//
// Without a catalog file a catalog restored from Redis is kept, and the
// built-in catalog is never published: only replicas with a file own the
// shared copy.
func (cr *CatalogReloader) Reload(ctx context.Context) error {
	if cr.loader == nil && cr.index.Source() == SourceRedis {
		cr.reloads.Increment(metrics.ResultOK)
		cr.logger.Debug("keeping catalog restored from redis",
			logger.String("version", cr.index.Version()))
		return nil
	}

	cat, source, err := cr.load()
	if err != nil {
		cr.reloads.Increment(metrics.ResultError)
		return err
	}

	changed := cr.index.Update(cat, source)
	version := cr.index.Version()
	cr.reloads.Increment(metrics.ResultOK)

	cr.logger.Info("catalog loaded",
		logger.String("source", source),
		logger.Int("entries", cat.Len()),
		logger.String("version", version),
		logger.Bool("changed", changed))

	// Publish to Redis (best effort)
	if cr.publisher != nil && changed && source != SourceBuiltin {
		if err := cr.publisher.SaveCatalog(ctx, version, cat); err != nil {
			cr.logger.Warn("failed to publish catalog to redis",
				logger.Error(err))
		} else {
			cr.logger.Debug("catalog published to redis")
		}
	}

	return nil
}

func (cr *CatalogReloader) load() (domain.Catalog, string, error) {
	if cr.loader == nil {
		return domain.DefaultCatalog(), SourceBuiltin, nil
	}

	cat, err := cr.loader.LoadCatalog()
	if err != nil {
		return domain.Catalog{}, "", fmt.Errorf("failed to load catalog %s: %w", cr.loader.Path(), err)
	}
	return cat, cr.loader.Path(), nil
}
