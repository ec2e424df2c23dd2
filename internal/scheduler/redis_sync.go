package scheduler

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/navbar/internal/index"
	"github.com/MrSnakeDoc/navbar/internal/logger"
	redisstore "github.com/MrSnakeDoc/navbar/internal/store/redis"
)

// SourceRedis marks a catalog restored from Redis.
const SourceRedis = "redis"

// CatalogSource returns the last catalog published by any replica.
type CatalogSource interface {
	GetCatalog(ctx context.Context) (*redisstore.PublishedCatalog, error)
}

// RedisSyncer restores the published catalog into the index on startup
type RedisSyncer struct {
	store  CatalogSource
	index  *index.CatalogIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store CatalogSource,
	idx *index.CatalogIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads the catalog from Redis and updates the index
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing catalog from redis to memory")

	pc, err := rs.store.GetCatalog(ctx)
	if errors.Is(err, redisstore.ErrNoCatalog) {
		rs.logger.Info("no catalog found in redis")
		return nil
	}
	if err != nil {
		return err
	}

	if pc.Catalog.Len() == 0 {
		rs.logger.Warn("ignoring empty catalog from redis")
		return nil
	}

	rs.index.Update(pc.Catalog, SourceRedis)

	rs.logger.Info("synced catalog from redis",
		logger.Int("entries", pc.Catalog.Len()),
		logger.String("version", pc.Version))

	return nil
}
