package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/navbar/internal/domain"
)

// PublishedCatalog is the catalog as shared between replicas.
type PublishedCatalog struct {
	Version     string         `json:"version"`
	PublishedAt time.Time      `json:"published_at"`
	Catalog     domain.Catalog `json:"catalog"`
}

// ErrNoCatalog is returned when nothing was published yet.
var ErrNoCatalog = errors.New("no catalog published")

// SaveCatalog publishes the catalog for other replicas. It never expires.
func (s *Store) SaveCatalog(ctx context.Context, version string, cat domain.Catalog) error {
	data, err := json.Marshal(PublishedCatalog{
		Version:     version,
		PublishedAt: time.Now().UTC(),
		Catalog:     cat,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := s.client.Set(ctx, CatalogKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	return nil
}

// GetCatalog returns the last published catalog
func (s *Store) GetCatalog(ctx context.Context) (*PublishedCatalog, error) {
	data, err := s.client.Get(ctx, CatalogKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoCatalog
		}
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	var pc PublishedCatalog
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	return &pc, nil
}
