package index

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/MrSnakeDoc/navbar/internal/domain"
)

// CatalogIndex holds the catalog currently served. Readers get a snapshot;
// a reload swaps the whole catalog at once.
type CatalogIndex struct {
	mu         sync.RWMutex
	catalog    domain.Catalog
	version    string
	source     string
	lastReload time.Time
}

// NewCatalogIndex creates an index serving cat.
func NewCatalogIndex(cat domain.Catalog, source string) *CatalogIndex {
	idx := &CatalogIndex{}
	idx.Update(cat, source)
	return idx
}

// Update replaces the catalog and reports whether its content changed.
func (idx *CatalogIndex) Update(cat domain.Catalog, source string) bool {
	version := Fingerprint(cat)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	changed := version != idx.version
	idx.catalog = cat.Clone()
	idx.version = version
	idx.source = source
	idx.lastReload = time.Now()
	return changed
}

// Snapshot returns a copy of the catalog and its version.
func (idx *CatalogIndex) Snapshot() (domain.Catalog, string) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.catalog.Clone(), idx.version
}

// Version returns the fingerprint of the current catalog
func (idx *CatalogIndex) Version() string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.version
}

// Source returns where the current catalog came from ("builtin", a file path, "redis")
func (idx *CatalogIndex) Source() string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.source
}

// Count returns the number of top-level entries
func (idx *CatalogIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.catalog.Len()
}

// GetLastReload returns the timestamp of the last update
func (idx *CatalogIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// Fingerprint hashes the catalog content. Two catalogs with the same
// entries in the same order share a fingerprint.
func Fingerprint(cat domain.Catalog) string {
	data, err := json.Marshal(cat)
	if err != nil {
		// Catalog only holds strings and ints.
		return ""
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}
