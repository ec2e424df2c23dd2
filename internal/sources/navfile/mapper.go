package navfile

import (
	"errors"

	"github.com/MrSnakeDoc/navbar/internal/domain"
)

// ErrNoEntries is returned when a file yields no usable entry.
var ErrNoEntries = errors.New("no valid entries found in catalog file")

// Mapper converts a parsed File into a domain.Catalog
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapCatalog keeps entries in file order. Entries missing a name are kept
// and render as empty text; only entirely blank entries are dropped.
func (m *Mapper) MapCatalog(f File) (domain.Catalog, error) {
	entries := make([]domain.NavEntry, 0, len(f.Entries))
	for _, e := range f.Entries {
		if e.Name == "" && e.Href == "" && len(e.Submenu) == 0 {
			continue
		}

		entry := domain.NavEntry{Name: e.Name, Href: e.Href}
		for _, s := range e.Submenu {
			if s.Name == "" && s.Href == "" {
				continue
			}
			entry.Submenu = append(entry.Submenu, domain.SubEntry{Name: s.Name, Href: s.Href})
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return domain.Catalog{}, ErrNoEntries
	}

	return domain.Catalog{
		Brand:   mapBrand(f.Brand),
		Entries: entries,
	}, nil
}

func mapBrand(p *BrandProps) domain.Brand {
	b := domain.DefaultBrand()
	if p == nil {
		return b
	}
	if p.Name != "" {
		b.Name = p.Name
	}
	if p.Href != "" {
		b.Href = p.Href
	}
	if p.Logo != "" {
		b.LogoSrc = p.Logo
	}
	if p.LogoAlt != "" {
		b.LogoAlt = p.LogoAlt
	}
	if p.LogoWidth > 0 {
		b.LogoWidth = p.LogoWidth
	}
	if p.LogoHeight > 0 {
		b.LogoHeight = p.LogoHeight
	}
	return b
}
