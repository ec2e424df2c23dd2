package domain

// SubEntry is a single submenu link.
type SubEntry struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

// NavEntry is a top-level navigation item.
//
// Href is opaque: it is handed to the browser as-is and never parsed.
// An empty Submenu means the entry never shows a dropdown panel.
type NavEntry struct {
	Name    string     `json:"name"`
	Href    string     `json:"href"`
	Submenu []SubEntry `json:"submenu,omitempty"`
}

// HasSubmenu reports whether the entry can open a dropdown panel.
func (e NavEntry) HasSubmenu() bool {
	return len(e.Submenu) > 0
}

// Brand is the logo block rendered on the left of the bar.
type Brand struct {
	Name       string `json:"name"`
	Href       string `json:"href"`
	LogoSrc    string `json:"logo_src"`
	LogoAlt    string `json:"logo_alt"`
	LogoWidth  int    `json:"logo_width"`
	LogoHeight int    `json:"logo_height"`
}

// Catalog is the immutable set of things the navbar displays.
// Entries are kept in display order.
type Catalog struct {
	Brand   Brand      `json:"brand"`
	Entries []NavEntry `json:"entries"`
}

// Len returns the number of top-level entries.
func (c Catalog) Len() int {
	return len(c.Entries)
}

// Entry returns the entry at index i, or false when i is out of range.
func (c Catalog) Entry(i int) (NavEntry, bool) {
	if i < 0 || i >= len(c.Entries) {
		return NavEntry{}, false
	}
	return c.Entries[i], true
}

// Clone returns a deep copy so callers can never mutate a shared catalog.
func (c Catalog) Clone() Catalog {
	out := Catalog{Brand: c.Brand, Entries: make([]NavEntry, len(c.Entries))}
	for i, e := range c.Entries {
		out.Entries[i] = NavEntry{Name: e.Name, Href: e.Href}
		if len(e.Submenu) > 0 {
			out.Entries[i].Submenu = append([]SubEntry(nil), e.Submenu...)
		}
	}
	return out
}

// DefaultBrand returns the built-in logo block.
func DefaultBrand() Brand {
	return Brand{
		Name:       "therahulkumar.dev",
		Href:       "/",
		LogoSrc:    "/profile.png",
		LogoAlt:    "Profile",
		LogoWidth:  40,
		LogoHeight: 40,
	}
}

// DefaultCatalog returns the built-in site sections.
// A fresh value is built on every call.
func DefaultCatalog() Catalog {
	return Catalog{
		Brand: DefaultBrand(),
		Entries: []NavEntry{
			{
				Name: "Portfolio",
				Href: "/portfolio",
				Submenu: []SubEntry{
					{Name: "Web Projects", Href: "/portfolio/web"},
					{Name: "Mobile Projects", Href: "/portfolio/mobile"},
				},
			},
			{
				Name: "Blog",
				Href: "/blog",
				Submenu: []SubEntry{
					{Name: "Tutorials", Href: "/blog/tutorials"},
					{Name: "Tech Trends", Href: "/blog/tech-trends"},
				},
			},
			{
				Name: "Shop",
				Href: "/shop",
				Submenu: []SubEntry{
					{Name: "T-Shirts", Href: "/shop/tshirts"},
					{Name: "Digital Products", Href: "/shop/digital"},
				},
			},
			{
				Name: "Tools",
				Href: "/tools",
				Submenu: []SubEntry{
					{Name: "Free Tools", Href: "/tools/free"},
					{Name: "Premium Tools", Href: "/tools/premium"},
				},
			},
		},
	}
}
