// Package render turns a catalog and a navbar state into a visual tree.
//
// Project and Transition are pure: the same inputs always give the same
// View. Output formats (HTML, terminal) consume the View and never look at
// domain.State directly.
package render

import (
	"strconv"

	"github.com/gosimple/slug"

	"github.com/MrSnakeDoc/navbar/internal/domain"
)

// Glyph is the SVG path drawn inside the mobile toggle button.
type Glyph string

const (
	GlyphHamburger Glyph = "M4 6h16M4 12h16m-7 6h7"
	GlyphClose     Glyph = "M6 18L18 6M6 6l12 12"
)

// Label returns the accessible name of the glyph.
func (g Glyph) Label() string {
	if g == GlyphClose {
		return "Close menu"
	}
	return "Open menu"
}

// Phase is where an animated slot is in its enter/exit cycle.
type Phase string

const (
	PhaseClosed   Phase = "closed"
	PhaseEntering Phase = "entering"
	PhaseOpen     Phase = "open"
	PhaseExiting  Phase = "exiting"
)

func phaseOf(was, is bool) Phase {
	switch {
	case is && !was:
		return PhaseEntering
	case is:
		return PhaseOpen
	case was:
		return PhaseExiting
	default:
		return PhaseClosed
	}
}

// Link is a rendered anchor.
type Link struct {
	Name string
	Href string
}

// DesktopItem is one entry of the full-width bar.
type DesktopItem struct {
	Index      int
	Link       Link
	HasSubmenu bool
	// PanelID is the DOM id of the submenu panel, unique within the View.
	PanelID string
	// Open is true when the submenu panel is shown.
	Open bool
	// Exiting is true when the panel was open in the previous state and is
	// being animated out.
	Exiting bool
	Phase   Phase
	Submenu []Link
	Variant Variant
}

// PanelVisible reports whether the submenu panel must be present in the tree.
func (d DesktopItem) PanelVisible() bool {
	return d.Open || d.Exiting
}

// MobileSection is one entry of the condensed panel with all its submenu
// items, which are always expanded.
type MobileSection struct {
	Link  Link
	Items []Link
}

// MobilePanel is the toggle control plus the condensed panel.
type MobilePanel struct {
	Expanded bool
	Exiting  bool
	Phase    Phase
	Icon     Glyph
	Variant  Variant
	Sections []MobileSection
}

// PanelVisible reports whether the condensed panel must be present in the tree.
func (m MobilePanel) PanelVisible() bool {
	return m.Expanded || m.Exiting
}

// BrandView is the logo block.
type BrandView struct {
	Name       string
	Href       string
	LogoSrc    string
	LogoAlt    string
	LogoWidth  int
	LogoHeight int
	Intro      VariantSet
}

// View is the full projection of a navbar.
type View struct {
	Brand   BrandView
	Desktop []DesktopItem
	Mobile  MobilePanel
}

// OpenPanels returns the indices of desktop items whose panel is open.
func (v View) OpenPanels() []int {
	var out []int
	for _, d := range v.Desktop {
		if d.Open {
			out = append(out, d.Index)
		}
	}
	return out
}

// Project renders state against catalog with no transition in progress.
func Project(catalog domain.Catalog, state domain.State) View {
	return Transition(catalog, state, state)
}

// Transition renders next and marks the slots that were visible in prev
// but are not any more, so they can play their exit variant. Only the
// latest state decides what is open.
func Transition(catalog domain.Catalog, prev, next domain.State) View {
	v := View{
		Brand: BrandView{
			Name:       catalog.Brand.Name,
			Href:       catalog.Brand.Href,
			LogoSrc:    catalog.Brand.LogoSrc,
			LogoAlt:    catalog.Brand.LogoAlt,
			LogoWidth:  catalog.Brand.LogoWidth,
			LogoHeight: catalog.Brand.LogoHeight,
			Intro:      BrandVariants,
		},
		Desktop: make([]DesktopItem, 0, len(catalog.Entries)),
	}

	ids := make(map[string]bool, len(catalog.Entries))
	for i, e := range catalog.Entries {
		item := DesktopItem{
			Index:      i,
			Link:       Link{Name: e.Name, Href: e.Href},
			HasSubmenu: e.HasSubmenu(),
			PanelID:    panelID(e.Name, i, ids),
			Variant:    DropdownVariants.Hidden,
		}
		wasOpen := item.HasSubmenu && prev.ActiveDropdown == i
		item.Open = item.HasSubmenu && next.ActiveDropdown == i
		item.Exiting = wasOpen && !item.Open
		item.Phase = phaseOf(wasOpen, item.Open)

		switch {
		case item.Open:
			item.Variant = DropdownVariants.Visible
		case item.Exiting:
			item.Variant = DropdownVariants.Exit
		}
		if item.PanelVisible() {
			item.Submenu = subLinks(e.Submenu)
		}
		v.Desktop = append(v.Desktop, item)
	}

	v.Mobile = MobilePanel{
		Expanded: next.MobileMenuOpen,
		Exiting:  prev.MobileMenuOpen && !next.MobileMenuOpen,
		Phase:    phaseOf(prev.MobileMenuOpen, next.MobileMenuOpen),
		Icon:     GlyphHamburger,
		Variant:  MobileVariants.Hidden,
	}
	switch {
	case v.Mobile.Expanded:
		v.Mobile.Icon = GlyphClose
		v.Mobile.Variant = MobileVariants.Visible
	case v.Mobile.Exiting:
		v.Mobile.Variant = MobileVariants.Exit
	}
	if v.Mobile.PanelVisible() {
		v.Mobile.Sections = make([]MobileSection, 0, len(catalog.Entries))
		for _, e := range catalog.Entries {
			v.Mobile.Sections = append(v.Mobile.Sections, MobileSection{
				Link:  Link{Name: e.Name, Href: e.Href},
				Items: subLinks(e.Submenu),
			})
		}
	}

	return v
}

// panelID slugs the entry name; nameless or colliding entries fall back
// to their index.
func panelID(name string, index int, seen map[string]bool) string {
	id := "nav-dropdown-" + slug.Make(name)
	if id == "nav-dropdown-" || seen[id] {
		id = "nav-dropdown-" + strconv.Itoa(index)
	}
	seen[id] = true
	return id
}

func subLinks(items []domain.SubEntry) []Link {
	if len(items) == 0 {
		return nil
	}
	out := make([]Link, len(items))
	for i, s := range items {
		out[i] = Link{Name: s.Name, Href: s.Href}
	}
	return out
}
