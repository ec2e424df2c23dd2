package navfile

// File is the root structure of a navbar catalog file.
//
//	brand:
//	  name: therahulkumar.dev
//	  logo: /profile.png
//	entries:
//	  - name: Portfolio
//	    href: /portfolio
//	    submenu:
//	      - name: Web Projects
//	        href: /portfolio/web
type File struct {
	Brand   *BrandProps  `yaml:"brand,omitempty"`
	Entries []EntryProps `yaml:"entries"`
}

// BrandProps overrides the default brand block field by field
type BrandProps struct {
	Name       string `yaml:"name,omitempty"`
	Href       string `yaml:"href,omitempty"`
	Logo       string `yaml:"logo,omitempty"`
	LogoAlt    string `yaml:"logo_alt,omitempty"`
	LogoWidth  int    `yaml:"logo_width,omitempty"`
	LogoHeight int    `yaml:"logo_height,omitempty"`
}

// EntryProps is one top-level navigation entry
type EntryProps struct {
	Name    string      `yaml:"name"`
	Href    string      `yaml:"href"`
	Submenu []LinkProps `yaml:"submenu,omitempty"`
}

// LinkProps is one submenu item
type LinkProps struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}
