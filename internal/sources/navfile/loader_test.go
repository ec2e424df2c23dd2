package navfile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "navbar.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writeFile(t, `---
brand:
  name: example.dev
entries:
  - name: Portfolio
    href: /portfolio
    submenu:
      - name: Web Projects
        href: /portfolio/web
  - name: About
    href: /about
`)

	f, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(f.Entries) != 2 {
		t.Fatalf("Load() returned %d entries, want 2", len(f.Entries))
	}
	if f.Brand == nil || f.Brand.Name != "example.dev" {
		t.Errorf("Brand = %+v", f.Brand)
	}
	if len(f.Entries[0].Submenu) != 1 || f.Entries[0].Submenu[0].Href != "/portfolio/web" {
		t.Errorf("Submenu = %+v", f.Entries[0].Submenu)
	}
}

func TestLoaderLoadWithTemplateVariables(t *testing.T) {
	path := writeFile(t, `---
entries:
  - name: Shop
    href: {{SHOP_URL}}
`)

	cat, err := NewLoader(path).LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if cat.Entries[0].Href != "" {
		t.Errorf("Href = %q, want template stripped to empty", cat.Entries[0].Href)
	}
}

func TestLoaderLoadMissingFile(t *testing.T) {
	if _, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load(); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("entries: [unterminated")); err == nil {
		t.Error("Parse() accepted invalid yaml")
	}
}

func TestStripTemplateVariables(t *testing.T) {
	got := string(stripTemplateVariables([]byte("href: {{A}}/{{B_C}}")))
	if got != `href: ""/""` {
		t.Errorf("stripTemplateVariables() = %q", got)
	}
}
