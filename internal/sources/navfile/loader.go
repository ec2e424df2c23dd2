// Package navfile reads the navbar catalog from a YAML file.
package navfile

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/navbar/internal/domain"
)

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader handles loading and parsing of a catalog file
type Loader struct {
	filePath string
	mapper   *Mapper
}

// NewLoader creates a new catalog loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
		mapper:   NewMapper(),
	}
}

// Path returns the file the loader reads
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads and parses the catalog file
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return File{}, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// LoadCatalog reads the file and maps it to a domain catalog
func (l *Loader) LoadCatalog() (domain.Catalog, error) {
	f, err := l.Load()
	if err != nil {
		return domain.Catalog{}, err
	}
	return l.mapper.MapCatalog(f)
}

// Parse decodes catalog YAML. Template variables ({{SOME_VAR}}) are
// replaced with empty strings first.
func Parse(data []byte) (File, error) {
	data = stripTemplateVariables(data)

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}
	return f, nil
}

// stripTemplateVariables removes template variables from YAML
// Example: {{SITE_URL}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
