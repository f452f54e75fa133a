// Package manifest handles gdext.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/StatisMike/gdext/schema"
)

// FileName is the name of the project configuration file.
const FileName = "gdext.toml"

// Manifest represents a gdext.toml project configuration.
type Manifest struct {
	API     API     `toml:"api"`
	Output  Output  `toml:"output"`
	Classes Classes `toml:"classes"`
	Catalog Catalog `toml:"catalog"`

	// Dir is the directory containing the gdext.toml file (set at load time).
	Dir string `toml:"-"`
}

// API locates the schema and selects the float precision.
type API struct {
	Path      string `toml:"path"`
	Precision string `toml:"precision"`
}

// Output configures where generated bindings go.
type Output struct {
	Dir     string `toml:"dir"`
	Package string `toml:"package"`
}

// Classes narrows which engine classes are generated.
type Classes struct {
	Include  []string `toml:"include"`
	APITypes []string `toml:"api-types"`
}

// Catalog configures the SQLite export of the model.
type Catalog struct {
	Path string `toml:"path"`
}

// Load parses a gdext.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.API.Path == "" {
		m.API.Path = "extension_api.json"
	}
	if m.Output.Dir == "" {
		m.Output.Dir = "engine"
	}
	if m.Output.Package == "" {
		m.Output.Package = filepath.Base(m.Output.Dir)
	}
	if m.Catalog.Path == "" {
		m.Catalog.Path = filepath.Join(".gdext", "catalog.db")
	}

	if _, err := m.Precision(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a gdext.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Precision parses the configured float precision.
func (m *Manifest) Precision() (schema.Precision, error) {
	return schema.ParsePrecision(m.API.Precision)
}

// APIPath returns the absolute path of the schema file.
func (m *Manifest) APIPath() string {
	return m.resolve(m.API.Path)
}

// OutputDir returns the absolute path of the generated package.
func (m *Manifest) OutputDir() string {
	return m.resolve(m.Output.Dir)
}

// CatalogPath returns the absolute path of the catalog database.
func (m *Manifest) CatalogPath() string {
	return m.resolve(m.Catalog.Path)
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}
