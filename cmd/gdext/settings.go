package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/StatisMike/gdext/bindgen"
	"github.com/StatisMike/gdext/manifest"
	"github.com/StatisMike/gdext/schema"
)

// settings is the merged view of gdext.toml and command flags.
type settings struct {
	apiPath     string
	precision   string
	outputDir   string
	pkg         string
	include     []string
	apiTypes    []string
	catalogPath string
}

// loadSettings starts from the manifest found at or above dir, or from the
// built-in defaults when there is none.
func loadSettings(dir string) (*settings, error) {
	m, err := manifest.FindAndLoad(dir)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	if m == nil {
		return &settings{
			apiPath:     "extension_api.json",
			outputDir:   "engine",
			catalogPath: filepath.Join(".gdext", "catalog.db"),
		}, nil
	}
	return &settings{
		apiPath:     m.APIPath(),
		precision:   m.API.Precision,
		outputDir:   m.OutputDir(),
		pkg:         m.Output.Package,
		include:     m.Classes.Include,
		apiTypes:    m.Classes.APITypes,
		catalogPath: m.CatalogPath(),
	}, nil
}

// bindSchemaFlags registers the flags shared by every command. Empty flag
// values keep the manifest setting.
func (s *settings) bindSchemaFlags(fs *flag.FlagSet) (apply func()) {
	api := fs.String("api", "", "Path to extension_api.json")
	precision := fs.String("precision", "", "Float precision: single or double")
	include := fs.String("include", "", "Comma-separated classes to generate (with their bases)")
	apiTypes := fs.String("api-types", "", "Comma-separated api_type filter, e.g. core")
	return func() {
		if *api != "" {
			s.apiPath = *api
		}
		if *precision != "" {
			s.precision = *precision
		}
		if *include != "" {
			s.include = splitList(*include)
		}
		if *apiTypes != "" {
			s.apiTypes = splitList(*apiTypes)
		}
	}
}

func (s *settings) loadModel() (*schema.Model, error) {
	precision, err := schema.ParsePrecision(s.precision)
	if err != nil {
		return nil, err
	}
	return schema.Load(s.apiPath, schema.Options{Precision: precision})
}

func (s *settings) plan() (*bindgen.Plan, error) {
	m, err := s.loadModel()
	if err != nil {
		return nil, err
	}
	return bindgen.NewPlan(m, bindgen.Options{
		Package:  s.pkg,
		Include:  s.include,
		APITypes: s.apiTypes,
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
