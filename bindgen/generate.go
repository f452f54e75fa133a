package bindgen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

var formatOptions = &imports.Options{
	FormatOnly: true,
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
}

// Generate renders the plan into Go source files keyed by file name. The
// output is byte-identical for identical models and options.
func Generate(p *Plan) (map[string][]byte, error) {
	digest, err := p.Model.Digest()
	if err != nil {
		return nil, fmt.Errorf("digesting model: %w", err)
	}
	header := fmt.Sprintf("Code generated by gdext from extension_api.json (%s, model %x). DO NOT EDIT.",
		p.Model.Header.String(), digest[:8])

	files := map[string]*jen.File{
		"classes.go":   p.emitClasses(),
		"enums.go":     p.emitEnums(),
		"utilities.go": p.emitUtilities(),
		"register.go":  p.emitRegister(),
	}

	// Emission above reads the plan; rendering only touches each file.
	var (
		g   errgroup.Group
		mu  sync.Mutex
		out = make(map[string][]byte, len(files))
	)
	for name, f := range files {
		g.Go(func() error {
			f.HeaderComment(header)
			var buf bytes.Buffer
			if err := f.Render(&buf); err != nil {
				return fmt.Errorf("rendering %s: %w", name, err)
			}
			src, err := imports.Process(name, buf.Bytes(), formatOptions)
			if err != nil {
				return fmt.Errorf("formatting %s: %w", name, err)
			}
			mu.Lock()
			out[name] = src
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Infof("generated %d files for %d classes", len(out), len(p.Classes))
	return out, nil
}

// WriteFiles writes generated files into dir, creating it if needed, and
// returns the written paths in name order.
func WriteFiles(dir string, files map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, files[name], 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		log.Debugf("wrote %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}
