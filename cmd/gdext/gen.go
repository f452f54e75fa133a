package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/StatisMike/gdext/bindgen"
)

// runGen processes the `gdext gen` subcommand.
// Usage:
//
//	gdext gen                         # everything from gdext.toml
//	gdext gen -api api.json -o ./gen  # ad-hoc
//	gdext gen -package godot          # custom package name
func runGen(args []string, out io.Writer) error {
	s, err := loadSettings(".")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	apply := s.bindSchemaFlags(fs)
	output := fs.String("o", "", "Output directory")
	pkg := fs.String("package", "", "Go package name of the generated code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	apply()
	if *output != "" {
		s.outputDir = *output
	}
	if *pkg != "" {
		s.pkg = *pkg
	}

	p, err := s.plan()
	if err != nil {
		return err
	}
	files, err := bindgen.Generate(p)
	if err != nil {
		return err
	}
	paths, err := bindgen.WriteFiles(s.outputDir, files)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Generated %d classes for %s (%s) into %s\n",
		len(p.Classes), p.Model.Header.String(), p.Config, s.outputDir)
	for _, path := range paths {
		fmt.Fprintf(out, "  %s\n", path)
	}
	return nil
}
