package main

import (
	"flag"
	"fmt"
	"io"
)

// runCheck validates the schema and prints what it describes.
func runCheck(args []string, out io.Writer) error {
	s, err := loadSettings(".")
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	apply := s.bindSchemaFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	apply()

	m, err := s.loadModel()
	if err != nil {
		return err
	}
	digest, err := m.Digest()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (%s)\n", m.Header.FullName, m.Header.String())
	fmt.Fprintf(out, "  build config: %s\n", m.BuildConfig())
	fmt.Fprintf(out, "  classes:      %d\n", len(m.Classes()))
	fmt.Fprintf(out, "  builtins:     %d\n", len(m.Builtins))
	fmt.Fprintf(out, "  global enums: %d\n", len(m.GlobalEnums))
	fmt.Fprintf(out, "  utilities:    %d\n", len(m.Utilities))
	fmt.Fprintf(out, "  singletons:   %d\n", len(m.Singletons))
	fmt.Fprintf(out, "  digest:       %x\n", digest)
	return nil
}
