package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/StatisMike/gdext/catalog"
)

// runCatalog processes the `gdext catalog` subcommand.
// Usage:
//
//	gdext catalog                     # export to the path in gdext.toml
//	gdext catalog -db ./api.db        # custom database
//	gdext catalog -class Node3D       # export, then print the bases of Node3D
func runCatalog(args []string, out io.Writer) error {
	s, err := loadSettings(".")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	apply := s.bindSchemaFlags(fs)
	dbPath := fs.String("db", "", "Catalog database path")
	class := fs.String("class", "", "Print the upcast edges of this class after exporting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	apply()
	if *dbPath != "" {
		s.catalogPath = *dbPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p, err := s.plan()
	if err != nil {
		return err
	}
	c, err := catalog.Open(ctx, s.catalogPath)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Export(ctx, p); err != nil {
		return err
	}
	meta, err := c.Meta(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported %d classes of %s to %s\n", len(p.Classes), meta.APIVersion, c.Path())

	if *class == "" {
		return nil
	}
	bases, err := c.Bases(ctx, *class)
	if err != nil {
		return err
	}
	derived, err := c.Derived(ctx, *class)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", *class)
	for _, e := range bases {
		fmt.Fprintf(out, "  -> %s (%d)\n", e.Base, e.Distance)
	}
	for _, e := range derived {
		fmt.Fprintf(out, "  <- %s (%d)\n", e.Derived, e.Distance)
	}
	return nil
}
