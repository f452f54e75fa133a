// gdext CLI - generates typed Go bindings from an extension API description
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	debug := flag.Bool("debug", false, "Debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gdext [options] <command> [command options]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  gen      Generate Go bindings from extension_api.json\n")
		fmt.Fprintf(os.Stderr, "  check    Validate extension_api.json and print a summary\n")
		fmt.Fprintf(os.Stderr, "  catalog  Export the class model into a SQLite catalog\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSettings are read from the nearest gdext.toml; command flags override them.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  gdext gen                                # use gdext.toml\n")
		fmt.Fprintf(os.Stderr, "  gdext gen -api api.json -o ./engine      # ad-hoc\n")
		fmt.Fprintf(os.Stderr, "  gdext gen -include Node3D,Resource       # only these classes and their bases\n")
		fmt.Fprintf(os.Stderr, "  gdext catalog -class Node3D              # export, then list the bases of Node3D\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	if *debug {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "gen":
		err = runGen(args[1:], os.Stdout)
	case "check":
		err = runCheck(args[1:], os.Stdout)
	case "catalog":
		err = runCatalog(args[1:], os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
