// Command shellwrapper runs a directory of shell fragments in order.
//
// It resolves the fragment directory relative to its own location, then
// either checks the configured interpreters (--check) or walks the tree and
// runs every fragment selected by the tag argument.
package main

import (
	"context"
	"os"

	"github.com/backmassage/shellwrapper/internal/cli"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(cli.Execute(context.Background(), version+" ("+commit+")", os.Args[1:], os.Stdout, os.Stderr))
}
