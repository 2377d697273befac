package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/tzlang/pkg"
)

// Version prints the program version.
type Version struct {
	Verbose bool `help:"Also print the configuration and cache paths." short:"v"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	stdout, _ := output(ctx)

	fmt.Fprintln(stdout, pkg.Name, pkg.Version)

	if !v.Verbose {
		return nil
	}

	var vars map[string]string
	if ktx := kongContextFrom(ctx); ktx != nil {
		vars = ktx.Model.Vars()
	}

	fmt.Fprintf(stdout, "config: %s.{json,yaml}\n", vars[ConfigIdentifier])
	fmt.Fprintf(stdout, "cache:  %s\n", vars[CacheIdentifier])
	fmt.Fprintf(stdout, "%s: %s\n", PathEnv(), os.Getenv(PathEnv()))

	return nil
}
