// Command barefootjsc is the CLI entrypoint for the compiler (spec §10.3).
// The core (internal/...) never logs and never exits the process; this
// command is the only place that does either, matching the teacher's own
// cmd/astro minimalism — a thin shell around the library.
package main

import (
	"log"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "barefootjsc",
		Short: "Compile barefootjs components into marked templates and hydration scripts",
	}
	root.AddCommand(newCompileCmd())
	return root
}
