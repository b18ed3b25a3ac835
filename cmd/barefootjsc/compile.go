package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/pkg/diff"

	"github.com/kfly8/barefootjs-sub004/internal/adapter/bftemplate"
	"github.com/kfly8/barefootjs-sub004/internal/compiler"
)

func newCompileCmd() *cobra.Command {
	var outDir string
	var cssLayer string
	var emitIR bool
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a component source file into a marked template and hydration script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(args[0], outDir, cssLayer, emitIR, showDiff)
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory to write outputs to (defaults to the input file's directory)")
	cmd.Flags().StringVar(&cssLayer, "css-layer", "", "CSS layer name to prefix rules with (defaults to the component name)")
	cmd.Flags().BoolVar(&emitIR, "ir", false, "also emit the lowered IR as JSON")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a diff against any existing output files instead of writing them")

	return cmd
}

func runCompile(inputPath, outDir, cssLayer string, emitIR, showDiff bool) error {
	source, err := os.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("barefootjsc: reading %s: %v", inputPath, err)
	}

	res := compiler.Compile(string(source), inputPath, compiler.Options{
		OutputIR:       emitIR,
		CSSLayerPrefix: cssLayer,
		Adapter:        bftemplate.Adapter{},
	})

	for _, d := range res.Errors {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if len(res.Files) == 0 {
		return nil
	}

	for _, f := range res.Files {
		dest := f.Path
		if outDir != "" {
			dest = filepath.Join(outDir, filepath.Base(f.Path))
		}
		if showDiff {
			if err := printDiff(dest, f.Content); err != nil {
				log.Fatalf("barefootjsc: diffing %s: %v", dest, err)
			}
			continue
		}
		if err := writeFile(dest, f.Content); err != nil {
			log.Fatalf("barefootjsc: writing %s: %v", dest, err)
		}
	}

	return nil
}

func writeFile(dest, content string) error {
	if dir := filepath.Dir(dest); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(dest, []byte(content), 0o644)
}

// printDiff shows what compiling would change without touching disk: an
// empty "before" side when dest doesn't exist yet, same as comparing against
// a fresh file.
func printDiff(dest, content string) error {
	before, err := os.ReadFile(dest)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		before = nil
	}

	return diff.Text(dest, dest+" (compiled)", strings.NewReader(string(before)), strings.NewReader(content), os.Stdout)
}
