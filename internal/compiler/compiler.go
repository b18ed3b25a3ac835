// Package compiler implements spec §6.1/§6.2: the single-file Compile
// Driver that orchestrates every other pass into one compile operation, plus
// the TemplateAdapter interface that component 7 in spec §2 treats as an
// opaque sink. It owns nothing the other passes don't already own — per
// spec §5, the diagnostic list is the only shared state, and it is created
// fresh per compile unit (no state survives across units, so compiles may
// run concurrently without coordination).
package compiler

import (
	"fmt"
	"path"
	"strings"

	"github.com/kfly8/barefootjs-sub004/internal/analyzer"
	"github.com/kfly8/barefootjs-sub004/internal/ast"
	"github.com/kfly8/barefootjs-sub004/internal/clientjs"
	"github.com/kfly8/barefootjs-sub004/internal/cssprefix"
	"github.com/kfly8/barefootjs-sub004/internal/handler"
	"github.com/kfly8/barefootjs-sub004/internal/helpers"
	"github.com/kfly8/barefootjs-sub004/internal/ir"
	"github.com/kfly8/barefootjs-sub004/internal/loc"
	"github.com/kfly8/barefootjs-sub004/internal/sourceparse"
	"github.com/kfly8/barefootjs-sub004/internal/typestrip"
)

// OutputType identifies which artifact a FileOutput carries (spec §6.1).
type OutputType int

const (
	MarkedTemplate OutputType = iota
	ClientJS
	IRDump
)

// FileOutput is one emitted artifact, per spec §6.1.
type FileOutput struct {
	Path    string
	Content string
	Type    OutputType
}

// TemplateAdapterResult is the adapter's own return shape (spec §6.2): a
// template body plus whatever import/type line groups the adapter wants the
// driver to merge across components in a multi-component file.
type TemplateAdapterResult struct {
	Template string
	Imports  []string // raw `import ... from '...'` lines
	Types    []string // raw type-declaration lines, passed through verbatim
}

// TemplateAdapter is the external collaborator spec §6.2 names: the
// per-backend renderer that turns a component's IR into that backend's
// template syntax. The core treats it as an opaque sink; internal/adapter
// ships one concrete implementation.
type TemplateAdapter interface {
	Extension() string
	Generate(root *ir.Root, ctx *analyzer.AnalyzerContext) (TemplateAdapterResult, error)
}

// Options configures a compile (spec §6.1).
type Options struct {
	OutputIR       bool
	CSSLayerPrefix string
	Adapter        TemplateAdapter
}

// Result is what Compile and CompileAsync return.
type Result struct {
	Files  []FileOutput
	Errors []loc.DiagnosticMessage
}

// ReadFile is the async collaborator CompileAsync uses to resolve
// multi-file imports (spec §6.1). The core never calls the filesystem
// itself; everything it needs arrives through this seam.
type ReadFile func(path string) (string, error)

// Compile implements spec §6.1's synchronous single-file entry point. It
// never panics across the compile boundary (spec §7): every failure mode is
// represented as a diagnostic in the returned Result, except genuine
// internal bugs.
func Compile(sourceText, filePath string, options Options) Result {
	h := handler.New(sourceText, filePath)

	// Type declarations must be captured before type-strip erases them —
	// typestrip.Strip exists to produce valid-JS text for client emission,
	// not to feed the parser, so it must not run ahead of this call. The
	// regex scan doesn't understand comments, so a commented-out example
	// `interface`/`type` block would otherwise be picked up as a real
	// declaration; scrub comments first and fall back to the raw text if
	// the source has an unterminated comment.
	typeScanText := sourceText
	if cleaned, err := helpers.RemoveComments(sourceText); err == nil {
		typeScanText = cleaned
	}
	typeDefs := analyzer.ExtractTypeDefinitions(typeScanText)

	stripped := typestrip.Strip(sourceText)
	prog, err := sourceparse.Parse(stripped)
	if err != nil {
		h.AppendError(loc.NewError(loc.MalformedComponentShape, err.Error(), loc.Loc{}, 0))
		return Result{Errors: h.Diagnostics()}
	}

	components := splitComponents(prog)
	if len(components) == 0 {
		components = []*componentUnit{{prog: prog}}
	}

	var files []FileOutput
	var mergedImports []string
	var mergedTypes []string
	var templateBodies []string

	for _, unit := range components {
		out, ok := compileOne(unit.prog, filePath, options, h, typeDefs)
		if !ok {
			continue
		}
		if out.clientJS != "" {
			files = append(files, FileOutput{
				Path:    clientJSPath(filePath),
				Content: out.clientJS,
				Type:    ClientJS,
			})
		}
		if options.OutputIR {
			files = append(files, FileOutput{
				Path:    irDumpPath(filePath),
				Content: out.irDump,
				Type:    IRDump,
			})
		}
		if out.template.Template != "" {
			templateBodies = append(templateBodies, out.template.Template)
			mergedImports = mergeImportLines(mergedImports, out.template.Imports)
			mergedTypes = append(mergedTypes, out.template.Types...)
		}
	}

	if options.Adapter != nil && len(templateBodies) > 0 {
		var body strings.Builder
		for _, imp := range mergedImports {
			body.WriteString(imp)
			body.WriteString("\n")
		}
		for _, t := range mergedTypes {
			body.WriteString(t)
			body.WriteString("\n")
		}
		for _, t := range templateBodies {
			body.WriteString(t)
			body.WriteString("\n")
		}
		files = append([]FileOutput{{
			Path:    templatePath(filePath, options.Adapter.Extension()),
			Content: body.String(),
			Type:    MarkedTemplate,
		}}, files...)
	}

	return Result{Files: files, Errors: h.Diagnostics()}
}

// CompileAsync is the async form spec §6.1 names for multi-file resolution.
// This repository's core never itself needs a second file (no cross-file
// imports are followed by any pass here), so it is a thin wrapper that
// still honors the collaborator's shape: read the entry file through
// readFile, then behave exactly like Compile.
func CompileAsync(filePath string, readFile ReadFile, options Options) (Result, error) {
	source, err := readFile(filePath)
	if err != nil {
		return Result{}, fmt.Errorf("compiler: reading %s: %w", filePath, err)
	}
	return Compile(source, filePath, options), nil
}

type componentUnit struct {
	prog *ast.Program
}

// compileOneOutput bundles what a single component's pipeline run produces,
// ahead of file-path assembly (which the driver alone knows how to do).
type compileOneOutput struct {
	clientJS string
	irDump   string
	template TemplateAdapterResult
}

func compileOne(prog *ast.Program, filePath string, options Options, h *handler.Handler, typeDefs []string) (compileOneOutput, bool) {
	ctx := analyzer.Analyze(prog, filePath, h)
	if ctx.ComponentName == "" {
		return compileOneOutput{}, false
	}
	ctx.TypeDefinitions = typeDefs

	root := ir.Lower(ctx, h)
	if root == nil || root.Node == nil {
		return compileOneOutput{}, false
	}

	layer := options.CSSLayerPrefix
	if layer == "" {
		layer = cssprefix.LayerName(ctx.ComponentName)
	}
	cssprefix.Apply(root.Node, ctx, layer)

	out := compileOneOutput{
		clientJS: clientjs.Generate(ctx, root),
	}
	if bad, found := typestrip.HasResidual(out.clientJS); found {
		h.AppendError(loc.NewError(loc.TypeStripResidual,
			fmt.Sprintf("TypeScript syntax %q survived type-stripping into emitted client JS", bad),
			loc.Loc{}, 0))
	}

	if options.OutputIR {
		dump, err := ir.Dump(root, filePath, h.Diagnostics())
		if err == nil {
			out.irDump = string(dump)
		}
	}

	if options.Adapter != nil {
		result, err := options.Adapter.Generate(root, ctx)
		if err != nil {
			h.AppendError(loc.NewError(loc.MalformedComponentShape, err.Error(), loc.Loc{}, 0))
		} else {
			out.template = result
		}
	}

	return out, true
}

// splitComponents implements the "multi-component files are split by the
// driver" half of spec §6.2: each top-level component-shaped function
// becomes its own compile unit sharing the file's import declarations, so
// analyzer/IR lowering run once per component rather than once per file.
// A file with a single component function is still one unit; files with
// none fall back to the caller's single-unit default so the analyzer's own
// MalformedComponentShape diagnostic fires exactly once.
func splitComponents(prog *ast.Program) []*componentUnit {
	var candidates []*ast.FunctionDecl
	for _, stmt := range prog.Body {
		fn, ok := stmt.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		if fn.IsDefaultExport || fn.IsNamedExport || isComponentName(fn.Name) {
			candidates = append(candidates, fn)
		}
	}
	if len(candidates) <= 1 {
		return nil
	}
	units := make([]*componentUnit, 0, len(candidates))
	for _, fn := range candidates {
		units = append(units, &componentUnit{prog: &ast.Program{
			Imports: prog.Imports,
			Body:    []ast.Statement{fn},
			Range:   prog.Range,
		}})
	}
	return units
}

func isComponentName(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

func clientJSPath(filePath string) string {
	return trimExt(filePath) + ".client.js"
}

func irDumpPath(filePath string) string {
	return trimExt(filePath) + ".ir.json"
}

func templatePath(filePath, ext string) string {
	return trimExt(filePath) + "." + strings.TrimPrefix(ext, ".")
}

func trimExt(filePath string) string {
	ext := path.Ext(filePath)
	return strings.TrimSuffix(filePath, ext)
}

// mergeImportLines merges two `import { a, b } from 'X'` line sets by
// source module, with named bindings alphabetically sorted within each
// source (spec §6.2).
func mergeImportLines(existing, incoming []string) []string {
	bySource := map[string][]string{}
	var order []string
	addLine := func(line string) {
		src, names, ok := parseImportLine(line)
		if !ok {
			if _, seen := bySource[line]; !seen {
				order = append(order, line)
			}
			bySource[line] = nil
			return
		}
		if _, seen := bySource[src]; !seen {
			order = append(order, src)
		}
		bySource[src] = append(bySource[src], names...)
	}
	for _, l := range existing {
		addLine(l)
	}
	for _, l := range incoming {
		addLine(l)
	}
	out := make([]string, 0, len(order))
	for _, key := range order {
		names := bySource[key]
		if names == nil {
			out = append(out, key)
			continue
		}
		out = append(out, renderImportLine(key, dedupeSorted(names)))
	}
	return out
}

func parseImportLine(line string) (source string, names []string, ok bool) {
	l := strings.TrimSpace(line)
	if !strings.HasPrefix(l, "import ") || !strings.Contains(l, "{") {
		return "", nil, false
	}
	fromIdx := strings.LastIndex(l, " from ")
	if fromIdx == -1 {
		return "", nil, false
	}
	source = strings.Trim(strings.TrimSpace(l[fromIdx+len(" from "):]), `'";`)
	open := strings.IndexByte(l, '{')
	closeIdx := strings.IndexByte(l, '}')
	if open == -1 || closeIdx == -1 {
		return "", nil, false
	}
	for _, n := range strings.Split(l[open+1:closeIdx], ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			names = append(names, n)
		}
	}
	return source, names, true
}

func renderImportLine(source string, names []string) string {
	return fmt.Sprintf("import { %s } from '%s';", strings.Join(names, ", "), source)
}

func dedupeSorted(names []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sortStrings(out)
	return out
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
