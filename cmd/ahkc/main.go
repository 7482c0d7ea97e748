// Package main implements ahkc, a command-line front end for the
// AutoHotkey analyzer: it checks scripts, dumps tokens, trees and symbol
// tables, and maintains a workspace symbol index.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/analysis"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/index"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/workspace"
)

// Command-line flags
var (
	emitTokens  = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST     = flag.Bool("emit-ast", false, "Output syntax tree")
	astFormat   = flag.String("ast-format", "text", "Syntax tree output format (text or json)")
	emitSymbols = flag.Bool("emit-symbols", false, "Output symbol table")
	emitCalls   = flag.Bool("emit-calls", false, "Output call sites and includes")
	forceV2     = flag.Bool("v2", false, "Treat input as AutoHotkey v2 regardless of #Requires")
	indexPath   = flag.String("index", "", "Symbol index database; input files are added to it")
	find        = flag.String("find", "", "Look up a name in the index")
	search      = flag.String("search", "", "Fuzzy search the index")
	repl        = flag.Bool("repl", false, "Start an interactive session")
	version     = flag.Bool("version", false, "Print version")
	verbose     = flag.Bool("v", false, "Verbose logging")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ahkc %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: ahkc [options] <file.ahk>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	setupLogging(*verbose)

	if *version {
		fmt.Printf("ahkc version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	if *repl {
		d := syntax.V1
		if *forceV2 {
			d = syntax.V2
		}
		os.Exit(runREPL(d))
	}

	args := flag.Args()
	if *indexPath != "" {
		os.Exit(runIndex(*indexPath, args, *find, *search))
	}
	if *find != "" || *search != "" {
		fmt.Fprintln(os.Stderr, "error: -find and -search need -index")
		os.Exit(2)
	}

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: ahkc [options] <file.ahk>...")
		os.Exit(1)
	}

	code := 0
	for _, filename := range args {
		var c int
		switch {
		case *emitTokens:
			c = runEmitTokens(filename)
		case *emitAST:
			c = runEmitAST(filename)
		case *emitSymbols:
			c = runEmitSymbols(filename)
		case *emitCalls:
			c = runEmitCalls(filename)
		default:
			c = runCheck(filename)
		}
		if c > code {
			code = c
		}
	}
	os.Exit(code)
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// source is a loaded input file.
type source struct {
	path    string
	text    string
	dialect syntax.Dialect
}

func load(filename string) (*source, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	path, err := filepath.Abs(filename)
	if err != nil {
		path = filename
	}
	text := string(data)
	d := workspace.DetectDialect(text)
	if *forceV2 {
		d = syntax.V2
	}
	return &source{path: path, text: text, dialect: d}, nil
}

// analyze parses and analyzes src, resolving includes from disk.
func analyze(src *source) (*syntax.Result, *analysis.Result) {
	inc := workspace.NewIncludes(src.dialect, filepath.Dir(src.path))
	return workspace.AnalyzeFile(src.path, src.text, src.dialect, inc)
}

// runCheck reports all diagnostics of a file. The exit code is 1 if any
// of them is an error.
func runCheck(filename string) int {
	src, err := load(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	pres, ares := analyze(src)

	failed := false
	for _, e := range pres.TokenErrors {
		fmt.Fprintf(os.Stderr, "%s:%s\n", filename, e.Error())
		failed = true
	}
	for _, e := range pres.SyntaxErrors {
		fmt.Fprintf(os.Stderr, "%s:%s\n", filename, e.Error())
		failed = true
	}
	for _, d := range ares.Diagnostics {
		fmt.Fprintf(os.Stderr, "%s:%s\n", filename, d.Error())
		if d.Severity == analysis.SeverityError {
			failed = true
		}
	}
	if failed {
		return 1
	}
	return 0
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	src, err := load(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	toks, comments, errs := syntax.Tokenize(src.text, src.dialect)

	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "TEXT")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))
	for _, tok := range toks {
		fmt.Printf("%-20s %-12s %s\n", tok.Range(), tok.Kind, formatLiteral(tok.Text))
	}
	for _, c := range comments {
		fmt.Printf("%-20s %-12s %s\n", c.Range, "comment", formatLiteral(c.Text))
	}

	if len(errs) > 0 {
		fmt.Println()
		fmt.Println("Errors:")
		for _, e := range errs {
			fmt.Printf("  %s:%s\n", filename, e.Error())
		}
		return 1
	}
	return 0
}

// formatLiteral quotes text for display, escaping special characters.
func formatLiteral(lit string) string {
	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		case 0:
			b.WriteString("\\0")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// runEmitAST parses the input file and outputs the tree.
func runEmitAST(filename string) int {
	src, err := load(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	res := syntax.ParseFile(src.path, src.text, src.dialect)

	for _, e := range res.SyntaxErrors {
		fmt.Fprintf(os.Stderr, "%s:%s\n", filename, e.Error())
	}

	switch *astFormat {
	case "json":
		if err := syntax.FprintJSON(os.Stdout, res.File); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	default:
		syntax.Fprint(os.Stdout, res.File)
	}

	if len(res.SyntaxErrors) > 0 {
		return 1
	}
	return 0
}

// runEmitSymbols analyzes the input file and prints its scope tree.
func runEmitSymbols(filename string) int {
	src, err := load(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	pres, ares := analyze(src)
	for _, e := range pres.SyntaxErrors {
		fmt.Fprintf(os.Stderr, "%s:%s\n", filename, e.Error())
	}
	for _, d := range ares.Diagnostics {
		fmt.Fprintf(os.Stderr, "%s:%s\n", filename, d.Error())
	}

	fmt.Print(ares.Table.String())
	for _, inc := range ares.Table.Includes() {
		fmt.Printf("include %s\n", inc.URI())
	}

	if len(pres.SyntaxErrors) > 0 || len(ares.Errors()) > 0 {
		return 1
	}
	return 0
}

// runEmitCalls analyzes the input file and prints its call sites and
// include directives.
func runEmitCalls(filename string) int {
	src, err := load(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	_, ares := analyze(src)

	fmt.Println("=== Call Sites ===")
	for _, cs := range ares.CallSites {
		args := make([]string, len(cs.ArgPositions))
		for i, p := range cs.ArgPositions {
			if p == nil {
				args[i] = "_"
				continue
			}
			args[i] = p.String()
		}
		kind := "call"
		if cs.IsCommand {
			kind = "command"
		}
		fmt.Printf("%-10s %-8s %s(%s)\n", cs.Site, kind, cs.Callee(), strings.Join(args, ", "))
	}

	if len(ares.Includes) > 0 {
		fmt.Println()
		fmt.Println("=== Includes ===")
		for _, inc := range ares.Includes {
			resolved := inc.Resolved
			if resolved == "" {
				resolved = "(not found)"
			}
			fmt.Printf("%-10s %s -> %s\n", inc.Range.Start, inc.Path, resolved)
		}
	}
	return 0
}

// runIndex adds files to the index at dbPath and answers -find and
// -search queries against it.
func runIndex(dbPath string, files []string, name, query string) int {
	store, err := index.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer store.Close()

	code := 0
	for _, filename := range files {
		src, err := load(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			code = 1
			continue
		}
		hash := index.Hash(src.text)
		if doc, err := store.Document(src.path); err == nil && doc != nil && doc.Hash == hash {
			slog.Debug("unchanged", "file", src.path)
			continue
		}
		_, ares := analyze(src)
		if err := store.Put(src.path, src.dialect, hash, ares.Table); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			code = 1
		}
	}

	var defs []index.Definition
	switch {
	case name != "":
		defs, err = store.Lookup(name)
	case query != "":
		defs, err = store.Search(query, 20)
	default:
		return code
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	for i := range defs {
		printDefinition(&defs[i])
	}
	return code
}

func printDefinition(d *index.Definition) {
	uri := ""
	if d.Document != nil {
		uri = d.Document.URI
	}
	fmt.Printf("%s:%s: %s %s\n", uri, d.Range().Start, d.QualifiedName(), d.Detail)
}
