package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/analysis"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"
)

const (
	historyFile = ".ahkc_history"
	promptMain  = "ahk> "
	promptCont  = "...  "
	replURI     = "repl.ahk"
)

const replHelp = `Lines are appended to a session script that is re-analyzed on every entry.
Commands:
  :symbols       print the session symbol table
  :calls         print the session call sites
  :tokens SRC    print the tokens of SRC
  :ast SRC       print the syntax tree of SRC
  :source        print the session script
  :v1, :v2       switch dialect
  :reset         clear the session
  :quit          exit`

// session is the state of an interactive session: the script entered so
// far and the dialect it is analyzed in.
type session struct {
	dialect syntax.Dialect
	lines   []string
	out     io.Writer
}

func newSession(d syntax.Dialect, out io.Writer) *session {
	return &session{dialect: d, out: out}
}

// eval handles one complete input. It reports false when the session
// should end.
func (s *session) eval(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return true
	}
	if !strings.HasPrefix(trimmed, ":") {
		s.add(input)
		return true
	}

	cmd, arg, _ := strings.Cut(trimmed, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return false
	case ":help":
		fmt.Fprintln(s.out, replHelp)
	case ":reset":
		s.lines = nil
	case ":v1":
		s.dialect = syntax.V1
	case ":v2":
		s.dialect = syntax.V2
	case ":source":
		for i, line := range s.lines {
			fmt.Fprintf(s.out, "%4d  %s\n", i+1, line)
		}
	case ":symbols":
		_, ares := s.analyze()
		fmt.Fprint(s.out, ares.Table.String())
	case ":calls":
		_, ares := s.analyze()
		for _, cs := range ares.CallSites {
			fmt.Fprintf(s.out, "%s %s/%d\n", cs.Site, cs.Callee(), len(cs.ArgPositions))
		}
	case ":tokens":
		toks, _, _ := syntax.Tokenize(arg, s.dialect)
		for _, tok := range toks {
			fmt.Fprintf(s.out, "%-12s %-12s %s\n", tok.Range(), tok.Kind, formatLiteral(tok.Text))
		}
	case ":ast":
		res := syntax.ParseFile(replURI, arg, s.dialect)
		syntax.Fprint(s.out, res.File)
		for _, e := range res.SyntaxErrors {
			fmt.Fprintln(s.out, e.Error())
		}
	default:
		fmt.Fprintf(s.out, "unknown command %s. Type :help for a list.\n", cmd)
	}
	return true
}

// add appends input to the session script and reports the problems found
// in the new lines.
func (s *session) add(input string) {
	first := uint32(len(s.lines))
	s.lines = append(s.lines, strings.Split(input, "\n")...)

	pres, ares := s.analyze()
	for _, e := range pres.TokenErrors {
		if e.Range.Start.Line() >= first {
			fmt.Fprintln(s.out, e.Error())
		}
	}
	for _, e := range pres.SyntaxErrors {
		if e.Range.Start.Line() >= first {
			fmt.Fprintln(s.out, e.Error())
		}
	}
	for _, d := range ares.Diagnostics {
		if d.Range.Start.Line() >= first {
			fmt.Fprintln(s.out, d.Error())
		}
	}
}

func (s *session) analyze() (*syntax.Result, *analysis.Result) {
	pres := syntax.ParseFile(replURI, strings.Join(s.lines, "\n"), s.dialect)
	ares := analysis.Analyze(pres.File, analysis.Builtins(s.dialect), &analysis.Config{Dialect: s.dialect})
	return pres, ares
}

// incomplete reports whether src leaves a brace block open.
func incomplete(src string, d syntax.Dialect) bool {
	toks, _, _ := syntax.Tokenize(src, d)
	depth := 0
	for _, tok := range toks {
		switch tok.Text {
		case "{":
			depth++
		case "}":
			depth--
		}
	}
	return depth > 0
}

func runREPL(d syntax.Dialect) int {
	fmt.Printf("ahkc %s (%s). Type :help for commands.\n", Version, d)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := newSession(d, os.Stdout)
	for {
		input, ok := readInput(ln, s.dialect)
		if !ok {
			fmt.Println()
			return 0
		}
		if !s.eval(input) {
			return 0
		}
		if strings.TrimSpace(input) != "" {
			ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		}
	}
}

// readInput reads lines until the braces of the input are balanced.
func readInput(ln *liner.State, d syntax.Dialect) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if src := b.String(); strings.HasPrefix(strings.TrimSpace(src), ":") || !incomplete(src, d) {
			return src, true
		}
	}
}
