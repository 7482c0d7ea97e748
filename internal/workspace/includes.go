// Package workspace connects the analyzer to the local filesystem: it
// resolves #Include paths and analyzes the included files.
package workspace

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/analysis"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/symbols"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"
)

// Includes resolves #Include paths on disk and links the tables of the
// included files. Tables are cached per resolved path, so each file is
// analyzed once; an include cycle resolves to nil.
//
// An Includes value is not safe for concurrent use.
type Includes struct {
	dialect   syntax.Dialect
	scriptDir string
	tables    map[string]*symbols.Table
}

// NewIncludes returns a resolver for a script in scriptDir.
func NewIncludes(d syntax.Dialect, scriptDir string) *Includes {
	return &Includes{dialect: d, scriptDir: scriptDir, tables: make(map[string]*symbols.Table)}
}

// ResolveInclude implements analysis.IncludeResolver.
//
// <Name> looks for Name.ahk in the Lib folder next to the script, then
// next to the including file. %A_ScriptDir% and %A_WorkingDir% are
// expanded; other variable references are left as written.
func (inc *Includes) ResolveInclude(raw, dir string) (string, bool) {
	var candidates []string
	if strings.HasPrefix(raw, "<") && strings.HasSuffix(raw, ">") {
		name := raw[1 : len(raw)-1]
		candidates = append(candidates,
			filepath.Join(inc.scriptDir, "Lib", name+".ahk"),
			filepath.Join(dir, "Lib", name+".ahk"))
	} else {
		p := inc.expand(raw)
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		candidates = append(candidates, p)
	}

	for _, p := range candidates {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		return filepath.Clean(p), true
	}
	return "", false
}

func (inc *Includes) expand(raw string) string {
	wd, _ := os.Getwd()
	vars := map[string]string{
		"a_scriptdir":  inc.scriptDir,
		"a_workingdir": wd,
	}
	var b strings.Builder
	for {
		i := strings.IndexByte(raw, '%')
		if i < 0 {
			break
		}
		j := strings.IndexByte(raw[i+1:], '%')
		if j < 0 {
			break
		}
		b.WriteString(raw[:i])
		name := raw[i+1 : i+1+j]
		if v, ok := vars[symbols.Key(name)]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(raw[i : i+j+2])
		}
		raw = raw[i+j+2:]
	}
	b.WriteString(raw)
	return filepath.FromSlash(strings.ReplaceAll(b.String(), "\\", "/"))
}

// IncludeTable implements analysis.IncludeLinker.
func (inc *Includes) IncludeTable(resolved string) *symbols.Table {
	if table, ok := inc.tables[resolved]; ok {
		return table
	}
	inc.tables[resolved] = nil

	data, err := os.ReadFile(resolved)
	if err != nil {
		slog.Warn("reading include", "file", resolved, "err", err)
		return nil
	}
	res := Analyze(resolved, string(data), inc.dialect, inc)
	slog.Debug("analyzed include", "file", resolved, "diagnostics", len(res.Diagnostics))
	inc.tables[resolved] = res.Table
	return res.Table
}

// Analyze parses and analyzes the file at path with includes resolved
// through inc, which may be nil.
func Analyze(path, src string, d syntax.Dialect, inc *Includes) *analysis.Result {
	_, res := AnalyzeFile(path, src, d, inc)
	return res
}

// AnalyzeFile is like Analyze but also returns the parse result.
func AnalyzeFile(path, src string, d syntax.Dialect, inc *Includes) (*syntax.Result, *analysis.Result) {
	conf := &analysis.Config{Dialect: d, Dir: filepath.Dir(path)}
	if inc != nil {
		conf.Includes = inc
	}
	pres := syntax.ParseFile(path, src, d)
	return pres, analysis.Analyze(pres.File, analysis.Builtins(d), conf)
}

// DetectDialect looks for a "#Requires AutoHotkey v2" line and defaults
// to v1.
func DetectDialect(text string) syntax.Dialect {
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || !strings.EqualFold(fields[0], "#Requires") || !strings.EqualFold(fields[1], "AutoHotkey") {
			continue
		}
		if v := strings.TrimLeft(strings.ToLower(fields[2]), ">=<v"); strings.HasPrefix(v, "2") {
			return syntax.V2
		}
		return syntax.V1
	}
	return syntax.V1
}
