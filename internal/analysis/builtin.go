package analysis

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/symbols"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"
)

// Builtin definitions are written as script text: functions and classes
// with empty bodies, a global declaration listing the builtin variables
// and a ";@types" comment listing the type names.

//go:embed builtin/v1.ahk
var builtinV1 string

//go:embed builtin/v2.ahk
var builtinV2 string

const typesTag = ";@types"

var builtinTables [2]struct {
	once  sync.Once
	table *symbols.Table
}

// Builtins returns the builtin table of dialect d. The table is built on
// first use and is shared; callers must not modify it.
func Builtins(d syntax.Dialect) *symbols.Table {
	src, uri := builtinV1, "builtin:v1"
	if d == syntax.V2 {
		src, uri = builtinV2, "builtin:v2"
	}
	b := &builtinTables[d&1]
	b.once.Do(func() {
		table, err := LoadBuiltins(uri, src, d)
		if err != nil {
			logger().Error("loading builtin definitions", "dialect", d, "err", err)
		}
		b.table = table
	})
	return b.table
}

// LoadBuiltins builds a builtin table from definition text. An error is
// returned along with the table if the text has syntax errors or
// conflicting definitions.
func LoadBuiltins(uri, src string, d syntax.Dialect) (*symbols.Table, error) {
	res := syntax.ParseFile(uri, src, d)
	file := res.File

	table := symbols.NewBuiltinTable()
	a := newAnalyzer(file, table, &Config{Dialect: d})
	a.builtin = true
	a.run()

	for _, c := range file.Comments {
		if !strings.HasPrefix(c.Text, typesTag) {
			continue
		}
		for _, name := range strings.Fields(c.Text[len(typesTag):]) {
			table.Global().Insert(symbols.NewBuiltinType(name))
		}
	}

	if len(res.SyntaxErrors) > 0 {
		return table, fmt.Errorf("%s: %w", uri, res.SyntaxErrors[0])
	}
	if errs := a.res.Errors(); len(errs) > 0 {
		return table, fmt.Errorf("%s: %w", uri, errs[0])
	}
	return table, nil
}
