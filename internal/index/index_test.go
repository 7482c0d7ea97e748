package index

import (
	"path/filepath"
	"testing"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/analysis"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/symbols"
	"github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"
)

const counterSrc = `; Counter counts.
class Counter {
	count := 0
	Add(n) {
		local tmp := n
		this.count += tmp
	}
}

total := 0
Sum(a, b) {
	inner := a + b
	return inner
}
`

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func tableFor(t *testing.T, uri, src string) *symbols.Table {
	t.Helper()
	res := syntax.ParseFile(uri, src, syntax.V2)
	if len(res.SyntaxErrors) > 0 {
		t.Fatalf("syntax errors: %v", res.SyntaxErrors)
	}
	return analysis.Analyze(res.File, analysis.Builtins(syntax.V2), nil).Table
}

func put(t *testing.T, s *Store, uri, src string) {
	t.Helper()
	if err := s.Put(uri, syntax.V2, Hash(src), tableFor(t, uri, src)); err != nil {
		t.Fatalf("Put: %v", err)
	}
}

func TestDefinitions(t *testing.T) {
	defs := Definitions(tableFor(t, "/w/counter.ahk", counterSrc))

	got := make(map[string]string)
	for _, d := range defs {
		got[d.QualifiedName()] = d.Kind
	}
	want := map[string]string{
		"Counter":       "class",
		"Counter.count": "property",
		"Counter.Add":   "func",
		"total":         "var",
		"Sum":           "func",
	}
	for name, kind := range want {
		if got[name] != kind {
			t.Errorf("%s: got kind %q, want %q", name, got[name], kind)
		}
	}
	for _, hidden := range []string{"Sum.a", "Sum.inner", "Counter.Add.tmp", "Counter.Add.n"} {
		if _, ok := got[hidden]; ok {
			t.Errorf("%s should not be indexed", hidden)
		}
	}
}

func TestLookup(t *testing.T) {
	s := openStore(t)
	put(t, s, "/w/counter.ahk", counterSrc)
	put(t, s, "/w/other.ahk", "Sum(x) {\n\treturn x\n}\n")

	defs, err := s.Lookup("SUM")
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 2 {
		t.Fatalf("got %d definitions of Sum, want 2", len(defs))
	}
	if defs[0].Document == nil || defs[0].Document.URI != "/w/counter.ahk" {
		t.Errorf("first definition in %+v, want /w/counter.ahk", defs[0].Document)
	}
	if got := defs[0].Range().Start; got != syntax.NewPos(10, 0) {
		t.Errorf("Sum at %s, want 10:0", got)
	}

	defs, err = s.Lookup("nothing")
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 0 {
		t.Errorf("got %d definitions of nothing, want 0", len(defs))
	}
}

func TestPutReplaces(t *testing.T) {
	s := openStore(t)
	put(t, s, "/w/a.ahk", "First() {\n}\n")
	put(t, s, "/w/a.ahk", "Second() {\n}\n")

	if defs, _ := s.Lookup("First"); len(defs) != 0 {
		t.Errorf("stale definition of First: %+v", defs)
	}
	if defs, _ := s.Lookup("Second"); len(defs) != 1 {
		t.Errorf("got %d definitions of Second, want 1", len(defs))
	}

	docs, err := s.Documents()
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	if docs[0].Hash != Hash("Second() {\n}\n") {
		t.Errorf("hash not updated")
	}
	if docs[0].Dialect != syntax.V2.String() {
		t.Errorf("dialect = %q", docs[0].Dialect)
	}
}

func TestRemove(t *testing.T) {
	s := openStore(t)
	put(t, s, "/w/a.ahk", "Gone() {\n}\n")

	if err := s.Remove("/w/a.ahk"); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove("/w/missing.ahk"); err != nil {
		t.Fatalf("removing an unknown document: %v", err)
	}
	doc, err := s.Document("/w/a.ahk")
	if err != nil {
		t.Fatal(err)
	}
	if doc != nil {
		t.Errorf("document still indexed: %+v", doc)
	}
	if defs, _ := s.Lookup("Gone"); len(defs) != 0 {
		t.Errorf("definitions left behind: %+v", defs)
	}
}

func TestSearch(t *testing.T) {
	s := openStore(t)
	put(t, s, "/w/counter.ahk", counterSrc)

	defs, err := s.Search("cntr", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 1 || defs[0].Name != "Counter" {
		t.Fatalf("Search(cntr) = %v, want [Counter]", names(defs))
	}

	defs, err = s.Search("", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 2 {
		t.Errorf("Search with limit 2 returned %d results", len(defs))
	}
}

func names(defs []Definition) []string {
	var list []string
	for _, d := range defs {
		list = append(list, d.QualifiedName())
	}
	return list
}
