package analysis

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/symbols"
)

// maxEdits returns the largest edit distance accepted for a suggestion.
func maxEdits(name string) int {
	if n := len(name) / 3; n > 1 {
		return n
	}
	return 1
}

// suggest returns the candidate closest to name, or "" if none is close
// enough. Candidates that contain the letters of name in order are
// preferred; otherwise the nearest candidate by edit distance is taken.
func suggest(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	limit := maxEdits(name)

	ranks := fuzzy.RankFindFold(name, candidates)
	sort.Sort(ranks)
	for _, r := range ranks {
		if r.Distance > 0 && r.Distance <= limit {
			return r.Target
		}
	}

	key := symbols.Key(name)
	best, bestDist := "", limit+1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(key, symbols.Key(c))
		if d == 0 {
			continue
		}
		if d < bestDist || d == bestDist && c < best {
			best, bestDist = c, d
		}
	}
	return best
}

// visibleNames lists the variable-like names visible from the current
// scope, without duplicates.
func (a *Analyzer) visibleNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(s *symbols.Scope) {
		for _, sym := range s.AllSymbols() {
			switch sym.(type) {
			case *symbols.Var, *symbols.Param, *symbols.BuiltinVar, *symbols.Property, *symbols.Class:
			default:
				continue
			}
			key := symbols.Key(sym.Name())
			if !seen[key] {
				seen[key] = true
				names = append(names, sym.Name())
			}
		}
	}

	for s := a.scope; s != nil; s = s.Enclosing() {
		add(s)
	}
	for _, inc := range a.table.Includes() {
		add(inc.Global())
	}
	if b := a.table.Builtin(); b != nil {
		add(b.Global())
	}
	return names
}
