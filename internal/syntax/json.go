package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the tree rooted at node to w.
// Positions are zero-based, columns are byte offsets.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

type jsonPos struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

type jsonRange struct {
	Start jsonPos `json:"start"`
	End   jsonPos `json:"end"`
}

type jsonNode struct {
	Type     string            `json:"type"`
	Range    jsonRange         `json:"range"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*jsonNode       `json:"children,omitempty"`
}

func toJSON(node Node) *jsonNode {
	if node == nil {
		return nil
	}

	r := node.Range()
	n := &jsonNode{
		Type: NodeKind(node),
		Range: jsonRange{
			Start: jsonPos{r.Start.Line(), r.Start.Col()},
			End:   jsonPos{r.End.Line(), r.End.Col()},
		},
	}
	if attrs := nodeAttrs(node); len(attrs) > 0 {
		n.Attrs = make(map[string]string, len(attrs))
		for _, a := range attrs {
			n.Attrs[a.key] = a.value
		}
	}
	for _, c := range Children(node) {
		n.Children = append(n.Children, toJSON(c))
	}
	return n
}
