package frontend

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
)

var identifierExpr = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// macros maps a macro name to the identifiers appearing in its replacement text
type macros map[string][]string

func collectMacros(root *sitter.Node, src []byte) macros {
	ret := macros{}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "preproc_def", "preproc_function_def":
			ret.add(n, src)
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)
	return ret
}

func (m macros) add(n *sitter.Node, src []byte) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(src)
	excluded := map[string]bool{name: true}
	if params := n.ChildByFieldName("parameters"); params != nil {
		for _, param := range identifierExpr.FindAllString(params.Content(src), -1) {
			excluded[param] = true
		}
	}
	var body []string
	if value := n.ChildByFieldName("value"); value != nil {
		seen := map[string]bool{}
		for _, ident := range identifierExpr.FindAllString(value.Content(src), -1) {
			if excluded[ident] || seen[ident] {
				continue
			}
			seen[ident] = true
			body = append(body, ident)
		}
	}
	m[name] = body
}
