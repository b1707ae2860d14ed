package analyzer

import "github.com/viant/unused/syntax"

// ExtractScopes returns every compound statement under root in document order.
// Nested blocks are returned as their own entries and remain part of their ancestors' subtrees.
func ExtractScopes(root syntax.Node) []syntax.Node {
	if root == nil {
		return nil
	}
	return find(root, syntax.CompoundStmt, nil)
}

func find(node syntax.Node, kind syntax.Kind, result []syntax.Node) []syntax.Node {
	if node.Kind() == kind {
		result = append(result, node)
	}
	for _, child := range node.Children() {
		result = find(child, kind, result)
	}
	return result
}

// visit calls fn for every descendant of node in pre-order, node itself excluded
func visit(node syntax.Node, fn func(syntax.Node)) {
	for _, child := range node.Children() {
		fn(child)
		visit(child, fn)
	}
}
