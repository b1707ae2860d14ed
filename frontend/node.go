package frontend

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/unused/syntax"
)

// node is a syntax.Node materialized from a tree-sitter node
type node struct {
	typ      string
	kind     syntax.Kind
	spelling string
	extent   syntax.Span
	children []syntax.Node
}

func (n *node) Kind() syntax.Kind       { return n.kind }
func (n *node) Spelling() string        { return n.spelling }
func (n *node) Extent() syntax.Span     { return n.extent }
func (n *node) Children() []syntax.Node { return n.children }

// Type returns the tree-sitter node type
func (n *node) Type() string { return n.typ }

type mode int

const (
	expression mode = iota
	declarator
)

// parents a block-level variable declaration may appear under
var localParents = map[string]bool{
	"compound_statement": true,
	"for_statement":      true,
	"preproc_if":         true,
	"preproc_ifdef":      true,
	"preproc_else":       true,
	"preproc_elif":       true,
	"preproc_elifdef":    true,
}

// fields holding names that are never references
var nameFields = map[string]bool{
	"declarator": true,
	"name":       true,
	"label":      true,
	"field":      true,
}

var unusedAttribute = regexp.MustCompile(`maybe_unused|__attribute__\s*\(\(\s*(__)?unused(__)?`)

type walkContext struct {
	parent string
	field  string
	mode   mode
	inBody bool
}

type builder struct {
	src    []byte
	macros macros
	// names of variables and parameters visible at the current node
	frames []map[string]bool
}

func (b *builder) build(n *sitter.Node, ctx walkContext) *node {
	ret := &node{typ: n.Type(), extent: extentOf(n)}
	scoped := false
	switch ret.typ {
	case "translation_unit", "function_definition", "lambda_expression":
		scoped = true
	case "compound_statement":
		ret.kind = syntax.CompoundStmt
		ctx.inBody = true
		scoped = true
	case "for_statement", "for_range_loop":
		ret.kind = syntax.ForStmt
		scoped = true
	case "parameter_declaration", "optional_parameter_declaration":
		if declarator := n.ChildByFieldName("declarator"); declarator != nil {
			if name, ok := b.declaredName(declarator); ok {
				b.declare(name)
			}
		}
	case "declaration":
		if ctx.inBody && b.isExpression(n) {
			// "a * c;" or "a(c);" where a is a variable
			ret.children = b.operands(n)
			return ret
		}
		if ctx.inBody && localParents[ctx.parent] {
			if name, extent, ok := b.variable(n); ok {
				ret.kind = syntax.VarDecl
				ret.spelling = name
				ret.extent = extent
			}
		}
		b.declareAll(n)
	case "identifier":
		ret.spelling = n.Content(b.src)
		if ctx.mode == expression && !nameFields[ctx.field] {
			b.reference(ret)
		}
		return ret
	case "type_identifier":
		// sizeof(x) and T(x) are ambiguous without type information
		ret.spelling = n.Content(b.src)
		if ctx.inBody {
			b.reference(ret)
		}
		return ret
	}
	if scoped {
		b.push()
		defer b.pop()
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		field := n.FieldNameForChild(i)
		ret.children = append(ret.children, b.build(child, walkContext{
			parent: ret.typ,
			field:  field,
			mode:   childMode(field, ctx.mode),
			inBody: ctx.inBody,
		}))
	}
	return ret
}

func (b *builder) push() {
	b.frames = append(b.frames, map[string]bool{})
}

func (b *builder) pop() {
	b.frames = b.frames[:len(b.frames)-1]
}

func (b *builder) declare(name string) {
	if len(b.frames) > 0 {
		b.frames[len(b.frames)-1][name] = true
	}
}

func (b *builder) isVariable(name string) bool {
	for i := len(b.frames) - 1; i >= 0; i-- {
		if b.frames[i][name] {
			return true
		}
	}
	return false
}

// declareAll records every declarator name of a declaration
func (b *builder) declareAll(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) != "declarator" {
			continue
		}
		if name, ok := b.declaredName(n.Child(i)); ok {
			b.declare(name)
		}
	}
}

// isExpression reports whether a declaration is an expression statement misread as one:
// its type is a plain identifier naming a visible variable.
func (b *builder) isExpression(n *sitter.Node) bool {
	typ := n.ChildByFieldName("type")
	if typ == nil || typ.Type() != "type_identifier" {
		return false
	}
	return b.isVariable(typ.Content(b.src))
}

// operands returns references to every identifier under n
func (b *builder) operands(n *sitter.Node) []syntax.Node {
	var result []syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "identifier", "type_identifier":
			ref := &node{typ: child.Type(), spelling: child.Content(b.src), extent: extentOf(child)}
			b.reference(ref)
			result = append(result, ref)
		default:
			result = append(result, b.operands(child)...)
		}
	}
	return result
}

func childMode(field string, current mode) mode {
	switch field {
	case "declarator":
		return declarator
	case "value", "size", "default_value", "right", "arguments":
		return expression
	}
	return current
}

// variable returns the name and extent of a single-declarator variable declaration.
// The extent runs from the declaration start to the end of the last token before ';'.
func (b *builder) variable(n *sitter.Node) (string, syntax.Span, bool) {
	var declarators []*sitter.Node
	var last *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if n.FieldNameForChild(i) == "declarator" {
			declarators = append(declarators, child)
		}
		if child.Type() != ";" {
			last = child
		}
	}
	if len(declarators) != 1 || last == nil {
		return "", syntax.Span{}, false
	}
	if unusedAttribute.MatchString(n.Content(b.src)) {
		return "", syntax.Span{}, false
	}
	name, ok := b.declaredName(declarators[0])
	if !ok {
		return "", syntax.Span{}, false
	}
	return name, syntax.Span{Start: position(n.StartPoint()), End: position(last.EndPoint())}, true
}

func (b *builder) declaredName(d *sitter.Node) (string, bool) {
	for d != nil {
		switch d.Type() {
		case "identifier":
			return d.Content(b.src), true
		case "init_declarator", "pointer_declarator", "array_declarator":
			d = d.ChildByFieldName("declarator")
		case "reference_declarator", "parenthesized_declarator", "attributed_declarator":
			d = d.NamedChild(0)
		default:
			return "", false
		}
	}
	return "", false
}

func (b *builder) reference(n *node) {
	n.kind = syntax.DeclRefExpr
	n.children = b.expand(n.spelling, n.extent, map[string]bool{})
}

// expand returns synthetic references to the identifiers of a macro body, transitively
func (b *builder) expand(name string, extent syntax.Span, seen map[string]bool) []syntax.Node {
	body, ok := b.macros[name]
	if !ok || seen[name] {
		return nil
	}
	seen[name] = true
	var result []syntax.Node
	for _, ident := range body {
		ref := &node{typ: "macro_reference", kind: syntax.DeclRefExpr, spelling: ident, extent: extent}
		ref.children = b.expand(ident, extent, seen)
		result = append(result, ref)
	}
	return result
}

func extentOf(n *sitter.Node) syntax.Span {
	return syntax.Span{Start: position(n.StartPoint()), End: position(n.EndPoint())}
}

func position(p sitter.Point) syntax.Position {
	return syntax.Position{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

// firstError returns the first ERROR or missing node in document order
func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil {
			if found := firstError(child); found != nil {
				return found
			}
		}
	}
	return n
}
