package syntax

// Kind classifies a syntax node for the analysis
type Kind int

const (
	// Other is any node the analysis does not inspect
	Other Kind = iota
	// CompoundStmt is a brace-delimited block introducing a lexical scope
	CompoundStmt
	// VarDecl is a local variable declaration
	VarDecl
	// DeclRefExpr is an identifier reference expression
	DeclRefExpr
	// ForStmt is a for statement; its initializer declarations are scoped to the loop
	ForStmt
)

// String returns the kind tag used in dumps and reports
func (k Kind) String() string {
	switch k {
	case CompoundStmt:
		return "COMPOUND_STMT"
	case VarDecl:
		return "VAR_DECL"
	case DeclRefExpr:
		return "DECL_REF_EXPR"
	case ForStmt:
		return "FOR_STMT"
	}
	return "OTHER"
}

// Node represents a read-only node of a parsed syntax tree
type Node interface {
	// Kind returns the node classification
	Kind() Kind

	// Spelling returns the identifier text of the node, may be empty
	Spelling() string

	// Extent returns the source span covered by the node
	Extent() Span

	// Children returns the ordered child nodes
	Children() []Node
}
