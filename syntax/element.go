package syntax

// Element is an in-memory syntax node
type Element struct {
	Type     Kind
	Name     string
	Location Span
	Nodes    []*Element
}

// Kind returns the element kind
func (e *Element) Kind() Kind { return e.Type }

// Spelling returns the element identifier
func (e *Element) Spelling() string { return e.Name }

// Extent returns the element span
func (e *Element) Extent() Span { return e.Location }

// Children returns child elements as nodes
func (e *Element) Children() []Node {
	result := make([]Node, 0, len(e.Nodes))
	for _, child := range e.Nodes {
		result = append(result, child)
	}
	return result
}

// Add appends children and returns the element
func (e *Element) Add(children ...*Element) *Element {
	e.Nodes = append(e.Nodes, children...)
	return e
}

// NewElement creates an element spanning start to end
func NewElement(kind Kind, name string, start, end Position) *Element {
	return &Element{Type: kind, Name: name, Location: Span{Start: start, End: end}}
}

// Block creates a compound statement element
func Block(start, end Position, children ...*Element) *Element {
	return NewElement(CompoundStmt, "", start, end).Add(children...)
}

// Decl creates a local variable declaration element
func Decl(name string, start, end Position, children ...*Element) *Element {
	return NewElement(VarDecl, name, start, end).Add(children...)
}

// Ref creates an identifier reference element
func Ref(name string, at Position) *Element {
	return NewElement(DeclRefExpr, name, at, Position{Line: at.Line, Column: at.Column + len(name)})
}

// Pos is shorthand for Position{line, column}
func Pos(line, column int) Position {
	return Position{Line: line, Column: column}
}
