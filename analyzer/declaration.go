package analyzer

import "github.com/viant/unused/syntax"

// Record represents a local variable declaration found in a scope
type Record struct {
	Name string
	Span syntax.Span
	Used bool
}

// MarkUsed flags the declaration as referenced
func (r *Record) MarkUsed() {
	if !r.Used {
		r.Used = true
	}
}

// Table maps identifiers to the declarations of one scope subtree.
// The last declaration of a name wins the name slot; every declaration is still kept in traversal order.
type Table struct {
	byName map[string]*Record
	names  []string
	all    []*Record
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{byName: map[string]*Record{}}
}

// Put inserts or overwrites the record under its name
func (t *Table) Put(record *Record) {
	if _, ok := t.byName[record.Name]; !ok {
		t.names = append(t.names, record.Name)
	}
	t.byName[record.Name] = record
	t.all = append(t.all, record)
}

// Lookup returns the record occupying the name slot
func (t *Table) Lookup(name string) (*Record, bool) {
	record, ok := t.byName[name]
	return record, ok
}

// Records returns the name slot occupants in first-insertion order
func (t *Table) Records() []*Record {
	result := make([]*Record, 0, len(t.names))
	for _, name := range t.names {
		result = append(result, t.byName[name])
	}
	return result
}

// All returns every declaration in traversal order, including overwritten ones
func (t *Table) All() []*Record {
	return t.all
}

// Len returns the number of distinct names
func (t *Table) Len() int {
	return len(t.names)
}

// CollectDeclarations records every local variable declaration in the scope subtree
func CollectDeclarations(scope syntax.Node) *Table {
	table := NewTable()
	visit(scope, func(node syntax.Node) {
		if node.Kind() != syntax.VarDecl {
			return
		}
		table.Put(&Record{Name: node.Spelling(), Span: node.Extent()})
	})
	return table
}
