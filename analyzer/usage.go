package analyzer

import (
	"fmt"
	"strings"

	"github.com/viant/unused/syntax"
)

// Shadowing selects how references are attributed to declarations
type Shadowing int

const (
	// ScopeAware resolves a reference to the innermost visible declaration of its name
	ScopeAware Shadowing = iota
	// NameKeyed attributes a reference to whichever declaration holds the name slot of the table.
	// A same-named declaration overwritten in the slot is never judged in that scope.
	NameKeyed
)

func (s Shadowing) String() string {
	if s == NameKeyed {
		return "name"
	}
	return "scope"
}

// ParseShadowing parses "scope" or "name"
func ParseShadowing(value string) (Shadowing, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "scope":
		return ScopeAware, nil
	case "name":
		return NameKeyed, nil
	}
	return ScopeAware, fmt.Errorf("unsupported shadowing policy: %q", value)
}

// ResolveUsage marks the table's declarations referenced within the scope subtree
func ResolveUsage(scope syntax.Node, table *Table, shadowing Shadowing) {
	resolveUsage(scope, table, shadowing, nil)
}

// resolveUsage ignores references lying inside any of the dead spans
func resolveUsage(scope syntax.Node, table *Table, shadowing Shadowing, dead []syntax.Span) {
	if shadowing == NameKeyed {
		resolveByName(scope, table, dead)
		return
	}
	resolver := &lexicalResolver{records: table.All(), dead: dead}
	resolver.push()
	resolver.walk(scope)
}

func covered(dead []syntax.Span, node syntax.Node) bool {
	extent := node.Extent()
	for _, span := range dead {
		if span.Contains(extent) {
			return true
		}
	}
	return false
}

func resolveByName(scope syntax.Node, table *Table, dead []syntax.Span) {
	visit(scope, func(node syntax.Node) {
		if node.Kind() != syntax.DeclRefExpr || covered(dead, node) {
			return
		}
		if record, ok := table.Lookup(node.Spelling()); ok {
			record.MarkUsed()
		}
	})
}

// lexicalResolver replays the declaration traversal; the n-th declaration visited is records[n].
// Same-named declarations of one frame (preprocessor branches) share their usage.
type lexicalResolver struct {
	records []*Record
	next    int
	frames  []map[string][]*Record
	dead    []syntax.Span
}

func (r *lexicalResolver) push() {
	r.frames = append(r.frames, map[string][]*Record{})
}

func (r *lexicalResolver) pop() {
	r.frames = r.frames[:len(r.frames)-1]
}

func (r *lexicalResolver) walk(node syntax.Node) {
	for _, child := range node.Children() {
		opened := false
		switch child.Kind() {
		case syntax.CompoundStmt, syntax.ForStmt:
			r.push()
			opened = true
		case syntax.VarDecl:
			r.declare()
		case syntax.DeclRefExpr:
			if covered(r.dead, child) {
				continue
			}
			r.reference(child.Spelling())
		}
		r.walk(child)
		if opened {
			r.pop()
		}
	}
}

func (r *lexicalResolver) declare() {
	if r.next >= len(r.records) {
		return
	}
	record := r.records[r.next]
	r.next++
	frame := r.frames[len(r.frames)-1]
	frame[record.Name] = append(frame[record.Name], record)
}

func (r *lexicalResolver) reference(name string) {
	for i := len(r.frames) - 1; i >= 0; i-- {
		if records, ok := r.frames[i][name]; ok {
			for _, record := range records {
				record.MarkUsed()
			}
			return
		}
	}
}
