package analyzer

import (
	"log/slog"
	"regexp"

	"github.com/viant/unused/syntax"
)

// Analyzer finds unused block-scoped variable declarations in a syntax tree
type Analyzer struct {
	shadowing Shadowing
	keep      []*regexp.Regexp
	logger    *slog.Logger
}

// Scope holds the outcome of analysing one compound statement
type Scope struct {
	Node   syntax.Node
	Table  *Table
	Unused []*Record
}

// Analysis holds the outcome of analysing a file
type Analysis struct {
	Scopes []*Scope
	Spans  []syntax.Span
	// Passes is the number of analysis rounds needed to reach a fixed point
	Passes       int
	declarations int
}

// UnusedCount returns the number of distinct unused declarations, including ones absorbed into an enclosing span
func (a *Analysis) UnusedCount() int {
	return a.declarations
}

// Analyze visits every scope in document order and collects the removal spans of unused declarations.
// References inside a declaration judged unused do not count, so the analysis is repeated until no
// further declaration becomes unused; rewriting with the result is then idempotent.
func (a *Analyzer) Analyze(root syntax.Node) *Analysis {
	nodes := ExtractScopes(root)
	var dead []syntax.Span
	known := 0
	for pass := 1; ; pass++ {
		analysis := a.analyzePass(nodes, dead)
		analysis.Passes = pass
		if analysis.declarations == known {
			return analysis
		}
		a.logger.Debug("unused declarations cascade", "pass", pass, "unused", analysis.declarations)
		dead, known = analysis.Spans, analysis.declarations
	}
}

func (a *Analyzer) analyzePass(nodes []syntax.Node, dead []syntax.Span) *Analysis {
	analysis := &Analysis{}
	collector := NewSpanCollector()
	for _, node := range nodes {
		scope := a.analyzeScope(node, dead)
		added := collector.Add(scope.Unused...)
		a.logger.Debug("scope analysed",
			"scope", node.Extent().String(),
			"declarations", len(scope.Table.All()),
			"unused", len(scope.Unused),
			"queued", added)
		analysis.Scopes = append(analysis.Scopes, scope)
	}
	analysis.Spans = collector.Spans()
	analysis.declarations = collector.Len()
	return analysis
}

func (a *Analyzer) analyzeScope(node syntax.Node, dead []syntax.Span) *Scope {
	table := CollectDeclarations(node)
	resolveUsage(node, table, a.shadowing, dead)
	candidates := table.All()
	if a.shadowing == NameKeyed {
		candidates = table.Records()
	}
	scope := &Scope{Node: node, Table: table}
	for _, record := range candidates {
		if record.Used || a.isKept(record.Name) {
			continue
		}
		scope.Unused = append(scope.Unused, record)
	}
	return scope
}

func (a *Analyzer) isKept(name string) bool {
	for _, expr := range a.keep {
		if expr.MatchString(name) {
			return true
		}
	}
	return false
}

// Shadowing returns the configured attribution policy
func (a *Analyzer) Shadowing() Shadowing {
	return a.shadowing
}

// New creates an analyzer
func New(options ...Option) *Analyzer {
	ret := &Analyzer{shadowing: ScopeAware, logger: slog.Default()}
	for _, option := range options {
		option(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret
}
