package report

import (
	"github.com/viant/unused/syntax"
	"gopkg.in/yaml.v3"
)

// Status of a processed file
type Status string

const (
	StatusUnchanged Status = "unchanged"
	StatusRewritten Status = "rewritten"
	StatusPreview   Status = "preview"
	StatusFailed    Status = "failed"
)

// Declaration represents a local variable declaration as judged in one scope
type Declaration struct {
	Name string      `yaml:"name"`
	Span syntax.Span `yaml:"span"`
	Used bool        `yaml:"used"`
}

// Scope represents one analysed compound statement
type Scope struct {
	Start        syntax.Position `yaml:"start"`
	End          syntax.Position `yaml:"end"`
	Declarations []Declaration   `yaml:"declarations,omitempty"`
}

// File represents the analysis and rewrite of one source file
type File struct {
	Path        string        `yaml:"path"`
	Destination string        `yaml:"destination,omitempty"`
	Status      Status        `yaml:"status"`
	Stage       string        `yaml:"stage,omitempty"`
	Error       string        `yaml:"error,omitempty"`
	Fingerprint string        `yaml:"fingerprint,omitempty"`
	Scopes      []Scope       `yaml:"scopes,omitempty"`
	Removed     []syntax.Span `yaml:"removed,omitempty"`
	// Declarations counts removed declarations, including ones nested in another removed span
	Declarations int `yaml:"declarations_removed,omitempty"`
}

// Report represents a whole run
type Report struct {
	Shadowing string  `yaml:"shadowing"`
	Files     []*File `yaml:"files"`
}

// Summary counts files per status and removed declarations
func (r *Report) Summary() (removed int, byStatus map[Status]int) {
	byStatus = map[Status]int{}
	for _, file := range r.Files {
		byStatus[file.Status]++
		removed += file.Declarations
	}
	return removed, byStatus
}

// Marshal encodes the report as YAML
func (r *Report) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}
