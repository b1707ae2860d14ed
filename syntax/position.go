package syntax

import "fmt"

// Position represents a 1-based line and byte column in a file
type Position struct {
	Line   int `yaml:"line"`
	Column int `yaml:"column"`
}

// Before reports whether p precedes o in document order
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

// IsValid reports whether both coordinates are positive
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span represents a source range; End addresses the first character after the range
type Span struct {
	Start Position `yaml:"start"`
	End   Position `yaml:"end"`
}

// IsEmpty reports whether the span covers no characters
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains reports whether o lies within s
func (s Span) Contains(o Span) bool {
	return !o.Start.Before(s.Start) && !s.End.Before(o.End)
}

// Overlaps reports whether s and o share at least one character
func (s Span) Overlaps(o Span) bool {
	return o.Start.Before(s.End) && s.Start.Before(o.End)
}

// Validate checks positions are positive and start does not follow end
func (s Span) Validate() error {
	if !s.Start.IsValid() || !s.End.IsValid() {
		return fmt.Errorf("span %v has non-positive coordinates", s)
	}
	if s.End.Before(s.Start) {
		return fmt.Errorf("span %v starts after it ends", s)
	}
	return nil
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}
