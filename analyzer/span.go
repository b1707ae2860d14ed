package analyzer

import (
	"sort"

	"github.com/viant/unused/syntax"
)

// SpanCollector accumulates removal spans for one file
type SpanCollector struct {
	seen  map[syntax.Position]bool
	spans []syntax.Span
}

// NewSpanCollector creates an empty collector
func NewSpanCollector() *SpanCollector {
	return &SpanCollector{seen: map[syntax.Position]bool{}}
}

// Add queues the spans of the given records, skipping starts already queued and empty spans.
// It returns the number of spans added.
func (c *SpanCollector) Add(records ...*Record) int {
	added := 0
	for _, record := range records {
		span := record.Span
		if span.IsEmpty() || c.seen[span.Start] {
			continue
		}
		c.seen[span.Start] = true
		c.spans = append(c.spans, span)
		added++
	}
	return added
}

// Len returns the number of queued spans
func (c *SpanCollector) Len() int {
	return len(c.spans)
}

// Spans returns queued spans sorted by start; spans overlapping an earlier one are merged into it
func (c *SpanCollector) Spans() []syntax.Span {
	sorted := make([]syntax.Span, len(c.spans))
	copy(sorted, c.spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	result := make([]syntax.Span, 0, len(sorted))
	for _, span := range sorted {
		if n := len(result); n > 0 && result[n-1].Overlaps(span) {
			if result[n-1].End.Before(span.End) {
				result[n-1].End = span.End
			}
			continue
		}
		result = append(result, span)
	}
	return result
}
