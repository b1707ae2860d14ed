package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/unused/syntax"
)

func TestReport_Summary(t *testing.T) {
	span := syntax.Span{Start: syntax.Pos(2, 5), End: syntax.Pos(4, 6)}
	report := &Report{Shadowing: "scope", Files: []*File{
		{Path: "a.c", Status: StatusRewritten, Removed: []syntax.Span{span}, Declarations: 2},
		{Path: "b.c", Status: StatusUnchanged},
		{Path: "c.c", Status: StatusFailed, Stage: "parse", Error: "parse failure"},
	}}
	removed, byStatus := report.Summary()
	assert.Equal(t, 2, removed)
	assert.Equal(t, map[Status]int{StatusRewritten: 1, StatusUnchanged: 1, StatusFailed: 1}, byStatus)

	data, err := report.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "declarations_removed: 2")
	assert.Contains(t, string(data), "stage: parse")
}
