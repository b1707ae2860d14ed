package remover

import (
	"errors"
	"fmt"

	"github.com/viant/unused/analyzer"
	"github.com/viant/unused/compiledb"
	"github.com/viant/unused/frontend"
	"github.com/viant/unused/patcher"
	"github.com/viant/unused/report"
)

// Stage names the step a file failed in
type Stage string

const (
	StageNone  Stage = ""
	StageParse Stage = "parse"
	StageSpan  Stage = "span"
	StageIO    Stage = "io"
	StageOther Stage = "other"
)

// Result represents the processing of one compilation database entry
type Result struct {
	Entry       *compiledb.Entry
	Destination string
	Analysis    *analyzer.Analysis
	Outcome     *patcher.Outcome
	Diff        string
	Err         error
}

// Stage classifies the failure, if any
func (r *Result) Stage() Stage {
	switch {
	case r.Err == nil:
		return StageNone
	case errors.Is(r.Err, frontend.ErrParse):
		return StageParse
	case errors.Is(r.Err, patcher.ErrMalformedSpan):
		return StageSpan
	case errors.Is(r.Err, patcher.ErrIO):
		return StageIO
	}
	return StageOther
}

// Status returns the report status of the file
func (r *Result) Status() report.Status {
	switch {
	case r.Err != nil:
		return report.StatusFailed
	case r.Outcome == nil || !r.Outcome.Changed():
		return report.StatusUnchanged
	case !r.Outcome.Written:
		return report.StatusPreview
	}
	return report.StatusRewritten
}

// Removed returns the number of removed declarations, which may exceed the number of spans
func (r *Result) Removed() int {
	if r.Err != nil || r.Analysis == nil {
		return 0
	}
	return r.Analysis.UnusedCount()
}

// Report converts the result into its report entry
func (r *Result) Report() *report.File {
	ret := &report.File{
		Path:   r.Entry.Path(),
		Status: r.Status(),
	}
	if r.Destination != ret.Path {
		ret.Destination = r.Destination
	}
	if r.Err != nil {
		ret.Stage = string(r.Stage())
		ret.Error = r.Err.Error()
	}
	if r.Outcome != nil {
		ret.Fingerprint = fmt.Sprintf("%016x", r.Outcome.After)
	}
	if r.Analysis == nil {
		return ret
	}
	for _, scope := range r.Analysis.Scopes {
		extent := scope.Node.Extent()
		item := report.Scope{Start: extent.Start, End: extent.End}
		for _, record := range scope.Table.All() {
			item.Declarations = append(item.Declarations, report.Declaration{Name: record.Name, Span: record.Span, Used: record.Used})
		}
		ret.Scopes = append(ret.Scopes, item)
	}
	if r.Err == nil {
		ret.Removed = r.Analysis.Spans
		ret.Declarations = r.Analysis.UnusedCount()
	}
	return ret
}
