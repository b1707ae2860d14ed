package remover

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/viant/afs"
	"github.com/viant/unused/analyzer"
	"github.com/viant/unused/compiledb"
	"github.com/viant/unused/frontend"
	"github.com/viant/unused/patcher"
	"github.com/viant/unused/report"
	"github.com/viant/unused/syntax"
	"golang.org/x/sync/errgroup"
)

// Service removes unused block-scoped variable declarations from compilation database entries
type Service struct {
	config   *Config
	frontend frontend.Frontend
	analyzer *analyzer.Analyzer
	rewriter *patcher.Rewriter
	fs       afs.Service
	logger   *slog.Logger
}

// Run processes entries and returns one result per entry in input order.
// A failing file does not stop the run; only context cancellation does.
func (s *Service) Run(ctx context.Context, entries []*compiledb.Entry) ([]*Result, error) {
	results := make([]*Result, len(entries))
	parallel := s.config.Parallel
	if parallel <= 1 {
		for i, entry := range entries {
			if err := ctx.Err(); err != nil {
				return results[:i], err
			}
			results[i] = s.Process(ctx, entry)
		}
		return results, nil
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)
	for i, entry := range entries {
		i, entry := i, entry
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = s.Process(groupCtx, entry)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Process parses, analyses and rewrites a single entry
func (s *Service) Process(ctx context.Context, entry *compiledb.Entry) *Result {
	path := entry.Path()
	result := &Result{Entry: entry, Destination: s.config.Mode.Destination(entry)}
	logger := s.logger.With("path", path)

	args, err := entry.Args()
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", frontend.ErrParse, err)
		logger.Error("invalid arguments", "error", err)
		return result
	}
	root, err := s.frontend.Parse(ctx, path, args)
	if err != nil {
		result.Err = err
		logger.Error("parse failed", "error", err)
		return result
	}
	s.dump(ctx, entry, root)

	result.Analysis = s.analyzer.Analyze(root)
	logger.Debug("analysed", "scopes", len(result.Analysis.Scopes), "spans", len(result.Analysis.Spans))

	outcome, err := s.rewriter.File(ctx, path, result.Destination, result.Analysis.Spans)
	if err != nil {
		result.Err = err
		logger.Error("rewrite failed", "error", err)
		return result
	}
	result.Outcome = outcome
	if s.config.Diff && outcome.Changed() {
		if result.Diff, err = unifiedDiff(path, result.Destination, outcome); err != nil {
			logger.Warn("diff failed", "error", err)
		}
	}
	logger.Info("processed", "removed", result.Removed(), "written", outcome.Written)
	return result
}

// Report builds the run report from results
func (s *Service) Report(results []*Result) *report.Report {
	ret := &report.Report{Shadowing: s.analyzer.Shadowing().String()}
	for _, result := range results {
		if result != nil {
			ret.Files = append(ret.Files, result.Report())
		}
	}
	return ret
}

// dump writes the tree under DumpDir, mirroring the entry path like separate output does
func (s *Service) dump(ctx context.Context, entry *compiledb.Entry, root syntax.Node) {
	if s.config.DumpDir == "" {
		return
	}
	path := entry.Path()
	var buffer bytes.Buffer
	if err := syntax.Dump(&buffer, root); err != nil {
		s.logger.Warn("ast dump failed", "path", path, "error", err)
		return
	}
	location := SeparateOutput(s.config.DumpDir).Destination(entry) + ".ast"
	if err := s.fs.Upload(ctx, location, 0644, &buffer); err != nil {
		s.logger.Warn("ast dump failed", "path", path, "error", err)
	}
}

func unifiedDiff(source, destination string, outcome *patcher.Outcome) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(outcome.Original)),
		B:        difflib.SplitLines(string(outcome.Patched)),
		FromFile: source,
		ToFile:   destination,
		Context:  3,
	})
}

// New creates a service; nil collaborators are replaced with defaults
func New(config *Config, fe frontend.Frontend, an *analyzer.Analyzer, fs afs.Service, logger *slog.Logger) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	if fs == nil {
		fs = afs.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if fe == nil {
		fe = frontend.New(fs, logger)
	}
	if an == nil {
		an = analyzer.New(analyzer.WithLogger(logger))
	}
	return &Service{
		config:   config,
		frontend: fe,
		analyzer: an,
		rewriter: patcher.NewRewriter(fs, config.DryRun),
		fs:       fs,
		logger:   logger,
	}
}
