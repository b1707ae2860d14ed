package patcher

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/viant/afs"
	"github.com/viant/unused/syntax"
)

const defaultFileMode = os.FileMode(0644)

// Outcome describes a file rewrite
type Outcome struct {
	Source      string
	Destination string
	Original    []byte
	Patched     []byte
	Before      uint64
	After       uint64
	Written     bool
}

// Changed reports whether patching altered the content; fingerprints are informational only
func (o *Outcome) Changed() bool {
	return !bytes.Equal(o.Original, o.Patched)
}

// Rewriter applies removal spans to files
type Rewriter struct {
	fs     afs.Service
	dryRun bool
}

// File reads source, deletes spans and writes the result to destination.
// Nothing is written when patching fails, when dry run is on, or when an in-place rewrite changes nothing.
func (r *Rewriter) File(ctx context.Context, source, destination string, spans []syntax.Span) (*Outcome, error) {
	original, err := r.fs.DownloadWithURL(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read file %s: %v", ErrIO, source, err)
	}
	patched, err := Patch(original, spans)
	if err != nil {
		return nil, fmt.Errorf("failed to patch file %s: %w", source, err)
	}
	outcome := &Outcome{Source: source, Destination: destination, Original: original, Patched: patched}
	if outcome.Before, err = Fingerprint(original); err != nil {
		return nil, err
	}
	if outcome.After, err = Fingerprint(patched); err != nil {
		return nil, err
	}
	if r.dryRun || (destination == source && !outcome.Changed()) {
		return outcome, nil
	}
	mode := defaultFileMode
	if object, err := r.fs.Object(ctx, source); err == nil {
		mode = object.Mode().Perm()
	}
	if err = r.fs.Upload(ctx, destination, mode, bytes.NewReader(patched)); err != nil {
		return nil, fmt.Errorf("%w: failed to write file %s: %v", ErrIO, destination, err)
	}
	outcome.Written = true
	return outcome, nil
}

// NewRewriter creates a rewriter; with dryRun set files are never written
func NewRewriter(fs afs.Service, dryRun bool) *Rewriter {
	if fs == nil {
		fs = afs.New()
	}
	return &Rewriter{fs: fs, dryRun: dryRun}
}
