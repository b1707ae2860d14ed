package remover

import (
	"path/filepath"
	"strings"

	"github.com/viant/unused/compiledb"
)

// Mode selects where rewritten files go
type Mode struct {
	// Output is the directory receiving rewritten files; empty means in place
	Output string
}

// InPlace rewrites source files
func InPlace() Mode {
	return Mode{}
}

// SeparateOutput writes rewritten files under dir, mirroring their path
func SeparateOutput(dir string) Mode {
	return Mode{Output: dir}
}

// IsInPlace reports whether sources are rewritten
func (m Mode) IsInPlace() bool {
	return m.Output == ""
}

// Destination returns the path the entry's rewritten content is written to
func (m Mode) Destination(entry *compiledb.Entry) string {
	source := entry.Path()
	if m.IsInPlace() {
		return source
	}
	rel := ""
	if entry.Directory != "" {
		if candidate, err := filepath.Rel(entry.Directory, source); err == nil && !strings.HasPrefix(candidate, "..") {
			rel = candidate
		}
	}
	if rel == "" {
		rel = strings.TrimPrefix(filepath.Clean(source), filepath.VolumeName(source))
		rel = strings.TrimLeft(rel, `/\`)
	}
	return filepath.Join(m.Output, rel)
}
