package compiledb

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/viant/afs"
)

// Entry represents one compile_commands.json record
type Entry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Output    string   `json:"output,omitempty"`
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
}

// Path returns the source file path, resolved against Directory when relative
func (e *Entry) Path() string {
	if filepath.IsAbs(e.File) || e.Directory == "" {
		return e.File
	}
	return filepath.Join(e.Directory, e.File)
}

// Tokens returns the full compiler invocation
func (e *Entry) Tokens() ([]string, error) {
	if len(e.Arguments) > 0 {
		return e.Arguments, nil
	}
	tokens, err := shellwords.Parse(e.Command)
	if err != nil {
		return nil, fmt.Errorf("failed to split command for %s: %w", e.File, err)
	}
	return tokens, nil
}

// Args returns the front-end arguments: the compiler, the output pair and the source file tokens are removed
func (e *Entry) Args() ([]string, error) {
	tokens, err := e.Tokens()
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	var args []string
	tokens = tokens[1:]
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		switch {
		case token == "-o":
			i++
		case strings.HasPrefix(token, "-o") && e.Output != "" && token[2:] == e.Output:
		case token == "-c":
			if i+1 < len(tokens) && e.isSource(tokens[i+1]) {
				i++
			}
		case e.isSource(token):
		default:
			args = append(args, token)
		}
	}
	return args, nil
}

func (e *Entry) isSource(token string) bool {
	if token == e.File {
		return true
	}
	if e.Directory != "" && !filepath.IsAbs(token) {
		token = filepath.Join(e.Directory, token)
	}
	return filepath.Clean(token) == filepath.Clean(e.Path())
}

// Decode parses compile_commands.json content
func Decode(data []byte) ([]*Entry, error) {
	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode compilation database: %w", err)
	}
	for i, entry := range entries {
		if entry == nil || entry.File == "" {
			return nil, fmt.Errorf("compilation database entry %d has no file", i)
		}
		if entry.Command == "" && len(entry.Arguments) == 0 {
			return nil, fmt.Errorf("compilation database entry %d (%s) has neither command nor arguments", i, entry.File)
		}
	}
	return entries, nil
}

// Load reads the compilation database at location
func Load(ctx context.Context, fs afs.Service, location string) ([]*Entry, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read compilation database %s: %w", location, err)
	}
	return Decode(data)
}
