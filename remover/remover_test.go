package remover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/unused/analyzer"
	"github.com/viant/unused/compiledb"
	"github.com/viant/unused/frontend"
	"github.com/viant/unused/report"
	"github.com/viant/unused/syntax"
	"golang.org/x/tools/txtar"
)

const unusedSource = "int main(void) {\n    int x = 1;\n    return 0;\n}\n"
const unusedPatched = "int main(void) {\n    return 0;\n}\n"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSource(t *testing.T, dir, name, content string) *compiledb.Entry {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, filepath.Dir(name)), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	return &compiledb.Entry{
		Directory: dir,
		File:      name,
		Arguments: []string{"cc", "-c", name, "-o", strings.TrimSuffix(name, filepath.Ext(name)) + ".o"},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newService(config *Config, options ...analyzer.Option) *Service {
	logger := discardLogger()
	options = append(options, analyzer.WithLogger(logger))
	return New(config, nil, analyzer.New(options...), afs.New(), logger)
}

func TestService_Run_Fixtures(t *testing.T) {
	locations, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, locations)

	for _, location := range locations {
		t.Run(strings.TrimSuffix(filepath.Base(location), ".txtar"), func(t *testing.T) {
			archive, err := txtar.ParseFile(location)
			require.NoError(t, err)
			files := map[string]string{}
			for _, file := range archive.Files {
				files[file.Name] = string(file.Data)
			}
			_, policy, _ := strings.Cut(strings.TrimSpace(string(archive.Comment)), ":")
			shadowing, err := analyzer.ParseShadowing(policy)
			require.NoError(t, err)

			dir := t.TempDir()
			entry := writeSource(t, dir, "input.c", files["input.c"])
			service := newService(DefaultConfig(), analyzer.WithShadowing(shadowing))

			results, err := service.Run(context.Background(), []*compiledb.Entry{entry})
			require.NoError(t, err)
			require.Len(t, results, 1)
			require.NoError(t, results[0].Err)
			assert.Equal(t, files["expect.c"], readFile(t, entry.Path()))

			// a second pass over the rewritten file removes nothing
			results, err = service.Run(context.Background(), []*compiledb.Entry{entry})
			require.NoError(t, err)
			require.NoError(t, results[0].Err)
			assert.Equal(t, 0, results[0].Removed())
			assert.Equal(t, report.StatusUnchanged, results[0].Status())
			assert.Equal(t, files["expect.c"], readFile(t, entry.Path()))
		})
	}
}

func TestService_Run_SeparateOutput(t *testing.T) {
	dir := t.TempDir()
	output := t.TempDir()
	entry := writeSource(t, dir, filepath.Join("src", "main.c"), unusedSource)

	config := DefaultConfig()
	config.Mode = SeparateOutput(output)
	results, err := newService(config).Run(context.Background(), []*compiledb.Entry{entry})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	destination := filepath.Join(output, "src", "main.c")
	assert.Equal(t, destination, results[0].Destination)
	assert.Equal(t, report.StatusRewritten, results[0].Status())
	assert.Equal(t, unusedSource, readFile(t, entry.Path()))
	assert.Equal(t, unusedPatched, readFile(t, destination))
}

func TestService_Run_DryRunDiff(t *testing.T) {
	entry := writeSource(t, t.TempDir(), "main.c", unusedSource)

	config := DefaultConfig()
	config.DryRun = true
	config.Diff = true
	results, err := newService(config).Run(context.Background(), []*compiledb.Entry{entry})
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	require.NoError(t, result.Err)
	assert.Equal(t, report.StatusPreview, result.Status())
	assert.Equal(t, 1, result.Removed())
	assert.Contains(t, result.Diff, "-    int x = 1;")
	assert.Equal(t, unusedSource, readFile(t, entry.Path()))
}

func TestService_Run_ContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	broken := writeSource(t, dir, "broken.c", "int main(void) {\n    int x = ;\n}\n")
	missing := &compiledb.Entry{Directory: dir, File: "missing.c", Arguments: []string{"cc", "missing.c"}}
	valid := writeSource(t, dir, "valid.c", unusedSource)

	results, err := newService(DefaultConfig()).Run(context.Background(), []*compiledb.Entry{broken, missing, valid})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, StageParse, results[0].Stage())
	assert.Equal(t, StageParse, results[1].Stage())
	assert.Equal(t, report.StatusFailed, results[0].Status())
	assert.Equal(t, "int main(void) {\n    int x = ;\n}\n", readFile(t, broken.Path()))

	assert.Equal(t, StageNone, results[2].Stage())
	assert.Equal(t, report.StatusRewritten, results[2].Status())
	assert.Equal(t, unusedPatched, readFile(t, valid.Path()))
}

func TestService_Run_Parallel(t *testing.T) {
	dir := t.TempDir()
	var entries []*compiledb.Entry
	for i := 0; i < 8; i++ {
		source := unusedSource
		if i%2 == 1 {
			source = "int main(void) {\n    return 0;\n}\n"
		}
		entries = append(entries, writeSource(t, dir, fmt.Sprintf("file%d.c", i), source))
	}

	config := DefaultConfig()
	config.Parallel = 4
	results, err := newService(config).Run(context.Background(), entries)
	require.NoError(t, err)
	require.Len(t, results, len(entries))
	for i, result := range results {
		assert.Same(t, entries[i], result.Entry)
		require.NoError(t, result.Err)
		expect := 1 - i%2
		assert.Equal(t, expect, result.Removed(), result.Entry.File)
	}
}

func TestService_Run_Cancelled(t *testing.T) {
	entry := writeSource(t, t.TempDir(), "main.c", unusedSource)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newService(DefaultConfig()).Run(ctx, []*compiledb.Entry{entry})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, unusedSource, readFile(t, entry.Path()))
}

func TestService_Run_DumpAST(t *testing.T) {
	entry := writeSource(t, t.TempDir(), "main.c", unusedSource)
	dumpDir := t.TempDir()

	config := DefaultConfig()
	config.DumpDir = dumpDir
	_, err := newService(config).Run(context.Background(), []*compiledb.Entry{entry})
	require.NoError(t, err)

	dump := readFile(t, filepath.Join(dumpDir, "main.c.ast"))
	assert.Contains(t, dump, "VAR_DECL(declaration) - x [2:5-2:14]")
}

func TestService_Run_DumpASTSameBaseName(t *testing.T) {
	dir := t.TempDir()
	first := writeSource(t, dir, filepath.Join("a", "util.c"), unusedSource)
	second := writeSource(t, dir, filepath.Join("b", "util.c"), "int main(void) {\n    return 0;\n}\n")
	dumpDir := t.TempDir()

	config := DefaultConfig()
	config.DumpDir = dumpDir
	config.Parallel = 2
	_, err := newService(config).Run(context.Background(), []*compiledb.Entry{first, second})
	require.NoError(t, err)

	assert.Contains(t, readFile(t, filepath.Join(dumpDir, "a", "util.c.ast")), "VAR_DECL(declaration) - x")
	assert.NotContains(t, readFile(t, filepath.Join(dumpDir, "b", "util.c.ast")), "VAR_DECL")
}

type mockFrontend struct {
	mock.Mock
}

func (m *mockFrontend) Parse(ctx context.Context, path string, args []string) (syntax.Node, error) {
	called := m.Called(ctx, path, args)
	root, _ := called.Get(0).(syntax.Node)
	return root, called.Error(1)
}

func TestService_Process_Frontend(t *testing.T) {
	dir := t.TempDir()
	entry := writeSource(t, dir, "main.c", unusedSource)
	entry.Arguments = []string{"cc", "-DDEBUG", "-c", "main.c"}

	root := &syntax.Element{Nodes: []*syntax.Element{
		syntax.Block(syntax.Pos(1, 16), syntax.Pos(4, 2),
			syntax.Decl("x", syntax.Pos(2, 5), syntax.Pos(2, 14)),
		),
	}}
	fe := &mockFrontend{}
	fe.On("Parse", mock.Anything, entry.Path(), []string{"-DDEBUG"}).Return(root, nil).Once()

	logger := discardLogger()
	service := New(DefaultConfig(), fe, analyzer.New(analyzer.WithLogger(logger)), afs.New(), logger)
	result := service.Process(context.Background(), entry)
	require.NoError(t, result.Err)
	assert.Equal(t, 1, result.Removed())
	assert.Equal(t, unusedPatched, readFile(t, entry.Path()))
	fe.AssertExpectations(t)

	failing := &mockFrontend{}
	failing.On("Parse", mock.Anything, mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: boom", frontend.ErrParse))
	service = New(DefaultConfig(), failing, nil, afs.New(), logger)
	result = service.Process(context.Background(), entry)
	assert.True(t, errors.Is(result.Err, frontend.ErrParse))
	assert.Equal(t, StageParse, result.Stage())
}

func TestService_Report(t *testing.T) {
	dir := t.TempDir()
	valid := writeSource(t, dir, "valid.c", unusedSource)
	broken := writeSource(t, dir, "broken.c", "int main(void) {\n    int x = ;\n}\n")

	service := newService(DefaultConfig())
	results, err := service.Run(context.Background(), []*compiledb.Entry{valid, broken})
	require.NoError(t, err)

	doc := service.Report(results)
	assert.Equal(t, "scope", doc.Shadowing)
	require.Len(t, doc.Files, 2)
	assert.Equal(t, report.StatusRewritten, doc.Files[0].Status)
	assert.Equal(t, []syntax.Span{{Start: syntax.Pos(2, 5), End: syntax.Pos(2, 14)}}, doc.Files[0].Removed)
	require.Len(t, doc.Files[0].Scopes, 1)
	assert.Equal(t, "x", doc.Files[0].Scopes[0].Declarations[0].Name)
	assert.Len(t, doc.Files[0].Fingerprint, 16)
	assert.Equal(t, report.StatusFailed, doc.Files[1].Status)
	assert.Equal(t, string(StageParse), doc.Files[1].Stage)

	removed, byStatus := doc.Summary()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, byStatus[report.StatusRewritten])
	assert.Equal(t, 1, byStatus[report.StatusFailed])

	data, err := doc.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "shadowing: scope")
	assert.Contains(t, string(data), "status: rewritten")
}

func TestMode_Destination(t *testing.T) {
	var testCases = []struct {
		description string
		mode        Mode
		entry       *compiledb.Entry
		expect      string
	}{
		{
			description: "in place",
			mode:        InPlace(),
			entry:       &compiledb.Entry{Directory: "/work", File: "src/a.c"},
			expect:      filepath.Join("/work", "src", "a.c"),
		},
		{
			description: "relative to directory",
			mode:        SeparateOutput("/out"),
			entry:       &compiledb.Entry{Directory: "/work", File: "src/a.c"},
			expect:      filepath.Join("/out", "src", "a.c"),
		},
		{
			description: "outside directory",
			mode:        SeparateOutput("/out"),
			entry:       &compiledb.Entry{Directory: "/work", File: "/lib/b.c"},
			expect:      filepath.Join("/out", "lib", "b.c"),
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expect, testCase.mode.Destination(testCase.entry))
		})
	}
}
