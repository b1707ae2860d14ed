package frontend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/unused/syntax"
)

// collect returns "name@extent" for every declaration and the names of every reference
func collect(root syntax.Node) (decls []string, refs []string) {
	var walk func(n syntax.Node)
	walk = func(n syntax.Node) {
		switch n.Kind() {
		case syntax.VarDecl:
			decls = append(decls, n.Spelling()+"@"+n.Extent().String())
		case syntax.DeclRefExpr:
			refs = append(refs, n.Spelling())
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(root)
	return decls, refs
}

func countKind(root syntax.Node, kind syntax.Kind) int {
	count := 0
	if root.Kind() == kind {
		count++
	}
	for _, child := range root.Children() {
		count += countKind(child, kind)
	}
	return count
}

func TestParser_ParseSource(t *testing.T) {
	var testCases = []struct {
		description string
		language    Language
		source      string
		decls       []string
		refs        []string
	}{
		{
			description: "single unused local",
			language:    C,
			source:      "int main(void) {\n    int x = 1;\n    return 0;\n}\n",
			decls:       []string{"x@2:5-2:14"},
		},
		{
			description: "used local",
			language:    C,
			source:      "int main(void) {\n    int x = 1;\n    return x;\n}\n",
			decls:       []string{"x@2:5-2:14"},
			refs:        []string{"x"},
		},
		{
			description: "declaration spanning lines",
			language:    C,
			source:      "int main(void) {\n    int\n      z = 2;\n    return 0;\n}\n",
			decls:       []string{"z@2:5-3:12"},
		},
		{
			description: "for initializer",
			language:    C,
			source:      "int main(void) {\n    for (int i = 0; ; ) {\n    }\n    return 0;\n}\n",
			decls:       []string{"i@2:10-2:19"},
		},
		{
			description: "globals are not block scoped",
			language:    C,
			source:      "int g = 0;\nint main(void) {\n    return 0;\n}\n",
		},
		{
			description: "multiple declarators are not reported",
			language:    C,
			source:      "int main(void) {\n    int a, b;\n    return 0;\n}\n",
		},
		{
			description: "local function prototype is not a variable",
			language:    C,
			source:      "int main(void) {\n    int f(int);\n    return 0;\n}\n",
		},
		{
			description: "pointer declarator",
			language:    C,
			source:      "int main(void) {\n    char *p = 0;\n    return 0;\n}\n",
			decls:       []string{"p@2:5-2:16"},
		},
	}

	parser := New(nil, nil)
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			root, err := parser.ParseSource(context.Background(), []byte(testCase.source), testCase.language)
			require.NoError(t, err)
			decls, refs := collect(root)
			assert.Equal(t, testCase.decls, decls)
			assert.Equal(t, testCase.refs, refs)
		})
	}
}

func TestParser_ParseSource_UnusedAttribute(t *testing.T) {
	var testCases = []struct {
		description string
		language    Language
		source      string
	}{
		{
			description: "maybe_unused",
			language:    CPP,
			source:      "int main() {\n    [[maybe_unused]] int x = 1;\n    return 0;\n}\n",
		},
		{
			description: "gnu unused attribute",
			language:    C,
			source:      "int main(void) {\n    __attribute__((unused)) int x = 1;\n    return 0;\n}\n",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			root, err := New(nil, nil).ParseSource(context.Background(), []byte(testCase.source), testCase.language)
			require.NoError(t, err)
			decls, _ := collect(root)
			assert.Empty(t, decls)
		})
	}
}

func TestParser_ParseSource_Structure(t *testing.T) {
	src := "int main(void) {\n    for (int i = 0; i < 2; i++) {\n        int y = i;\n    }\n    return 0;\n}\n"
	root, err := New(nil, nil).ParseSource(context.Background(), []byte(src), C)
	require.NoError(t, err)
	assert.Equal(t, 2, countKind(root, syntax.CompoundStmt))
	assert.Equal(t, 1, countKind(root, syntax.ForStmt))
	assert.Equal(t, 2, countKind(root, syntax.VarDecl))
}

func TestParser_ParseSource_Macro(t *testing.T) {
	src := "#define TOUCH() (void)value\nint main(void) {\n    int value = 1;\n    TOUCH();\n    return 0;\n}\n"
	root, err := New(nil, nil).ParseSource(context.Background(), []byte(src), C)
	require.NoError(t, err)
	decls, refs := collect(root)
	assert.Equal(t, []string{"value@3:5-3:18"}, decls)
	assert.Contains(t, refs, "TOUCH")
	assert.Contains(t, refs, "value")
}

func TestParser_ParseSource_ExpressionMisreadAsDeclaration(t *testing.T) {
	var testCases = []struct {
		description string
		source      string
		decls       []string
		refs        []string
	}{
		{
			description: "product of locals",
			source:      "int main(void) {\n    int a = 2, b;\n    int c = 3;\n    a * c;\n    return 0;\n}\n",
			decls:       []string{"c@3:5-3:14"},
			refs:        []string{"a", "c"},
		},
		{
			description: "product with a parameter",
			source:      "int f(int a) {\n    int c = 3;\n    a * c;\n    return 0;\n}\n",
			decls:       []string{"c@2:5-2:14"},
			refs:        []string{"a", "c"},
		},
		{
			description: "typedef name still declares",
			source:      "typedef int a;\nint main(void) {\n    a * c;\n    return 0;\n}\n",
			decls:       []string{"c@3:5-3:10"},
			refs:        []string{"a"},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			root, err := New(nil, nil).ParseSource(context.Background(), []byte(testCase.source), C)
			require.NoError(t, err)
			decls, refs := collect(root)
			assert.Equal(t, testCase.decls, decls)
			assert.Equal(t, testCase.refs, refs)
		})
	}
}

func TestParser_ParseSource_Sizeof(t *testing.T) {
	src := "int main(void) {\n    int n = 2;\n    return sizeof(n);\n}\n"
	root, err := New(nil, nil).ParseSource(context.Background(), []byte(src), C)
	require.NoError(t, err)
	_, refs := collect(root)
	assert.Contains(t, refs, "n")
}

func TestParser_ParseSource_SyntaxError(t *testing.T) {
	src := "int main(void) {\n    int x = ;\n}\n"
	_, err := New(nil, nil).ParseSource(context.Background(), []byte(src), C)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParser_Parse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.cpp")
	require.NoError(t, os.WriteFile(path, []byte("int main() {\n    auto x = 1;\n    return 0;\n}\n"), 0600))

	parser := New(afs.New(), nil)
	root, err := parser.Parse(context.Background(), path, []string{"-std=c++17"})
	require.NoError(t, err)
	decls, _ := collect(root)
	assert.Equal(t, []string{"x@2:5-2:15"}, decls)

	_, err = parser.Parse(context.Background(), filepath.Join(dir, "missing.c"), nil)
	assert.ErrorIs(t, err, ErrParse)
}

func TestDetectLanguage(t *testing.T) {
	var testCases = []struct {
		description string
		path        string
		args        []string
		expect      Language
	}{
		{description: "c extension", path: "a.c", expect: C},
		{description: "header defaults to c", path: "a.h", expect: C},
		{description: "cpp extension", path: "a.cpp", expect: CPP},
		{description: "upper case C", path: "a.C", expect: CPP},
		{description: "hpp extension", path: "a.HPP", expect: CPP},
		{description: "std flag", path: "a.h", args: []string{"-Wall", "-std=c++20"}, expect: CPP},
		{description: "gnu std flag", path: "a.h", args: []string{"-std=gnu++17"}, expect: CPP},
		{description: "c std flag", path: "a.h", args: []string{"-std=c11"}, expect: C},
		{description: "separate x flag", path: "a.c", args: []string{"-x", "c++"}, expect: CPP},
		{description: "joined x flag", path: "a.cpp", args: []string{"-xc"}, expect: C},
		{description: "unknown x value", path: "a.cc", args: []string{"-x", "assembler"}, expect: CPP},
		{description: "msvc TP", path: "a.c", args: []string{"/TP"}, expect: CPP},
		{description: "msvc TC", path: "a.cpp", args: []string{"/TC"}, expect: C},
		{description: "msvc std", path: "a.c", args: []string{"/std:c++17"}, expect: CPP},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expect, DetectLanguage(testCase.path, testCase.args))
		})
	}
}
