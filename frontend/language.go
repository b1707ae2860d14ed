package frontend

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
)

// Language identifies the grammar used to parse a file
type Language string

const (
	C   Language = "c"
	CPP Language = "c++"
)

var cppExtensions = map[string]bool{
	".cc": true, ".cpp": true, ".cxx": true, ".c++": true,
	".hh": true, ".hpp": true, ".hxx": true, ".h++": true, ".ipp": true, ".tpp": true,
}

// DetectLanguage selects the grammar from compiler arguments, falling back to the file extension
func DetectLanguage(path string, args []string) Language {
	for i, arg := range args {
		switch {
		case arg == "-x" && i+1 < len(args):
			return languageOf(args[i+1], path)
		case strings.HasPrefix(arg, "-x") && len(arg) > 2:
			return languageOf(arg[2:], path)
		case strings.HasPrefix(arg, "-std=c++"), strings.HasPrefix(arg, "-std=gnu++"),
			strings.HasPrefix(arg, "/std:c++"):
			return CPP
		case arg == "/TP":
			return CPP
		case arg == "/TC":
			return C
		}
	}
	ext := filepath.Ext(path)
	if ext == ".C" || cppExtensions[strings.ToLower(ext)] {
		return CPP
	}
	return C
}

func languageOf(value, path string) Language {
	switch strings.ToLower(value) {
	case "c++", "c++-header", "c++-cpp-output":
		return CPP
	case "c", "c-header", "cpp-output":
		return C
	}
	return DetectLanguage(path, nil)
}

// Grammar returns the tree-sitter grammar for the language
func (l Language) Grammar() *sitter.Language {
	if l == CPP {
		return cpp.GetLanguage()
	}
	return c.GetLanguage()
}
