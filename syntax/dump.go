package syntax

import (
	"io"
	"strings"
)

// Dump writes an indented "kind - spelling" line per node
func Dump(w io.Writer, node Node) error {
	return dump(w, node, 0)
}

func dump(w io.Writer, node Node, depth int) error {
	kind := node.Kind().String()
	if typed, ok := node.(interface{ Type() string }); ok {
		kind += "(" + typed.Type() + ")"
	}
	line := strings.Repeat("  ", depth) + kind + " - " + node.Spelling() + " [" + node.Extent().String() + "]\n"
	if _, err := io.WriteString(w, line); err != nil {
		return err
	}
	for _, child := range node.Children() {
		if err := dump(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
