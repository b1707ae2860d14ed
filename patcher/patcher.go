package patcher

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/unused/syntax"
)

var (
	// ErrMalformedSpan reports a span inconsistent with the file's lines and columns
	ErrMalformedSpan = errors.New("malformed span")
	// ErrIO reports a failure reading or writing a file
	ErrIO = errors.New("io failure")
)

type state int

const (
	noActiveSpan state = iota
	spanActive
)

type line struct {
	text    string
	eol     string
	touched bool
}

// Patch deletes every character covered by spans; spans must be ordered and must not overlap.
// A span starting a statement (at line start or after '{', '}' or ';') also takes the ';'
// directly following it. Lines a deletion leaves blank or holding only ';' empty statements are dropped.
func Patch(content []byte, spans []syntax.Span) ([]byte, error) {
	if len(spans) == 0 {
		return content, nil
	}
	lines := splitLines(content)
	if err := validate(lines, spans); err != nil {
		return nil, err
	}

	current := noActiveSpan
	next := 0
	statement := false
	for i := range lines {
		lineNo := i + 1
		text := lines[i].text
		var kept strings.Builder
		cursor := 0
		for {
			if current == spanActive {
				lines[i].touched = true
				span := spans[next]
				if lineNo < span.End.Line {
					cursor = len(text)
					break
				}
				next++
				cursor = terminate(text, span.End.Column-1, statement, spans, next)
				current = noActiveSpan
				continue
			}
			if next >= len(spans) || spans[next].Start.Line != lineNo {
				break
			}
			span := spans[next]
			lines[i].touched = true
			kept.WriteString(text[cursor : span.Start.Column-1])
			statement = startsStatement(kept.String())
			if span.End.Line == lineNo {
				next++
				cursor = terminate(text, span.End.Column-1, statement, spans, next)
				continue
			}
			cursor = len(text)
			current = spanActive
			break
		}
		if lines[i].touched {
			kept.WriteString(text[cursor:])
			lines[i].text = kept.String()
		}
	}

	var out bytes.Buffer
	out.Grow(len(content))
	for _, l := range lines {
		if l.touched && strings.Trim(l.text, "; \t\v\f\r") == "" {
			continue
		}
		out.WriteString(l.text)
		out.WriteString(l.eol)
	}
	return out.Bytes(), nil
}

// startsStatement reports whether text preceding a span ends at a statement boundary
func startsStatement(prefix string) bool {
	prefix = strings.TrimRight(prefix, " \t\v\f")
	return prefix == "" || strings.ContainsAny(prefix[len(prefix)-1:], "{};")
}

// terminate returns the cursor after a span ending at column, skipping its ';' when the span is a statement
func terminate(text string, column int, statement bool, spans []syntax.Span, next int) int {
	if !statement || column >= len(text) || text[column] != ';' {
		return column
	}
	if next < len(spans) && spans[next].Start.Column-1 <= column && spans[next].Start.Line == spans[next-1].End.Line {
		return column
	}
	return column + 1
}

func splitLines(content []byte) []line {
	if len(content) == 0 {
		return nil
	}
	parts := strings.SplitAfter(string(content), "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	lines := make([]line, 0, len(parts))
	for _, part := range parts {
		l := line{text: part}
		if strings.HasSuffix(part, "\r\n") {
			l.text, l.eol = part[:len(part)-2], "\r\n"
		} else if strings.HasSuffix(part, "\n") {
			l.text, l.eol = part[:len(part)-1], "\n"
		}
		lines = append(lines, l)
	}
	return lines
}

func validate(lines []line, spans []syntax.Span) error {
	for i, span := range spans {
		if err := span.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSpan, err)
		}
		if span.End.Line > len(lines) {
			return fmt.Errorf("%w: span %v ends beyond line %d", ErrMalformedSpan, span, len(lines))
		}
		if limit := len(lines[span.Start.Line-1].text) + 1; span.Start.Column > limit {
			return fmt.Errorf("%w: span %v starts beyond column %d", ErrMalformedSpan, span, limit)
		}
		if limit := len(lines[span.End.Line-1].text) + 1; span.End.Column > limit {
			return fmt.Errorf("%w: span %v ends beyond column %d", ErrMalformedSpan, span, limit)
		}
		if i > 0 && span.Start.Before(spans[i-1].End) {
			return fmt.Errorf("%w: span %v overlaps or precedes %v", ErrMalformedSpan, span, spans[i-1])
		}
	}
	return nil
}
