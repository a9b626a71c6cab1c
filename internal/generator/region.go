package generator

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// span is a half-open byte range of the source.
type span struct {
	start, stop int
}

func (s span) overlaps(start, stop int) bool {
	return start < s.stop && stop > s.start
}

// ReplaceRegion replaces everything from the first start marker up to and
// including the first end marker after it with start, content and end on
// their own lines. Markers quoted in code blocks or code spans are not
// treated as markers. Text outside the region is kept byte for byte.
func ReplaceRegion(source []byte, markers Markers, content string) ([]byte, error) {
	if markers.Start == "" || markers.End == "" {
		return nil, ErrEmptyMarker
	}

	code := codeRanges(source)

	start := indexOutside(source, []byte(markers.Start), 0, code)
	if start < 0 {
		return nil, fmt.Errorf("%w: missing %q", ErrMarkersNotFound, markers.Start)
	}
	end := indexOutside(source, []byte(markers.End), start+len(markers.Start), code)
	if end < 0 {
		return nil, fmt.Errorf("%w: missing %q after %q", ErrMarkersNotFound, markers.End, markers.Start)
	}
	tail := source[end+len(markers.End):]

	var buf bytes.Buffer
	buf.Grow(start + len(markers.Start) + len(content) + len(markers.End) + len(tail) + 2)
	buf.Write(source[:start])
	buf.WriteString(markers.Start)
	buf.WriteByte('\n')
	buf.WriteString(content)
	buf.WriteByte('\n')
	buf.WriteString(markers.End)
	buf.Write(tail)
	return buf.Bytes(), nil
}

// codeRanges parses the Markdown and returns the byte ranges of code blocks
// and inline code spans.
func codeRanges(source []byte) []span {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var ranges []span
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			lines := n.Lines()
			if lines.Len() > 0 {
				ranges = append(ranges, span{lines.At(0).Start, lines.At(lines.Len() - 1).Stop})
			}
			return ast.WalkSkipChildren, nil
		case ast.KindCodeSpan:
			first, ok1 := n.FirstChild().(*ast.Text)
			last, ok2 := n.LastChild().(*ast.Text)
			if ok1 && ok2 {
				ranges = append(ranges, span{first.Segment.Start, last.Segment.Stop})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return ranges
}

// indexOutside returns the index of the first occurrence of marker at or
// after from that does not overlap any excluded range, or -1.
func indexOutside(source, marker []byte, from int, excluded []span) int {
	for from <= len(source) {
		i := bytes.Index(source[from:], marker)
		if i < 0 {
			return -1
		}
		i += from
		if !overlapsAny(excluded, i, i+len(marker)) {
			return i
		}
		from = i + 1
	}
	return -1
}

func overlapsAny(ranges []span, start, stop int) bool {
	for _, r := range ranges {
		if r.overlaps(start, stop) {
			return true
		}
	}
	return false
}
