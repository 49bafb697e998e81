package converter

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var wordParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// CountWords counts the words a reader sees in markdown.
// Code, raw HTML and markup characters are not counted.
func CountWords(markdown string) int {
	src := []byte(markdown)
	doc := wordParser.Parse(text.NewReader(src))

	var visible strings.Builder
	lastStop := -1
	boundary := func() {
		visible.WriteByte(' ')
		lastStop = -1
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindCodeSpan, ast.KindHTMLBlock, ast.KindRawHTML:
			boundary()
			return ast.WalkSkipChildren, nil
		}
		if n.Type() == ast.TypeBlock {
			boundary()
			return ast.WalkContinue, nil
		}

		t, ok := n.(*ast.Text)
		if !ok {
			return ast.WalkContinue, nil
		}

		// markup between two text nodes joins them unless it holds whitespace
		seg := t.Segment
		if lastStop >= 0 && lastStop <= seg.Start && bytes.ContainsAny(src[lastStop:seg.Start], " \t\n") {
			visible.WriteByte(' ')
		}
		visible.Write(seg.Value(src))
		lastStop = seg.Stop
		if t.SoftLineBreak() || t.HardLineBreak() {
			boundary()
		}
		return ast.WalkContinue, nil
	})

	return len(strings.Fields(visible.String()))
}
