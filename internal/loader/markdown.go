package loader

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdownToText parses markdown and extracts the plain text, dropping
// formatting but keeping block boundaries as blank lines.
func markdownToText(source []byte) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				sb.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					sb.WriteByte('\n')
				}
			}
		case *ast.Paragraph, *ast.Heading:
			if !entering {
				sb.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}
