package pagesource

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	mdtext "github.com/yuin/goldmark/text"

	"github.com/deduar/document-analizer/internal/document"
)

// MarkdownSource decodes markdown via the goldmark AST. Markdown has no
// physical pages, so every level-1 heading opens a new logical page; heading
// and block text become the page's lines. No word-level metadata exists.
type MarkdownSource struct{}

func (s *MarkdownSource) Load(r io.Reader, filename string) ([]document.Page, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(mdtext.NewReader(src))

	var pages []document.Page
	var lines []string

	flush := func() {
		if len(lines) == 0 {
			return
		}
		pages = append(pages, document.Page{
			PageNumber: len(pages) + 1,
			Text:       strings.Join(lines, "\n"),
		})
		lines = nil
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 {
				flush()
			}
			if title := string(node.Text(src)); title != "" {
				lines = append(lines, title)
			}
		default:
			for _, line := range strings.Split(blockText(n, src), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					lines = append(lines, line)
				}
			}
		}
	}
	flush()
	return pages, nil
}

// blockText collects the text content of a goldmark AST block.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if part := blockText(c, src); part != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(part)
		}
	}
	return strings.TrimSpace(buf.String())
}
