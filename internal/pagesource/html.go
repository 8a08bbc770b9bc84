package pagesource

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/deduar/document-analizer/internal/document"
)

// HTMLSource decodes HTML documents. Each h1 opens a new logical page;
// headings and content blocks become page lines. Script, style and chrome
// elements are skipped.
type HTMLSource struct{}

func (s *HTMLSource) Load(r io.Reader, filename string) ([]document.Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

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

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				if level == 1 {
					flush()
				}
				if title := nodeText(n); title != "" {
					lines = append(lines, title)
				}
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote", "pre":
				if text := nodeText(n); text != "" {
					lines = append(lines, text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findElement(doc, "body"); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	flush()
	return pages, nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
