package pagesource

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/deduar/document-analizer/internal/document"
)

// DOCXSource decodes .docx files. Paragraphs styled Heading1 open a new
// logical page; every non-empty paragraph becomes a page line.
type DOCXSource struct{}

func (s *DOCXSource) Load(r io.Reader, filename string) ([]document.Page, error) {
	// go-docx needs a ReadSeeker+size, so stage a temp file.
	tmp, err := os.CreateTemp("", "docanalyzer-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
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

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		if isTopHeading(para) {
			flush()
		}
		lines = append(lines, text)
	}
	flush()
	return pages, nil
}

func isTopHeading(para *docx.Paragraph) bool {
	if para.Properties == nil || para.Properties.Style == nil {
		return false
	}
	style := para.Properties.Style.Val
	return strings.EqualFold(style, "Heading1") || strings.EqualFold(style, "heading 1")
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
