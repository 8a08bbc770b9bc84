package pagesource

import (
	"io"
	"strings"

	"github.com/deduar/document-analizer/internal/document"
)

// TextSource decodes plain text. Form feeds separate pages; otherwise the
// whole file is one page. Text is carried verbatim, no word metadata.
type TextSource struct{}

func (s *TextSource) Load(r io.Reader, filename string) ([]document.Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var pages []document.Page
	for _, part := range strings.Split(string(data), "\f") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		pages = append(pages, document.Page{
			PageNumber: len(pages) + 1,
			Text:       strings.Trim(part, "\n"),
		})
	}
	return pages, nil
}
