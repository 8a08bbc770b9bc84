// Package pagesource decodes source documents into ordered pages of text
// and, where the format carries layout metadata, positioned words. It is the
// analyzer's only contact with document formats; everything downstream works
// on document.Page values.
package pagesource

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/deduar/document-analizer/internal/document"
)

// Source decodes one document format into pages.
type Source interface {
	Load(r io.Reader, filename string) ([]document.Page, error)
}

// SupportedExtensions lists the file extensions the analyzer can ingest.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
	".txt":      true,
}

// ForFile returns the source for a filename's extension.
func ForFile(filename string, extractWords bool) (Source, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return &PDFSource{ExtractWords: extractWords}, nil
	case ".md", ".markdown":
		return &MarkdownSource{}, nil
	case ".html", ".htm":
		return &HTMLSource{}, nil
	case ".docx":
		return &DOCXSource{}, nil
	case ".txt":
		return &TextSource{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}
}

// IsSupportedExtension checks whether a filename can be ingested.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}
