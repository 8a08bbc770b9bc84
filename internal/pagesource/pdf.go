package pagesource

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/deduar/document-analizer/internal/document"
)

// wordGapFactor is the fraction of the font size treated as a word boundary
// between adjacent text runs on the same row.
const wordGapFactor = 0.3

// PDFSource decodes PDFs. Word extraction reads the page content stream for
// positioned runs with font metadata; plain text always comes from
// GetPlainText so the two views stay independent.
type PDFSource struct {
	ExtractWords bool
}

func (s *PDFSource) Load(r io.Reader, filename string) ([]document.Page, error) {
	// ledongthuc/pdf needs a ReadSeeker+size, so stage a temp file.
	tmp, err := os.CreateTemp("", "docanalyzer-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var pages []document.Page
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			text = ""
		}

		width, height := pageBounds(page)
		out := document.Page{
			PageNumber: len(pages) + 1,
			Width:      width,
			Height:     height,
			Text:       text,
		}
		if s.ExtractWords {
			out.Words = wordsFromContent(page.Content().Text, height)
		}
		pages = append(pages, out)
	}
	return pages, nil
}

func pageBounds(page pdflib.Page) (width, height float64) {
	box := page.V.Key("MediaBox")
	if box.Len() == 4 {
		width = box.Index(2).Float64() - box.Index(0).Float64()
		height = box.Index(3).Float64() - box.Index(1).Float64()
	}
	return width, height
}

// wordsFromContent assembles positioned words from raw content-stream text
// runs: runs are bucketed into rows by rounded baseline, ordered by X, and
// merged while the horizontal gap stays under a fraction of the font size.
func wordsFromContent(texts []pdflib.Text, pageHeight float64) []document.Word {
	rows := make(map[int][]pdflib.Text)
	var keys []int
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		key := int(math.Round(t.Y))
		if _, seen := rows[key]; !seen {
			keys = append(keys, key)
		}
		rows[key] = append(rows[key], t)
	}
	// Rows top to bottom: PDF Y grows upward.
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	var words []document.Word
	for _, key := range keys {
		row := rows[key]
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

		var run strings.Builder
		var start pdflib.Text
		prevEnd := 0.0
		flush := func() {
			text := strings.TrimSpace(run.String())
			if text == "" {
				return
			}
			// Flip Y so Top grows downward even without a media box.
			top := -start.Y
			if pageHeight > 0 {
				top = pageHeight - start.Y
			}
			size := start.FontSize
			font := start.Font
			words = append(words, document.Word{
				Text: text,
				X0:   start.X,
				Top:  top,
				Size: &size,
				Fontname: &font,
			})
			run.Reset()
		}
		for _, t := range row {
			gap := wordGapFactor * t.FontSize
			if gap <= 0 {
				gap = 1
			}
			if run.Len() > 0 && t.X-prevEnd > gap {
				flush()
			}
			if run.Len() == 0 {
				start = t
			}
			run.WriteString(t.S)
			prevEnd = t.X + t.W
		}
		flush()
	}
	return words
}
