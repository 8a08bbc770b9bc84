// Package chunker splits page text into paragraph and table chunks scoped to
// the nearest preceding section heading.
package chunker

import (
	"fmt"
	"strings"

	"github.com/deduar/document-analizer/internal/document"
	"github.com/deduar/document-analizer/internal/segment"
	"github.com/deduar/document-analizer/internal/textnorm"
)

// state is the accumulator threaded through the chunking fold. The open
// section survives page breaks; the line buffer and kind do not.
type state struct {
	chunks    []document.Chunk
	nextID    int
	sectionID *string
	kind      string
	buffer    []string
}

// Chunk walks pages against the section list and emits paragraph/table
// chunks in document order. Lines before the first recognized section
// heading are discarded; a recognized heading line is consumed, never
// emitted as chunk text.
func Chunk(pages []document.Page, sections []document.Section) []document.Chunk {
	index := indexSections(sections)
	byPage := sectionsByPage(sections)

	st := &state{kind: document.KindParagraph}

	for _, page := range pages {
		if page.PageNumber < 1 {
			continue
		}
		expected := byPage[page.PageNumber]
		cursor := 0
		st.kind = document.KindParagraph
		st.buffer = nil

		for _, raw := range strings.Split(page.Text, "\n") {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}

			if cursor < len(expected) && lineMatchesTitle(line, expected[cursor].Title) {
				st.flush(index, page.PageNumber)
				id := expected[cursor].ID
				st.sectionID = &id
				st.kind = document.KindParagraph
				cursor++
				continue
			}

			if st.sectionID == nil {
				continue
			}

			kind := document.KindParagraph
			if segment.IsLooseNumeric(line) {
				kind = document.KindTable
			}
			if kind != st.kind {
				st.flush(index, page.PageNumber)
			}
			st.kind = kind
			st.buffer = append(st.buffer, line)
		}

		st.flush(index, page.PageNumber)
	}

	return st.chunks
}

// flush emits the buffered lines as one chunk under the open section.
// Empty buffers emit nothing, so no chunk ever has empty text.
func (st *state) flush(index map[string]document.Section, pageNumber int) {
	if len(st.buffer) == 0 || st.sectionID == nil {
		st.buffer = nil
		return
	}
	st.nextID++
	st.chunks = append(st.chunks, document.Chunk{
		ID:          fmt.Sprintf("chunk_%03d", st.nextID),
		SectionID:   *st.sectionID,
		SectionPath: SectionPath(*st.sectionID, index),
		PageNumber:  pageNumber,
		Kind:        st.kind,
		Text:        strings.Join(st.buffer, "\n"),
		LineCount:   len(st.buffer),
	})
	st.buffer = nil
}

// lineMatchesTitle reports whether a page line carries a section title:
// either the folded title is a substring of the folded line, or every title
// token longer than two characters appears in the line.
func lineMatchesTitle(line, title string) bool {
	foldedLine := textnorm.Fold(line)
	foldedTitle := textnorm.Fold(title)
	if foldedLine == "" || foldedTitle == "" {
		return false
	}
	if strings.Contains(foldedLine, foldedTitle) {
		return true
	}
	matched := false
	for _, token := range strings.Fields(foldedTitle) {
		if len(token) <= 2 {
			continue
		}
		if !strings.Contains(foldedLine, token) {
			return false
		}
		matched = true
	}
	return matched
}

// SectionPath resolves the ordered titles from the root ancestor down to the
// section itself. Dangling parents truncate the walk; a visited set bounds
// it on cyclic input.
func SectionPath(sectionID string, index map[string]document.Section) []string {
	var reversed []string
	visited := make(map[string]struct{})
	id := sectionID
	for {
		if _, seen := visited[id]; seen {
			break
		}
		visited[id] = struct{}{}
		section, ok := index[id]
		if !ok {
			break
		}
		reversed = append(reversed, section.Title)
		if section.ParentID == nil {
			break
		}
		id = *section.ParentID
	}
	path := make([]string, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path
}

func indexSections(sections []document.Section) map[string]document.Section {
	index := make(map[string]document.Section, len(sections))
	for _, section := range sections {
		if section.ID != "" {
			index[section.ID] = section
		}
	}
	return index
}

func sectionsByPage(sections []document.Section) map[int][]document.Section {
	byPage := make(map[int][]document.Section)
	for _, section := range sections {
		if section.PageNumber < 1 {
			continue
		}
		byPage[section.PageNumber] = append(byPage[section.PageNumber], section)
	}
	return byPage
}
