package segment

import (
	"fmt"

	"github.com/deduar/document-analizer/internal/document"
	"github.com/deduar/document-analizer/internal/layout"
	"github.com/deduar/document-analizer/internal/textnorm"
)

// Builder assigns ids, levels and parents to classified headings in a single
// forward pass. Hierarchy never spans pages: the open main/sub pointers reset
// at the top of every page, while the id counter is global so creation order
// is total across the document.
type Builder struct {
	classifier *Classifier
}

// NewBuilder returns a Builder using the given classifier.
func NewBuilder(c *Classifier) *Builder {
	return &Builder{classifier: c}
}

// pageState is the per-page accumulator of the assignment state machine.
type pageState struct {
	currentMainID *string
	currentSubID  *string
}

// Segment classifies every line of every page and returns the flat section
// list in creation order.
func (b *Builder) Segment(pages []document.Page) []document.Section {
	var sections []document.Section
	nextID := 0

	for _, page := range pages {
		if page.PageNumber < 1 {
			continue
		}
		medianSize := layout.MedianFontSize(page.Words)
		state := pageState{}

		for _, line := range layout.AssembleLines(page) {
			text := textnorm.CollapseSpace(line.Text)
			if text == "" {
				continue
			}
			if !b.classifier.IsHeading(text, medianSize, line.AvgSize) {
				continue
			}

			nextID++
			section := document.Section{
				ID:         fmt.Sprintf("sec_%03d", nextID),
				Title:      text,
				PageNumber: page.PageNumber,
			}
			b.assign(&section, text, &state)
			sections = append(sections, section)
		}
	}
	return sections
}

// assign applies the level transition rules to one heading, in priority
// order: data rows nest under whatever is open, subsection vocabulary opens
// a level-2 heading, everything else opens a new level-1 heading.
func (b *Builder) assign(section *document.Section, text string, state *pageState) {
	switch {
	case IsStrictNumeric(text):
		switch {
		case state.currentSubID != nil:
			section.Level = 3
			section.ParentID = state.currentSubID
		case state.currentMainID != nil:
			section.Level = 2
			section.ParentID = state.currentMainID
		default:
			section.Level = 1
		}
	case b.classifier.MatchesSubsection(text):
		section.Level = 2
		section.ParentID = state.currentMainID
		id := section.ID
		state.currentSubID = &id
	default:
		section.Level = 1
		id := section.ID
		state.currentMainID = &id
		state.currentSubID = nil
	}
}
