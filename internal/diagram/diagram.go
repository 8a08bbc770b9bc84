// Package diagram renders a section list as mermaid flowcharts: a per-page
// tree of the outline, and a title-to-page relation graph.
package diagram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/deduar/document-analizer/internal/document"
	"github.com/deduar/document-analizer/internal/textnorm"
)

// escapeLabel keeps labels inside mermaid's double-quoted node syntax.
func escapeLabel(label string) string {
	return strings.ReplaceAll(label, `"`, `'`)
}

func fence(statements []string) string {
	return "```mermaid\n" + strings.Join(statements, "\n") + "\n```\n"
}

// SectionsTree renders the outline as a top-down tree: one root node for the
// source document, one node per page in ascending order, and one node per
// section linked to its parent section when the parent resolves, otherwise
// to its page.
func SectionsTree(sourceFile string, sections []document.Section) string {
	statements := []string{
		"flowchart TD",
		fmt.Sprintf(`doc["%s"]`, escapeLabel(sourceFile)),
	}

	known := make(map[string]struct{}, len(sections))
	byPage := make(map[int][]document.Section)
	var pages []int
	for _, section := range sections {
		if section.ID != "" {
			known[section.ID] = struct{}{}
		}
		if section.PageNumber < 1 {
			continue
		}
		if _, seen := byPage[section.PageNumber]; !seen {
			pages = append(pages, section.PageNumber)
		}
		byPage[section.PageNumber] = append(byPage[section.PageNumber], section)
	}
	sort.Ints(pages)

	for _, pageNumber := range pages {
		pageID := fmt.Sprintf("page_%d", pageNumber)
		statements = append(statements,
			fmt.Sprintf(`%s["Page %d"]`, pageID, pageNumber),
			fmt.Sprintf("doc --> %s", pageID),
		)
		for _, section := range byPage[pageNumber] {
			id := section.ID
			if id == "" {
				id = fmt.Sprintf("sec_%d", pageNumber)
			}
			title := section.Title
			if title == "" {
				title = id
			}
			from := pageID
			if section.ParentID != nil {
				if _, ok := known[*section.ParentID]; ok {
					from = *section.ParentID
				}
			}
			statements = append(statements,
				fmt.Sprintf(`%s["%s"]`, id, escapeLabel(title)),
				fmt.Sprintf("%s --> %s", from, id),
			)
		}
	}
	return fence(statements)
}

// SectionsRelated renders one node per distinct title (sorted) with an edge
// to every page it appears on (ascending). Duplicate title/page pairs
// collapse in the grouping. Two titles that slugify identically share a
// node; the collision is left as is.
func SectionsRelated(sections []document.Section) string {
	statements := []string{"flowchart LR"}

	titlePages := make(map[string]map[int]struct{})
	for _, section := range sections {
		if section.Title == "" || section.PageNumber < 1 {
			continue
		}
		if titlePages[section.Title] == nil {
			titlePages[section.Title] = make(map[int]struct{})
		}
		titlePages[section.Title][section.PageNumber] = struct{}{}
	}

	titles := make([]string, 0, len(titlePages))
	for title := range titlePages {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	for _, title := range titles {
		titleID := "title_" + textnorm.Slugify(title)
		statements = append(statements, fmt.Sprintf(`%s["%s"]`, titleID, escapeLabel(title)))

		pages := make([]int, 0, len(titlePages[title]))
		for pageNumber := range titlePages[title] {
			pages = append(pages, pageNumber)
		}
		sort.Ints(pages)
		for _, pageNumber := range pages {
			pageID := fmt.Sprintf("page_%d", pageNumber)
			statements = append(statements,
				fmt.Sprintf(`%s["Page %d"]`, pageID, pageNumber),
				fmt.Sprintf("%s --> %s", titleID, pageID),
			)
		}
	}
	return fence(statements)
}
