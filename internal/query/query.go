// Package query answers structural questions over a section list: ancestry,
// children, siblings, descendants, and title lookup, optionally enriched
// with chunks and numeric data excerpts.
package query

import (
	"strings"

	"github.com/deduar/document-analizer/internal/chunker"
	"github.com/deduar/document-analizer/internal/document"
	"github.com/deduar/document-analizer/internal/segment"
	"github.com/deduar/document-analizer/internal/textnorm"
)

// Engine indexes a section list for relationship queries. It never mutates
// the sections it was built from; all indices are derived and disposable.
type Engine struct {
	sections []document.Section
	byID     map[string]document.Section
	// children keys parents by id; root sections live under the empty key.
	children map[string][]document.Section
	chunks   map[string][]document.Chunk
	pages    map[int]document.Page
}

// New builds an engine over sections. Sections without an id are skipped
// from the id index but still appear as children of their parent.
func New(sections []document.Section) *Engine {
	e := &Engine{
		sections: sections,
		byID:     make(map[string]document.Section, len(sections)),
		children: make(map[string][]document.Section),
	}
	for _, section := range sections {
		if section.ID != "" {
			e.byID[section.ID] = section
		}
		key := ""
		if section.ParentID != nil {
			key = *section.ParentID
		}
		e.children[key] = append(e.children[key], section)
	}
	return e
}

// WithChunks attaches chunks for context enrichment, indexed by section id
// in original order.
func (e *Engine) WithChunks(chunks []document.Chunk) *Engine {
	e.chunks = make(map[string][]document.Chunk)
	for _, chunk := range chunks {
		e.chunks[chunk.SectionID] = append(e.chunks[chunk.SectionID], chunk)
	}
	return e
}

// WithPages attaches source pages so contexts can carry data excerpts.
func (e *Engine) WithPages(pages []document.Page) *Engine {
	e.pages = make(map[int]document.Page, len(pages))
	for _, page := range pages {
		if page.PageNumber >= 1 {
			e.pages[page.PageNumber] = page
		}
	}
	return e
}

// FindByTitle returns sections whose folded title contains the folded query,
// or equals it when exact is set, in original list order.
func (e *Engine) FindByTitle(query string, exact bool) []document.Section {
	folded := textnorm.Fold(query)
	var matches []document.Section
	for _, section := range e.sections {
		title := textnorm.Fold(section.Title)
		if exact && title == folded {
			matches = append(matches, section)
		} else if !exact && strings.Contains(title, folded) {
			matches = append(matches, section)
		}
	}
	return matches
}

// ParentChain returns the ancestors of a section ordered root to direct
// parent. A dangling parent reference truncates the chain; a cyclic one
// terminates it. The section itself is never included.
func (e *Engine) ParentChain(id string) []document.Section {
	var reversed []document.Section
	visited := map[string]struct{}{id: {}}

	current, ok := e.byID[id]
	for ok && current.ParentID != nil {
		parentID := *current.ParentID
		if _, seen := visited[parentID]; seen {
			break
		}
		visited[parentID] = struct{}{}
		parent, found := e.byID[parentID]
		if !found {
			break
		}
		reversed = append(reversed, parent)
		current = parent
	}

	chain := make([]document.Section, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		chain = append(chain, reversed[i])
	}
	return chain
}

// Children returns the direct children of a section in original list order.
func (e *Engine) Children(id string) []document.Section {
	return e.children[id]
}

// Siblings returns the sections sharing a parent with id, excluding itself.
func (e *Engine) Siblings(id string) []document.Section {
	section, ok := e.byID[id]
	if !ok {
		return nil
	}
	key := ""
	if section.ParentID != nil {
		key = *section.ParentID
	}
	var siblings []document.Section
	for _, candidate := range e.children[key] {
		if candidate.ID != id {
			siblings = append(siblings, candidate)
		}
	}
	return siblings
}

// Descendants returns all transitive children of a section. Traversal is
// iterative and bounded by a visited set, so cyclic parent references cannot
// loop. Order is an implementation detail; callers should compare sets.
func (e *Engine) Descendants(id string) []document.Section {
	var descendants []document.Section
	visited := map[string]struct{}{id: {}}
	stack := append([]document.Section(nil), e.children[id]...)
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current.ID != "" {
			if _, seen := visited[current.ID]; seen {
				continue
			}
			visited[current.ID] = struct{}{}
			stack = append(stack, e.children[current.ID]...)
		}
		descendants = append(descendants, current)
	}
	return descendants
}

// Options controls what a context bundles beyond the match and its parent
// chain.
type Options struct {
	IncludeChildren    bool
	IncludeSiblings    bool
	IncludeDescendants bool
	// MaxChunks caps attached chunks; zero attaches none.
	MaxChunks int
	// MaxDataLines caps the data excerpt; zero attaches none.
	MaxDataLines int
}

// Context bundles a matched section with its structural neighborhood.
type Context struct {
	Match       document.Section   `json:"match"`
	Parents     []document.Section `json:"parents"`
	SectionPath []string           `json:"section_path"`
	Children    []document.Section `json:"children,omitempty"`
	Siblings    []document.Section `json:"siblings,omitempty"`
	Descendants []document.Section `json:"descendants,omitempty"`
	Chunks      []document.Chunk   `json:"chunks,omitempty"`
	DataExcerpt []string           `json:"data_excerpt,omitempty"`
}

// ContextByID returns the context for a section id, or nil when the id is
// unknown. Unknown ids are a soft failure, never an error.
func (e *Engine) ContextByID(id string, opts Options) *Context {
	section, ok := e.byID[id]
	if !ok {
		return nil
	}
	ctx := &Context{
		Match:       section,
		Parents:     e.ParentChain(id),
		SectionPath: chunker.SectionPath(id, e.byID),
	}
	if opts.IncludeChildren {
		ctx.Children = e.Children(id)
	}
	if opts.IncludeSiblings {
		ctx.Siblings = e.Siblings(id)
	}
	if opts.IncludeDescendants {
		ctx.Descendants = e.Descendants(id)
	}
	if opts.MaxChunks > 0 && e.chunks != nil {
		chunks := e.chunks[id]
		if len(chunks) > opts.MaxChunks {
			chunks = chunks[:opts.MaxChunks]
		}
		ctx.Chunks = chunks
	}
	if opts.MaxDataLines > 0 {
		ctx.DataExcerpt = e.dataExcerpt(section, opts.MaxDataLines)
	}
	return ctx
}

// ContextByTitle returns contexts for every title match, empty when nothing
// matches.
func (e *Engine) ContextByTitle(query string, exact bool, opts Options) []Context {
	matches := e.FindByTitle(query, exact)
	contexts := make([]Context, 0, len(matches))
	for _, match := range matches {
		if match.ID == "" {
			continue
		}
		if ctx := e.ContextByID(match.ID, opts); ctx != nil {
			contexts = append(contexts, *ctx)
		}
	}
	return contexts
}

// dataExcerpt returns the first run of up to max consecutive numeric-like
// lines immediately following the section title's occurrence on its page.
func (e *Engine) dataExcerpt(section document.Section, max int) []string {
	if e.pages == nil {
		return nil
	}
	page, ok := e.pages[section.PageNumber]
	if !ok {
		return nil
	}
	foldedTitle := textnorm.Fold(section.Title)
	if foldedTitle == "" {
		return nil
	}

	var excerpt []string
	collecting := false
	for _, raw := range strings.Split(page.Text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !collecting {
			if strings.Contains(textnorm.Fold(line), foldedTitle) {
				collecting = true
			}
			continue
		}
		if !segment.IsExcerptNumeric(line) || len(excerpt) >= max {
			break
		}
		excerpt = append(excerpt, line)
	}
	return excerpt
}
