package query

import (
	"testing"

	"github.com/deduar/document-analizer/internal/document"
)

func strptr(s string) *string { return &s }

// outline:
//
//	sec_001 ROOT A
//	  sec_002 CHILD A1
//	    sec_004 GRANDCHILD A1a
//	  sec_003 CHILD A2
//	sec_005 ROOT B
func testSections() []document.Section {
	return []document.Section{
		{ID: "sec_001", Title: "ROOT A", PageNumber: 1, Level: 1},
		{ID: "sec_002", Title: "CHILD A1", PageNumber: 1, Level: 2, ParentID: strptr("sec_001")},
		{ID: "sec_003", Title: "CHILD A2", PageNumber: 1, Level: 2, ParentID: strptr("sec_001")},
		{ID: "sec_004", Title: "GRANDCHILD A1a", PageNumber: 2, Level: 3, ParentID: strptr("sec_002")},
		{ID: "sec_005", Title: "ROOT B", PageNumber: 2, Level: 1},
	}
}

func idSet(sections []document.Section) map[string]bool {
	set := make(map[string]bool, len(sections))
	for _, s := range sections {
		set[s.ID] = true
	}
	return set
}

func TestFindByTitle_SubstringAndExact(t *testing.T) {
	e := New(testSections())

	got := e.FindByTitle("child", false)
	if len(got) != 3 {
		t.Fatalf("expected 3 substring matches, got %d", len(got))
	}
	if got[0].ID != "sec_002" || got[1].ID != "sec_003" || got[2].ID != "sec_004" {
		t.Errorf("expected matches in list order, got %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}

	exact := e.FindByTitle("child a1", true)
	if len(exact) != 1 || exact[0].ID != "sec_002" {
		t.Errorf("expected one exact match sec_002, got %+v", exact)
	}
}

func TestParentChain_RootFirst(t *testing.T) {
	e := New(testSections())
	chain := e.ParentChain("sec_004")
	if len(chain) != 2 {
		t.Fatalf("expected 2 ancestors, got %d", len(chain))
	}
	if chain[0].ID != "sec_001" || chain[1].ID != "sec_002" {
		t.Errorf("expected chain [sec_001 sec_002], got [%s %s]", chain[0].ID, chain[1].ID)
	}
}

func TestParentChain_DanglingTruncates(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "A", ParentID: strptr("sec_404")},
	}
	e := New(sections)
	if chain := e.ParentChain("sec_001"); len(chain) != 0 {
		t.Errorf("expected empty chain on dangling parent, got %+v", chain)
	}
}

func TestParentChain_CycleNeverIncludesSelf(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "A", ParentID: strptr("sec_002")},
		{ID: "sec_002", Title: "B", ParentID: strptr("sec_003")},
		{ID: "sec_003", Title: "C", ParentID: strptr("sec_001")},
	}
	e := New(sections)
	chain := e.ParentChain("sec_001")
	for _, section := range chain {
		if section.ID == "sec_001" {
			t.Fatalf("parent chain contains the section itself: %+v", chain)
		}
	}
	if len(chain) != 2 {
		t.Errorf("expected 2 ancestors before the cycle closes, got %d", len(chain))
	}
}

func TestDescendants_LeafIsEmpty(t *testing.T) {
	e := New(testSections())
	if got := e.Descendants("sec_004"); len(got) != 0 {
		t.Errorf("expected no descendants for a leaf, got %+v", got)
	}
}

func TestDescendants_TransitiveSetEquality(t *testing.T) {
	e := New(testSections())
	got := idSet(e.Descendants("sec_001"))
	want := map[string]bool{"sec_002": true, "sec_003": true, "sec_004": true}
	if len(got) != len(want) {
		t.Fatalf("expected descendants %v, got %v", want, got)
	}
	for id := range want {
		if !got[id] {
			t.Errorf("missing descendant %s", id)
		}
	}
}

func TestDescendants_CycleTerminates(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "A", ParentID: strptr("sec_002")},
		{ID: "sec_002", Title: "B", ParentID: strptr("sec_001")},
	}
	e := New(sections)
	if got := e.Descendants("sec_001"); len(got) > 2 {
		t.Errorf("cycle traversal did not terminate cleanly: %+v", got)
	}
}

func TestSiblings_ExcludesSelf(t *testing.T) {
	e := New(testSections())
	got := e.Siblings("sec_002")
	if len(got) != 1 || got[0].ID != "sec_003" {
		t.Errorf("expected [sec_003], got %+v", got)
	}
	roots := e.Siblings("sec_001")
	if len(roots) != 1 || roots[0].ID != "sec_005" {
		t.Errorf("expected root sibling sec_005, got %+v", roots)
	}
}

func TestContextByID_UnknownIsNil(t *testing.T) {
	e := New(testSections())
	if ctx := e.ContextByID("sec_404", Options{}); ctx != nil {
		t.Errorf("expected nil context for unknown id, got %+v", ctx)
	}
}

func TestContextByTitle_NoMatchesIsEmpty(t *testing.T) {
	e := New(testSections())
	if got := e.ContextByTitle("nonexistent", false, Options{}); len(got) != 0 {
		t.Errorf("expected empty contexts, got %+v", got)
	}
}

func TestContextByID_Bundle(t *testing.T) {
	e := New(testSections()).WithChunks([]document.Chunk{
		{ID: "chunk_001", SectionID: "sec_002", Kind: document.KindParagraph, Text: "one"},
		{ID: "chunk_002", SectionID: "sec_002", Kind: document.KindTable, Text: "1 2 3"},
		{ID: "chunk_003", SectionID: "sec_002", Kind: document.KindParagraph, Text: "three"},
	})

	ctx := e.ContextByID("sec_002", Options{
		IncludeChildren:    true,
		IncludeSiblings:    true,
		IncludeDescendants: true,
		MaxChunks:          2,
	})
	if ctx == nil {
		t.Fatal("expected context, got nil")
	}
	if len(ctx.Parents) != 1 || ctx.Parents[0].ID != "sec_001" {
		t.Errorf("unexpected parents %+v", ctx.Parents)
	}
	if len(ctx.Children) != 1 || ctx.Children[0].ID != "sec_004" {
		t.Errorf("unexpected children %+v", ctx.Children)
	}
	if len(ctx.Siblings) != 1 || ctx.Siblings[0].ID != "sec_003" {
		t.Errorf("unexpected siblings %+v", ctx.Siblings)
	}
	if len(ctx.Descendants) != 1 || ctx.Descendants[0].ID != "sec_004" {
		t.Errorf("unexpected descendants %+v", ctx.Descendants)
	}
	if len(ctx.Chunks) != 2 || ctx.Chunks[0].ID != "chunk_001" || ctx.Chunks[1].ID != "chunk_002" {
		t.Errorf("expected first two chunks in order, got %+v", ctx.Chunks)
	}
	wantPath := []string{"ROOT A", "CHILD A1"}
	if len(ctx.SectionPath) != 2 || ctx.SectionPath[0] != wantPath[0] || ctx.SectionPath[1] != wantPath[1] {
		t.Errorf("expected section path %v, got %v", wantPath, ctx.SectionPath)
	}
}

func TestContextByID_DataExcerpt(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "REVENUE", PageNumber: 1, Level: 1},
	}
	pages := []document.Page{{
		PageNumber: 1,
		Text:       "REVENUE\n100 200 300\n45% vs plan\nprose resumes here\n99 98 97",
	}}
	e := New(sections).WithPages(pages)

	ctx := e.ContextByID("sec_001", Options{MaxDataLines: 5})
	if ctx == nil {
		t.Fatal("expected context")
	}
	// Only the first consecutive numeric run qualifies.
	if len(ctx.DataExcerpt) != 2 {
		t.Fatalf("expected 2 excerpt lines, got %v", ctx.DataExcerpt)
	}
	if ctx.DataExcerpt[0] != "100 200 300" || ctx.DataExcerpt[1] != "45% vs plan" {
		t.Errorf("unexpected excerpt %v", ctx.DataExcerpt)
	}
}

func TestContextByID_DataExcerptRespectsCap(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "DATA", PageNumber: 1, Level: 1},
	}
	pages := []document.Page{{
		PageNumber: 1,
		Text:       "DATA\n1 2\n3 4\n5 6",
	}}
	e := New(sections).WithPages(pages)
	ctx := e.ContextByID("sec_001", Options{MaxDataLines: 2})
	if len(ctx.DataExcerpt) != 2 {
		t.Errorf("expected excerpt capped at 2 lines, got %v", ctx.DataExcerpt)
	}
}
