package chunker

import (
	"strings"
	"testing"

	"github.com/deduar/document-analizer/internal/document"
)

func strptr(s string) *string { return &s }

func TestChunk_TableParagraphSplit(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "REVENUE", PageNumber: 1, Level: 1},
	}
	pages := []document.Page{
		{PageNumber: 1, Text: "REVENUE\n100 200 300\nSome paragraph text.\n50%"},
	}

	chunks := Chunk(pages, sections)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %+v", len(chunks), chunks)
	}

	want := []struct {
		kind string
		text string
	}{
		{document.KindTable, "100 200 300"},
		{document.KindParagraph, "Some paragraph text."},
		{document.KindTable, "50%"},
	}
	for i, w := range want {
		if chunks[i].Kind != w.kind {
			t.Errorf("chunk %d: expected kind %q, got %q", i, w.kind, chunks[i].Kind)
		}
		if chunks[i].Text != w.text {
			t.Errorf("chunk %d: expected text %q, got %q", i, w.text, chunks[i].Text)
		}
		if chunks[i].SectionID != "sec_001" {
			t.Errorf("chunk %d: expected section sec_001, got %q", i, chunks[i].SectionID)
		}
	}
	if chunks[0].ID != "chunk_001" || chunks[2].ID != "chunk_003" {
		t.Errorf("expected sequential chunk ids, got %s..%s", chunks[0].ID, chunks[2].ID)
	}
}

func TestChunk_LinesBeforeFirstSectionDiscarded(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "INTRO", PageNumber: 1, Level: 1},
	}
	pages := []document.Page{
		{PageNumber: 1, Text: "cover page noise\nINTRO\nwelcome text"},
	}
	chunks := Chunk(pages, sections)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "welcome text" {
		t.Errorf("expected pre-section lines discarded, got %q", chunks[0].Text)
	}
}

func TestChunk_SectionSpansPages(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "OVERVIEW", PageNumber: 1, Level: 1},
	}
	pages := []document.Page{
		{PageNumber: 1, Text: "OVERVIEW\nfirst page text"},
		{PageNumber: 2, Text: "second page text"},
	}
	chunks := Chunk(pages, sections)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1].SectionID != "sec_001" {
		t.Errorf("expected the open section to persist across pages, got %q", chunks[1].SectionID)
	}
	if chunks[1].PageNumber != 2 {
		t.Errorf("expected page 2, got %d", chunks[1].PageNumber)
	}
}

func TestChunk_TitleTokenMatch(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "Métricas Generales", PageNumber: 1, Level: 1},
	}
	// The page line interleaves the title tokens with extra text.
	pages := []document.Page{
		{PageNumber: 1, Text: "2. METRICAS DEL MES GENERALES\nbody line"},
	}
	chunks := Chunk(pages, sections)
	if len(chunks) != 1 || chunks[0].Text != "body line" {
		t.Fatalf("expected token-based title match to open the section, got %+v", chunks)
	}
}

func TestChunk_HeadingLineExcludedFromText(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "SUMMARY", PageNumber: 1, Level: 1},
	}
	pages := []document.Page{{PageNumber: 1, Text: "SUMMARY\nbody"}}
	chunks := Chunk(pages, sections)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if strings.Contains(chunks[0].Text, "SUMMARY") {
		t.Errorf("heading line leaked into chunk text: %q", chunks[0].Text)
	}
}

func TestChunk_NoEmptyChunks(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "A", PageNumber: 1, Level: 1},
		{ID: "sec_002", Title: "B TITLE", PageNumber: 1, Level: 1},
	}
	// Two consecutive headings with nothing between them.
	pages := []document.Page{{PageNumber: 1, Text: "A TITLE HERE\nB TITLE\ncontent"}}
	chunks := Chunk(pages, sections)
	for _, chunk := range chunks {
		if chunk.Text == "" {
			t.Errorf("emitted chunk with empty text: %+v", chunk)
		}
	}
}

func TestChunk_SectionPathRootFirst(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "ROOT", PageNumber: 1, Level: 1},
		{ID: "sec_002", Title: "CHILD SECTION", PageNumber: 1, Level: 2, ParentID: strptr("sec_001")},
	}
	pages := []document.Page{
		{PageNumber: 1, Text: "ROOT\nintro\nCHILD SECTION\nnested body"},
	}
	chunks := Chunk(pages, sections)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	got := chunks[1].SectionPath
	want := []string{"ROOT", "CHILD SECTION"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected section path %v, got %v", want, got)
	}
}

func TestSectionPath_DanglingParentTruncates(t *testing.T) {
	index := map[string]document.Section{
		"sec_002": {ID: "sec_002", Title: "CHILD", ParentID: strptr("sec_999")},
	}
	got := SectionPath("sec_002", index)
	if len(got) != 1 || got[0] != "CHILD" {
		t.Errorf("expected truncated path [CHILD], got %v", got)
	}
}

func TestSectionPath_CycleTerminates(t *testing.T) {
	index := map[string]document.Section{
		"sec_001": {ID: "sec_001", Title: "A", ParentID: strptr("sec_002")},
		"sec_002": {ID: "sec_002", Title: "B", ParentID: strptr("sec_001")},
	}
	got := SectionPath("sec_001", index)
	if len(got) != 2 {
		t.Errorf("expected cycle-bounded path of 2 titles, got %v", got)
	}
}
