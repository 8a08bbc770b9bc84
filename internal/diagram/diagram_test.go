package diagram

import (
	"strings"
	"testing"

	"github.com/deduar/document-analizer/internal/document"
)

func strptr(s string) *string { return &s }

func TestSectionsTree_ParentEdgeWhenResolvable(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "ROOT", PageNumber: 1, Level: 1},
		{ID: "sec_002", Title: "CHILD", PageNumber: 1, Level: 2, ParentID: strptr("sec_001")},
		{ID: "sec_003", Title: "ORPHAN", PageNumber: 2, Level: 2, ParentID: strptr("sec_404")},
	}
	out := SectionsTree("report.pdf", sections)

	for _, want := range []string{
		"```mermaid\nflowchart TD",
		`doc["report.pdf"]`,
		`page_1["Page 1"]`,
		"doc --> page_1",
		"page_1 --> sec_001",
		"sec_001 --> sec_002",
		// Unresolvable parent falls back to the page edge.
		"page_2 --> sec_003",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("tree diagram missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n```\n") {
		t.Errorf("expected fenced output, got %q", out)
	}
}

func TestSectionsTree_PagesAscending(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "LATE", PageNumber: 3, Level: 1},
		{ID: "sec_002", Title: "EARLY", PageNumber: 1, Level: 1},
	}
	out := SectionsTree("doc", sections)
	if strings.Index(out, `page_1["Page 1"]`) > strings.Index(out, `page_3["Page 3"]`) {
		t.Errorf("expected page 1 emitted before page 3:\n%s", out)
	}
}

func TestSectionsTree_QuotesReplacedInLabels(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: `The "Big" Picture`, PageNumber: 1, Level: 1},
	}
	out := SectionsTree(`source "v2".pdf`, sections)
	if strings.Contains(out, `\"`) || strings.Contains(out, `"Big"`) {
		t.Errorf("expected double quotes replaced by single quotes:\n%s", out)
	}
	if !strings.Contains(out, "The 'Big' Picture") {
		t.Errorf("expected escaped title label:\n%s", out)
	}
}

func TestSectionsRelated_GroupsByTitle(t *testing.T) {
	sections := []document.Section{
		{ID: "sec_001", Title: "Newsletter", PageNumber: 2, Level: 1},
		{ID: "sec_002", Title: "Newsletter", PageNumber: 1, Level: 1},
		{ID: "sec_003", Title: "Newsletter", PageNumber: 1, Level: 1}, // duplicate pair
		{ID: "sec_004", Title: "Campañas", PageNumber: 1, Level: 1},
	}
	out := SectionsRelated(sections)

	if !strings.HasPrefix(out, "```mermaid\nflowchart LR\n") {
		t.Errorf("expected LR flowchart fence, got %q", out)
	}
	if strings.Count(out, "title_NEWSLETTER --> page_1") != 1 {
		t.Errorf("expected deduplicated title/page edge:\n%s", out)
	}
	if !strings.Contains(out, "title_NEWSLETTER --> page_2") {
		t.Errorf("expected edge to page 2:\n%s", out)
	}
	if !strings.Contains(out, `title_CAMPANAS["Campañas"]`) {
		t.Errorf("expected slugified accent-free node id with raw label:\n%s", out)
	}
	// Titles sort lexicographically: Campañas before Newsletter.
	if strings.Index(out, "title_CAMPANAS") > strings.Index(out, "title_NEWSLETTER") {
		t.Errorf("expected titles in sorted order:\n%s", out)
	}
}

func TestSectionsRelated_EmptyInput(t *testing.T) {
	out := SectionsRelated(nil)
	if out != "```mermaid\nflowchart LR\n```\n" {
		t.Errorf("unexpected empty diagram %q", out)
	}
}
