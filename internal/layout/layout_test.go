package layout

import (
	"testing"

	"github.com/deduar/document-analizer/internal/document"
)

func fsize(v float64) *float64 { return &v }

func TestAssembleLines_GroupsByRoundedTop(t *testing.T) {
	page := document.Page{
		PageNumber: 1,
		Words: []document.Word{
			{Text: "world", X0: 50, Top: 10.2, Size: fsize(12)},
			{Text: "hello", X0: 10, Top: 9.8, Size: fsize(10)},
			{Text: "below", X0: 10, Top: 30, Size: fsize(8)},
		},
	}
	lines := AssembleLines(page)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text != "hello world" {
		t.Errorf("expected first line %q, got %q", "hello world", lines[0].Text)
	}
	if lines[0].AvgSize == nil || *lines[0].AvgSize != 11 {
		t.Errorf("expected avg size 11, got %v", lines[0].AvgSize)
	}
	if lines[1].Text != "below" {
		t.Errorf("expected second line %q, got %q", "below", lines[1].Text)
	}
}

func TestAssembleLines_NoSizesMeansNilAverage(t *testing.T) {
	page := document.Page{
		Words: []document.Word{
			{Text: "a", X0: 0, Top: 1},
			{Text: "b", X0: 5, Top: 1},
		},
	}
	lines := AssembleLines(page)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].AvgSize != nil {
		t.Errorf("expected nil avg size, got %v", *lines[0].AvgSize)
	}
}

func TestAssembleLines_FallsBackToRawText(t *testing.T) {
	page := document.Page{Text: "first line\n second line "}
	lines := AssembleLines(page)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1].Text != "second line" {
		t.Errorf("expected trimmed fallback line, got %q", lines[1].Text)
	}
	if lines[0].AvgSize != nil {
		t.Error("fallback lines must not carry a font size")
	}
}

func TestMedianFontSize_OddAndEvenCounts(t *testing.T) {
	words := []document.Word{
		{Size: fsize(10)}, {Size: fsize(14)}, {Size: fsize(12)},
	}
	if got := MedianFontSize(words); got != 12 {
		t.Errorf("odd count: expected 12, got %v", got)
	}
	words = append(words, document.Word{Size: fsize(16)})
	if got := MedianFontSize(words); got != 13 {
		t.Errorf("even count: expected 13, got %v", got)
	}
}

func TestMedianFontSize_NoSizedWords(t *testing.T) {
	words := []document.Word{{Text: "x"}, {Text: "y"}}
	if got := MedianFontSize(words); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}
