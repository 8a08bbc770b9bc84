package textnorm

import "testing"

func TestFold_StripsAccentsAndCase(t *testing.T) {
	got := Fold("Métricas  Generales")
	if got != "METRICAS GENERALES" {
		t.Errorf("expected %q, got %q", "METRICAS GENERALES", got)
	}
}

func TestFold_CollapsesWhitespace(t *testing.T) {
	got := Fold("  caMPañas \t de  q1 ")
	if got != "CAMPANAS DE Q1" {
		t.Errorf("expected %q, got %q", "CAMPANAS DE Q1", got)
	}
}

func TestFold_EmptyInput(t *testing.T) {
	if got := Fold("   "); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSlugify_ReplacesNonAlnumRuns(t *testing.T) {
	got := Slugify("Métricas / Generales (2024)")
	if got != "METRICAS_GENERALES_2024" {
		t.Errorf("expected %q, got %q", "METRICAS_GENERALES_2024", got)
	}
}

func TestSlugify_EmptyFallsBackToNode(t *testing.T) {
	if got := Slugify("¡¡¡"); got != "NODE" {
		t.Errorf("expected NODE, got %q", got)
	}
}

func TestSlugify_TrimsUnderscores(t *testing.T) {
	if got := Slugify("--hello world--"); got != "HELLO_WORLD" {
		t.Errorf("expected HELLO_WORLD, got %q", got)
	}
}

func TestCollapseSpace_KeepsCase(t *testing.T) {
	if got := CollapseSpace("  Some   text\n here "); got != "Some text here" {
		t.Errorf("unexpected result %q", got)
	}
}
