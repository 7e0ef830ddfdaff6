package wordpress

import (
	"strings"
	"testing"
)

func TestNormalizeTablesSplitsHeaderAndBody(t *testing.T) {
	in := `<table><tr><th>Machine</th><th>Price</th></tr><tr><td>Bambino</td><td>$299</td></tr></table>`

	out, err := NormalizeTables(in)
	if err != nil {
		t.Fatalf("NormalizeTables returned error: %v", err)
	}

	if !strings.Contains(out, "<thead>") || !strings.Contains(out, "<tbody>") {
		t.Fatalf("expected thead and tbody, got: %s", out)
	}
	if !strings.Contains(out, `<figure class="wp-block-table">`) {
		t.Errorf("expected figure wrapper, got: %s", out)
	}

	theadIdx := strings.Index(out, "<thead>")
	tbodyIdx := strings.Index(out, "<tbody>")
	if machineIdx := strings.Index(out, "Machine"); machineIdx < theadIdx || machineIdx > tbodyIdx {
		t.Errorf("header cell not inside thead: %s", out)
	}
	if bambinoIdx := strings.Index(out, "Bambino"); bambinoIdx < tbodyIdx {
		t.Errorf("body cell not inside tbody: %s", out)
	}
}

func TestNormalizeTablesIsIdempotent(t *testing.T) {
	inputs := []string{
		`<table><tr><th>A</th></tr><tr><td>1</td></tr></table>`,
		`<p>before</p><table><tr><td>only body</td></tr></table><p>after</p>`,
		`<table><tr><th>x</th><td>mixed</td></tr></table>`,
	}

	for _, in := range inputs {
		once, err := NormalizeTables(in)
		if err != nil {
			t.Fatalf("first pass returned error: %v", err)
		}
		twice, err := NormalizeTables(once)
		if err != nil {
			t.Fatalf("second pass returned error: %v", err)
		}
		if once != twice {
			t.Errorf("not idempotent for %q:\nfirst:  %s\nsecond: %s", in, once, twice)
		}
	}
}

func TestNormalizeTablesDoesNotRewrapHeaderlessTables(t *testing.T) {
	// A table with no th cells is normalized without a thead, so the
	// second pass has to recognize the figure wrapper instead.
	in := `<table><tr><td>only body</td></tr></table>`

	once, err := NormalizeTables(in)
	if err != nil {
		t.Fatalf("first pass returned error: %v", err)
	}
	if strings.Contains(once, "<thead>") {
		t.Fatalf("header-less table should not grow a thead: %s", once)
	}

	twice, err := NormalizeTables(once)
	if err != nil {
		t.Fatalf("second pass returned error: %v", err)
	}
	if got := strings.Count(twice, `<figure class="wp-block-table">`); got != 1 {
		t.Errorf("expected exactly one figure wrapper after second pass, got %d: %s", got, twice)
	}
}

func TestNormalizeTablesLeavesExistingTheadAlone(t *testing.T) {
	in := `<table><thead><tr><th>A</th></tr></thead><tbody><tr><td>1</td></tr></tbody></table>`

	out, err := NormalizeTables(in)
	if err != nil {
		t.Fatalf("NormalizeTables returned error: %v", err)
	}

	if strings.Contains(out, "wp-block-table") {
		t.Errorf("table with existing thead should not be rewrapped: %s", out)
	}
	if strings.Contains(out, thStyle) {
		t.Errorf("table with existing thead should not be restyled: %s", out)
	}
}

func TestNormalizeTablesPassesThroughTablelessContent(t *testing.T) {
	in := `<p>no tables here</p>`

	out, err := NormalizeTables(in)
	if err != nil {
		t.Fatalf("NormalizeTables returned error: %v", err)
	}
	if !strings.Contains(out, "no tables here") {
		t.Errorf("content lost: %s", out)
	}
}
