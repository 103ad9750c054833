package engine

import (
	"errors"
	"reflect"
	"testing"
)

func testFinding(category Category, target, key string, severity Severity, evidence, check string) *Finding {
	return &Finding{
		ID:           FindingID(category, target, key),
		Category:     category,
		Severity:     severity,
		Evidence:     []string{evidence},
		Remediation:  "fix it",
		SourceChecks: []string{check},
	}
}

func TestMerge_GroupsByID(t *testing.T) {
	a := testFinding(CategoryMissingHeader, "https://example.com", "hsts", SeverityHigh,
		"No HSTS header", "headers.hsts-missing")
	b := testFinding(CategoryMissingHeader, "https://example.com", "hsts", SeverityHigh,
		"HTTPS endpoint without HSTS", "tls.hsts-missing")
	c := testFinding(CategoryInfoDisclosure, "https://example.com", "server", SeverityLow,
		"Server: nginx/1.18", "headers.server-banner")

	merged, notes, err := Merge([]*Finding{a, b, c})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("Expected no notes, got %v", notes)
	}
	if len(merged) != 2 {
		t.Fatalf("Expected 2 merged findings, got %d", len(merged))
	}

	f := merged[a.ID]
	if f == nil {
		t.Fatal("Expected merged finding for HSTS group")
	}
	if len(f.Evidence) != 2 {
		t.Errorf("Expected merged evidence from both checks, got %v", f.Evidence)
	}
	if len(f.SourceChecks) != 2 {
		t.Errorf("Expected two source checks, got %v", f.SourceChecks)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	f := testFinding(CategoryMissingHeader, "https://example.com", "csp", SeverityMedium,
		"No CSP header", "headers.csp-missing")

	once, _, err := Merge([]*Finding{f})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	twice, _, err := Merge([]*Finding{f, f})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Expected merge([f, f]) == merge([f]), got %+v vs %+v", once[f.ID], twice[f.ID])
	}
	if len(twice[f.ID].Evidence) != 1 {
		t.Errorf("Expected identical evidence to not duplicate, got %v", twice[f.ID].Evidence)
	}
}

func TestMerge_Commutative(t *testing.T) {
	a := testFinding(CategoryMissingHeader, "https://example.com", "hsts", SeverityHigh,
		"evidence A", "headers.hsts-missing")
	b := testFinding(CategoryMissingHeader, "https://example.com", "hsts", SeverityMedium,
		"evidence B", "tls.hsts-missing")
	c := testFinding(CategoryWeakTLS, "https://example.com", "tls:legacy-version", SeverityHigh,
		"TLS 1.0 negotiated", "tls.legacy-version")

	orderings := [][]*Finding{
		{a, b, c},
		{c, b, a},
		{b, c, a},
		{b, a, c},
	}

	first, _, err := Merge(orderings[0])
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, ordering := range orderings[1:] {
		got, _, err := Merge(ordering)
		if err != nil {
			t.Fatalf("ordering %d: unexpected error: %v", i+1, err)
		}
		if !reflect.DeepEqual(first, got) {
			t.Errorf("ordering %d: merge result differs from first ordering", i+1)
		}
	}
}

func TestMerge_SeverityEscalationOnly(t *testing.T) {
	lo := testFinding(CategoryWeakTLS, "https://example.com", "tls:cert", SeverityMedium,
		"cert expiring", "tls.cert-expiring")
	hi := testFinding(CategoryWeakTLS, "https://example.com", "tls:cert", SeverityCritical,
		"cert expired", "tls.cert-expired")

	merged, _, err := Merge([]*Finding{lo, hi})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := merged[lo.ID].Severity; got != SeverityCritical {
		t.Errorf("Expected escalation to critical, got %s", got)
	}

	// Reverse order must not lower the severity
	merged, _, err = Merge([]*Finding{hi, lo})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := merged[lo.ID].Severity; got != SeverityCritical {
		t.Errorf("Expected critical regardless of order, got %s", got)
	}
}

func TestMerge_ExcludesMalformedFinding(t *testing.T) {
	ok := testFinding(CategoryMissingHeader, "https://example.com", "csp", SeverityMedium,
		"No CSP header", "headers.csp-missing")
	malformed := &Finding{Category: CategoryMissingHeader, Severity: SeverityMedium} // no ID

	merged, notes, err := Merge([]*Finding{ok, malformed})
	if err != nil {
		t.Fatalf("Expected malformed finding to be non-fatal, got %v", err)
	}
	if len(merged) != 1 {
		t.Errorf("Expected 1 merged finding, got %d", len(merged))
	}
	if len(notes) != 1 {
		t.Errorf("Expected a coverage note for the excluded finding, got %v", notes)
	}
}

func TestMerge_DivergentCategoryIsFatal(t *testing.T) {
	a := testFinding(CategoryMissingHeader, "https://example.com", "csp", SeverityMedium,
		"No CSP header", "headers.csp-missing")
	b := &Finding{
		ID:       a.ID, // same ID, different category: normalization bug
		Category: CategoryWeakTLS,
		Severity: SeverityHigh,
	}

	_, _, err := Merge([]*Finding{a, b})
	var fatal *FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("Expected *FatalError, got %v", err)
	}
	if fatal.FindingID != a.ID {
		t.Errorf("Expected fatal error to carry the finding ID")
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	a := testFinding(CategoryMissingHeader, "https://example.com", "hsts", SeverityHigh,
		"evidence A", "headers.hsts-missing")
	evidenceBefore := append([]string(nil), a.Evidence...)

	b := testFinding(CategoryMissingHeader, "https://example.com", "hsts", SeverityHigh,
		"evidence B", "tls.hsts-missing")

	if _, _, err := Merge([]*Finding{a, b}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(a.Evidence, evidenceBefore) {
		t.Errorf("Expected input finding to be unmodified, got %v", a.Evidence)
	}
}
