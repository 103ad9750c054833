package engine

import (
	"reflect"
	"testing"
)

func rankInput(findings ...*Finding) map[string]*Finding {
	m := make(map[string]*Finding, len(findings))
	for _, f := range findings {
		m[f.ID] = f
	}
	return m
}

func TestRank_SeverityDescending(t *testing.T) {
	low := testFinding(CategoryInfoDisclosure, "https://example.com", "server", SeverityLow,
		"Server header", "headers.server-banner")
	critical := testFinding(CategoryWeakTLS, "https://example.com", "tls:cert-expired", SeverityCritical,
		"cert expired", "tls.cert-expired")
	medium := testFinding(CategoryMissingHeader, "https://example.com", "csp", SeverityMedium,
		"No CSP", "headers.csp-missing")

	ranked := Rank(rankInput(low, critical, medium))

	want := []Severity{SeverityCritical, SeverityMedium, SeverityLow}
	for i, sev := range want {
		if ranked[i].Severity != sev {
			t.Errorf("position %d: expected %s, got %s", i, sev, ranked[i].Severity)
		}
	}
}

func TestRank_TieBreakByCategoryThenID(t *testing.T) {
	// Same severity, different categories: category ascending
	cookie := testFinding(CategoryInsecureCookie, "https://example.com", "cookie:session", SeverityMedium,
		"cookie flags", "headers.cookie-flags")
	cors := testFinding(CategoryCORSMisconfig, "https://example.com", "cors:wildcard-origin", SeverityMedium,
		"wildcard origin", "headers.cors-wildcard")

	ranked := Rank(rankInput(cookie, cors))
	if ranked[0].Category != CategoryCORSMisconfig {
		t.Errorf("Expected cors-misconfig before insecure-cookie, got %s first", ranked[0].Category)
	}

	// Same severity and category: finding ID ascending
	a := testFinding(CategoryMissingHeader, "https://example.com", "csp", SeverityLow,
		"No CSP", "headers.csp-missing")
	b := testFinding(CategoryMissingHeader, "https://example.com", "referrer-policy", SeverityLow,
		"No Referrer-Policy", "headers.referrer-policy-missing")

	ranked = Rank(rankInput(a, b))
	if !(ranked[0].ID < ranked[1].ID) {
		t.Errorf("Expected IDs in ascending order, got %s then %s", ranked[0].ID, ranked[1].ID)
	}
}

func TestRank_StableUnderResort(t *testing.T) {
	findings := rankInput(
		testFinding(CategoryMissingHeader, "https://example.com", "hsts", SeverityHigh, "a", "headers.hsts-missing"),
		testFinding(CategoryMissingHeader, "https://example.com", "csp", SeverityMedium, "b", "headers.csp-missing"),
		testFinding(CategoryWeakTLS, "https://example.com", "tls:legacy-version", SeverityHigh, "c", "tls.legacy-version"),
		testFinding(CategoryInfoDisclosure, "https://example.com", "server", SeverityLow, "d", "headers.server-banner"),
	)

	first := Rank(findings)

	again := make(map[string]*Finding, len(first))
	for i := range first {
		f := first[i]
		again[f.ID] = &f
	}
	second := Rank(again)

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected ranking to be stable when re-sorted")
	}
}

func TestRank_Empty(t *testing.T) {
	ranked := Rank(map[string]*Finding{})
	if len(ranked) != 0 {
		t.Errorf("Expected empty ranking, got %d entries", len(ranked))
	}
}
