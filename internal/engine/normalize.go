package engine

import (
	"fmt"
)

// checkTemplate is the data-described normalization rule for one check
// id. Severity is fixed per check; remediation is fixed per category.
type checkTemplate struct {
	Category Category
	Severity Severity
}

// checkTemplates maps every known check id to its normalization
// template. Unknown ids are rejected with ErrUnrecognizedCheck.
var checkTemplates = map[string]checkTemplate{
	// Header checks
	"headers.hsts-missing":                 {CategoryMissingHeader, SeverityHigh},
	"headers.csp-missing":                  {CategoryMissingHeader, SeverityMedium},
	"headers.frame-options-missing":        {CategoryMissingHeader, SeverityLow},
	"headers.content-type-options-missing": {CategoryMissingHeader, SeverityLow},
	"headers.referrer-policy-missing":      {CategoryMissingHeader, SeverityLow},
	"headers.permissions-policy-missing":   {CategoryMissingHeader, SeverityInfo},
	"headers.server-banner":                {CategoryInfoDisclosure, SeverityLow},
	"headers.powered-by":                   {CategoryInfoDisclosure, SeverityLow},
	"headers.cookie-flags":                 {CategoryInsecureCookie, SeverityMedium},
	"headers.cors-wildcard":                {CategoryCORSMisconfig, SeverityMedium},
	"headers.cors-credentials":             {CategoryCORSMisconfig, SeverityHigh},

	// TLS checks
	"tls.legacy-version":    {CategoryWeakTLS, SeverityHigh},
	"tls.weak-cipher":       {CategoryWeakTLS, SeverityHigh},
	"tls.cert-expired":      {CategoryWeakTLS, SeverityCritical},
	"tls.cert-expiring":     {CategoryWeakTLS, SeverityMedium},
	"tls.hostname-mismatch": {CategoryWeakTLS, SeverityCritical},
	"tls.hsts-missing":      {CategoryMissingHeader, SeverityHigh},
}

// categoryRemediations holds the fixed remediation text per category
var categoryRemediations = map[Category]string{
	CategoryMissingHeader:  "Add the missing security header with a strict value appropriate for the application",
	CategoryWeakTLS:        "Reconfigure TLS: require TLS 1.2+, strong cipher suites, and a valid, current certificate",
	CategoryInfoDisclosure: "Disable or obfuscate headers that reveal server software and versions",
	CategoryInsecureCookie: "Set Secure, HttpOnly and an appropriate SameSite attribute on all cookies",
	CategoryCORSMisconfig:  "Restrict Access-Control-Allow-Origin to an explicit allowlist and never combine wildcards with credentials",
}

// ValidateCatalog verifies the normalization templates at startup:
// every template must reference a defined category with a remediation
// and a valid severity. Called from the CLI root before any scan runs.
func ValidateCatalog() error {
	for id, tpl := range checkTemplates {
		if !tpl.Severity.Valid() {
			return fmt.Errorf("check template %q: invalid severity %q", id, tpl.Severity)
		}
		if _, ok := categoryRemediations[tpl.Category]; !ok {
			return fmt.Errorf("check template %q: no remediation for category %q", id, tpl.Category)
		}
	}
	return nil
}

// Normalize maps one raw CheckResult into a canonical Finding.
//
// Results with status ok or error produce no finding (nil, nil); the
// pipeline records error results in coverage notes separately. An
// unknown check id fails with ErrUnrecognizedCheck and is skipped by
// the caller rather than aborting the batch.
func Normalize(res CheckResult) (*Finding, error) {
	if res.Status != StatusFlagged {
		return nil, nil
	}

	tpl, ok := checkTemplates[res.CheckID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedCheck, res.CheckID)
	}

	key := res.RawData[RawKey]
	if key == "" {
		key = res.CheckID
	}

	f := &Finding{
		ID:           FindingID(tpl.Category, res.Target, key),
		Category:     tpl.Category,
		Severity:     tpl.Severity,
		Remediation:  categoryRemediations[tpl.Category],
		SourceChecks: []string{res.CheckID},
	}
	if ev := res.RawData[RawEvidence]; ev != "" {
		f.Evidence = []string{ev}
	}
	return f, nil
}
