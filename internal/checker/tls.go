package checker

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/khanhnv2901/websentry/internal/engine"
)

// certExpiryWindow is how close to expiry a certificate may be before
// the reviewer flags it.
const certExpiryWindow = 30 * 24 * time.Hour

// weakCipherSuites lists negotiated suites that should not be used
var weakCipherSuites = map[uint16]string{
	tls.TLS_RSA_WITH_RC4_128_SHA:                "TLS_RSA_WITH_RC4_128_SHA",
	tls.TLS_RSA_WITH_3DES_EDE_CBC_SHA:           "TLS_RSA_WITH_3DES_EDE_CBC_SHA",
	tls.TLS_RSA_WITH_AES_128_CBC_SHA:            "TLS_RSA_WITH_AES_128_CBC_SHA",
	tls.TLS_RSA_WITH_AES_256_CBC_SHA:            "TLS_RSA_WITH_AES_256_CBC_SHA",
	tls.TLS_ECDHE_ECDSA_WITH_RC4_128_SHA:        "TLS_ECDHE_ECDSA_WITH_RC4_128_SHA",
	tls.TLS_ECDHE_RSA_WITH_RC4_128_SHA:          "TLS_ECDHE_RSA_WITH_RC4_128_SHA",
	tls.TLS_ECDHE_RSA_WITH_3DES_EDE_CBC_SHA:     "TLS_ECDHE_RSA_WITH_3DES_EDE_CBC_SHA",
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA256: "TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA256",
}

// TLSChecker inspects the TLS posture of an HTTPS target: protocol
// version, negotiated cipher suite, and certificate validity. It also
// verifies that the TLS endpoint serves Strict-Transport-Security,
// which gives HSTS a second, independent detection path.
type TLSChecker struct {
	Timeout   time.Duration
	UserAgent string
}

func (t *TLSChecker) Name() string { return "tls" }

// Check performs a TLS handshake against the target. Verification is
// disabled on the handshake itself so expired or mismatched
// certificates can be reported as findings instead of dial errors.
func (t *TLSChecker) Check(ctx context.Context, target string) []engine.CheckResult {
	info := ParseTarget(target)
	if info.Scheme != "https" {
		return []engine.CheckResult{errorResult("tls.handshake", target,
			errors.New("target is not HTTPS, TLS posture not assessed"))}
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: t.Timeout},
		Config: &tls.Config{
			ServerName:         info.Host,
			InsecureSkipVerify: true, // posture review: report, don't refuse
			MinVersion:         tls.VersionTLS10,
		},
	}

	conn, err := dialer.DialContext(ctx, "tcp", info.HandshakeAddr())
	if err != nil {
		return []engine.CheckResult{errorResult("tls.handshake", target, err)}
	}
	state := conn.(*tls.Conn).ConnectionState()
	_ = conn.Close()

	results := AnalyzeTLSState(target, info.Host, &state, time.Now().UTC())
	results = append(results, t.checkHSTS(ctx, target, info.FullURL)...)
	return results
}

// AnalyzeTLSState evaluates a completed handshake. Split from Check so
// tests can construct connection states directly.
func AnalyzeTLSState(target, host string, state *tls.ConnectionState, now time.Time) []engine.CheckResult {
	results := make([]engine.CheckResult, 0)

	if state.Version < tls.VersionTLS12 {
		results = append(results, flaggedResult("tls.legacy-version", target,
			"tls:legacy-version",
			fmt.Sprintf("Server negotiated %s; TLS 1.2 or newer is required", tlsVersionString(state.Version))))
	}

	if name, weak := weakCipherSuites[state.CipherSuite]; weak {
		results = append(results, flaggedResult("tls.weak-cipher", target,
			"tls:weak-cipher",
			fmt.Sprintf("Server negotiated weak cipher suite %s", name)))
	}

	if len(state.PeerCertificates) > 0 {
		results = append(results, analyzeCertificate(target, host, state.PeerCertificates[0], now)...)
	}

	return results
}

func analyzeCertificate(target, host string, cert *x509.Certificate, now time.Time) []engine.CheckResult {
	results := make([]engine.CheckResult, 0)

	switch {
	case now.After(cert.NotAfter):
		results = append(results, flaggedResult("tls.cert-expired", target,
			"tls:cert-expired",
			fmt.Sprintf("Certificate expired on %s", cert.NotAfter.Format(time.RFC3339))))
	case now.Add(certExpiryWindow).After(cert.NotAfter):
		results = append(results, flaggedResult("tls.cert-expiring", target,
			"tls:cert-expiring",
			fmt.Sprintf("Certificate expires on %s (within %d days)",
				cert.NotAfter.Format(time.RFC3339), int(certExpiryWindow.Hours()/24))))
	}

	if err := cert.VerifyHostname(host); err != nil {
		results = append(results, flaggedResult("tls.hostname-mismatch", target,
			"tls:hostname-mismatch",
			fmt.Sprintf("Certificate is not valid for %s: %v", host, err)))
	}

	return results
}

// checkHSTS probes the HTTPS endpoint for Strict-Transport-Security.
// The dedup key matches the headers checker's HSTS probe, so both
// observations merge into a single finding.
func (t *TLSChecker) checkHSTS(ctx context.Context, target, fullURL string) []engine.CheckResult {
	client := &http.Client{Timeout: t.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, fullURL, nil)
	if err != nil {
		return nil
	}
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		// The handshake result already covers connectivity problems
		return nil
	}
	defer resp.Body.Close()

	if resp.Header.Get("Strict-Transport-Security") == "" {
		return []engine.CheckResult{flaggedResult("tls.hsts-missing", target,
			"strict-transport-security",
			"HTTPS endpoint responds without Strict-Transport-Security")}
	}
	return nil
}

func tlsVersionString(version uint16) string {
	switch version {
	case tls.VersionTLS10:
		return "TLS 1.0"
	case tls.VersionTLS11:
		return "TLS 1.1"
	case tls.VersionTLS12:
		return "TLS 1.2"
	case tls.VersionTLS13:
		return "TLS 1.3"
	default:
		return fmt.Sprintf("unknown (0x%04x)", version)
	}
}
