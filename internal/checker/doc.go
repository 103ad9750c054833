// Package checker defines the WebSentry checking framework.
//
// Checkers implement the Checker interface (Check + Name) for specific
// probe surfaces: HeadersChecker fetches the target once and inspects
// response headers, cookies and CORS policy; TLSChecker performs an
// unverified handshake and evaluates protocol, cipher and certificate
// posture. Runner coordinates concurrent execution with a semaphore
// and a global rate limiter.
//
// Checkers emit raw engine.CheckResult values only; classification,
// severity, deduplication and ranking happen in the engine package.
// Every probe is read-only: a single GET or HEAD plus one TLS
// handshake, no crawling, no exploitation.
package checker
