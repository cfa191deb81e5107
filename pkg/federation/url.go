package federation

import (
	"fmt"
	"strings"
)

// Scheme prefixes for the two accepted query forms. Pelican URLs carry the
// federation hostname; OSDF URLs are a legacy redirector form whose host is
// always the default federation.
const (
	SchemePelican = "pelican://"
	SchemeOSDF    = "osdf://"
)

// DefaultHost is the federation hostname injected when an osdf:// query is
// rewritten into pelican:// form. The OSDF redirector is a fixed, well-known
// federation; it is never discovered dynamically.
const DefaultHost = "osg-htc.org"

// ValidationResult carries the verdict for a query string. When Valid is
// false, Reason names the structural rule that failed.
type ValidationResult struct {
	Valid  bool
	Reason string
}

// NormalizeSlashes rewrites the ambiguous two-slash osdf form into the
// canonical three-slash (empty authority) form:
//
//	osdf://host/path  -> osdf:///host/path
//	osdf:///host/path -> unchanged
//
// Everything after "osdf://" is path; the scheme has no authority component.
// URLs with any other scheme pass through byte-identical.
func NormalizeSlashes(rawURL string) string {
	if !strings.HasPrefix(rawURL, SchemeOSDF) {
		return rawURL
	}
	rest := strings.TrimPrefix(rawURL, SchemeOSDF)
	if strings.HasPrefix(rest, "/") {
		return rawURL
	}
	return SchemeOSDF + "/" + rest
}

// Canonicalize rewrites a query into pelican:// form against the default
// federation host. See CanonicalizeWithHost.
func Canonicalize(rawURL string) string {
	return CanonicalizeWithHost(rawURL, DefaultHost)
}

// CanonicalizeWithHost rewrites an osdf:// query into a pelican:// URL on
// the given federation host. A query already in pelican:// form is returned
// unchanged regardless of its hostname, and so is any other scheme. The
// function is total: it never fails, and malformed input is deferred to
// ValidateQuery.
func CanonicalizeWithHost(rawURL, federationHost string) string {
	rawURL = NormalizeSlashes(rawURL)
	if !strings.HasPrefix(rawURL, SchemeOSDF) {
		return rawURL
	}
	path := strings.TrimPrefix(rawURL, SchemeOSDF+"/")
	return fmt.Sprintf("%s%s/%s", SchemePelican, federationHost, path)
}

// ValidateQuery checks that a query is structurally admissible for path
// extraction and credential resolution. It does not check that the object
// exists or that the federation is reachable.
func ValidateQuery(query string) ValidationResult {
	switch {
	case strings.HasPrefix(query, SchemePelican):
		host := query[len(SchemePelican):]
		if i := strings.Index(host, "/"); i >= 0 {
			host = host[:i]
		}
		if host == "" {
			return ValidationResult{
				Valid:  false,
				Reason: "pelican:// URL must include a federation hostname",
			}
		}
		return ValidationResult{Valid: true}
	case strings.HasPrefix(query, SchemeOSDF):
		// The default federation host is injected during canonicalization,
		// so osdf:// queries carry no hostname of their own.
		return ValidationResult{Valid: true}
	default:
		return ValidationResult{
			Valid: false,
			Reason: fmt.Sprintf("query must use the %s or %s scheme",
				SchemePelican, SchemeOSDF),
		}
	}
}

// ObjectPath extracts the /namespace/... object path from a query. The
// query is canonicalized first, so both pelican:// and osdf:// forms yield
// the same path.
func ObjectPath(query string) (string, error) {
	canonical := Canonicalize(query)
	if !strings.HasPrefix(canonical, SchemePelican) {
		return "", fmt.Errorf("cannot extract object path from %q: not a federation URL", query)
	}
	rest := canonical[len(SchemePelican):]
	i := strings.Index(rest, "/")
	if i < 0 {
		return "", fmt.Errorf("cannot extract object path from %q: no path component", query)
	}
	return rest[i:], nil
}
