// Package federation handles Pelican federation URLs. It canonicalizes the
// legacy osdf:// redirector form into pelican://host/path addressing,
// validates that a query is structurally well-formed before any I/O is
// attempted, and extracts the /namespace/... object path used for
// credential lookup and transfers.
package federation
