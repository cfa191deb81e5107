// Package credential selects which token to present for a federation query.
// A provider declares an ordered set of URL-prefix to token-file mappings;
// resolution picks the most specific (longest) matching prefix and reads the
// token fresh from disk on every call.
package credential

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"pelicanstore/pkg/federation"
)

var (
	ErrNoCredential     = errors.New("no credential mapping matches query")
	ErrMalformedMapping = errors.New("malformed token mapping")
	ErrDuplicatePrefix  = errors.New("duplicate mapping prefix")
	ErrEmptyTokenPath   = errors.New("token path cannot be empty")
)

// Mapping is one prefix -> token-file entry. An empty Prefix is the default
// entry and matches every query.
type Mapping struct {
	Prefix    string
	TokenPath string
}

// Table is the immutable credential mapping table for one provider. It is
// built once from configuration text and is safe for concurrent lookups.
type Table struct {
	// Sorted by descending prefix length so the first match is the longest.
	entries        []Mapping
	federationHost string
}

// ParseMappings builds a Table from configuration text. The grammar:
//
//	config = "" | path | token *( WS token )
//	token  = prefix ":" path
//
// A config consisting of a single field with no colon is a bare token path
// and becomes the default entry, matching every query. Otherwise each
// whitespace-separated token splits at its LAST colon: prefixes legitimately
// contain colons (scheme separators, port-like namespace segments) while
// token paths do not. An empty prefix (":path") is the explicit default.
//
// federationHost is used to canonicalize queries before prefix comparison;
// pass federation.DefaultHost unless the provider overrides it.
func ParseMappings(configText, federationHost string) (*Table, error) {
	t := &Table{federationHost: federationHost}

	fields := strings.Fields(configText)
	if len(fields) == 0 {
		return t, nil
	}
	if len(fields) == 1 && !strings.Contains(fields[0], ":") {
		t.entries = []Mapping{{Prefix: "", TokenPath: fields[0]}}
		return t, nil
	}

	seen := make(map[string]bool, len(fields))
	for _, tok := range fields {
		i := strings.LastIndex(tok, ":")
		if i < 0 {
			return nil, fmt.Errorf("%w: %q has no prefix:path separator", ErrMalformedMapping, tok)
		}
		prefix, path := tok[:i], tok[i+1:]
		if path == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyTokenPath, tok)
		}
		if seen[prefix] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePrefix, prefix)
		}
		seen[prefix] = true
		t.entries = append(t.entries, Mapping{Prefix: prefix, TokenPath: path})
	}

	// Longest prefix first; the default ("") naturally sorts last.
	sort.SliceStable(t.entries, func(a, b int) bool {
		return len(t.entries[a].Prefix) > len(t.entries[b].Prefix)
	})
	return t, nil
}

// Len returns the number of mapping entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the mapping entries, longest prefix first.
func (t *Table) Entries() []Mapping {
	out := make([]Mapping, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns the winning mapping for a query. The query is
// canonicalized so prefix comparison is scheme-consistent; among entries
// whose prefix is a literal string prefix of the canonical query, the
// longest wins, with the default entry as fallback.
func (t *Table) Lookup(query string) (Mapping, bool) {
	canonical := federation.CanonicalizeWithHost(query, t.federationHost)
	for _, m := range t.entries {
		if strings.HasPrefix(canonical, m.Prefix) {
			return m, true
		}
	}
	return Mapping{}, false
}

// ResolveToken resolves a query to the content of the winning token file.
// The file is read fresh on every call; content is returned exactly as
// stored, trailing whitespace included. Fails with ErrNoCredential when no
// prefix matches and no default entry exists, which signals a configuration
// gap rather than an I/O problem.
func (t *Table) ResolveToken(query string) (string, error) {
	m, ok := t.Lookup(query)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoCredential, query)
	}
	data, err := os.ReadFile(m.TokenPath)
	if err != nil {
		return "", fmt.Errorf("failed to read token file %s: %w", m.TokenPath, err)
	}
	return string(data), nil
}
