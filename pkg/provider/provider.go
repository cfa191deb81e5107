// Package provider ties query validation, URL canonicalization, and
// credential resolution together behind the surface a workflow engine
// drives. The actual byte transfer is owned by the ObjectStore collaborator
// supplied at construction; this package never opens a network connection.
package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pelicanstore/pkg/config"
	"pelicanstore/pkg/credential"
	"pelicanstore/pkg/federation"
)

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Size int64
}

// ObjectStore performs the actual object I/O against a federation. Paths
// are the /namespace/... form produced by federation.ObjectPath.
type ObjectStore interface {
	Exists(ctx context.Context, path string) (bool, error)
	Stat(ctx context.Context, path string) (ObjectInfo, error)
	Retrieve(ctx context.Context, path, localPath string) error
	Store(ctx context.Context, localPath, path string) error
}

// Provider resolves queries to canonical URLs and credentials for one
// federation configuration. It is built once and is safe for concurrent
// use; the mapping table is immutable after construction.
type Provider struct {
	settings *config.Settings
	mappings *credential.Table
	store    ObjectStore
	logger   *zap.Logger
}

// New builds a provider from settings. A malformed token mapping is a fatal
// configuration error and fails construction.
func New(settings *config.Settings, store ObjectStore, logger *zap.Logger) (*Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	mappings, err := credential.ParseMappings(settings.TokenConfig, settings.Host())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token mappings: %w", err)
	}

	logger.Debug("initialized storage provider",
		zap.String("federation_host", settings.Host()),
		zap.Int("token_mappings", mappings.Len()))

	return &Provider{
		settings: settings,
		mappings: mappings,
		store:    store,
		logger:   logger,
	}, nil
}

// Mappings exposes the parsed credential mapping table.
func (p *Provider) Mappings() *credential.Table {
	return p.mappings
}

// IsValidQuery reports whether a query is structurally admissible. Callers
// must check this before constructing objects or resolving credentials.
func (p *Provider) IsValidQuery(query string) federation.ValidationResult {
	return federation.ValidateQuery(query)
}

// CanonicalURL returns the pelican:// form of a query against the
// provider's federation host.
func (p *Provider) CanonicalURL(query string) string {
	return federation.CanonicalizeWithHost(query, p.settings.Host())
}

// TokenForQuery resolves the credential to present for a query. The token
// file is read fresh on every call.
func (p *Provider) TokenForQuery(query string) (string, error) {
	token, err := p.mappings.ResolveToken(query)
	if err != nil {
		return "", err
	}
	p.logger.Debug("resolved credential for query", zap.String("query", query))
	return token, nil
}

// Object constructs a storage object for a query, rejecting queries that
// fail validation.
func (p *Provider) Object(query string) (*Object, error) {
	if res := p.IsValidQuery(query); !res.Valid {
		return nil, fmt.Errorf("invalid query %q: %s", query, res.Reason)
	}

	canonical := p.CanonicalURL(query)
	path, err := federation.ObjectPath(canonical)
	if err != nil {
		return nil, err
	}

	return &Object{
		query:     query,
		canonical: canonical,
		path:      path,
		provider:  p,
	}, nil
}
