package provider

import (
	"context"
	"path"
)

// Object is one addressable object in a federation. Pelican objects are
// immutable: there is no delete and mtime is always zero.
type Object struct {
	query     string
	canonical string
	path      string
	provider  *Provider
}

// Query returns the query string the object was constructed from.
func (o *Object) Query() string {
	return o.query
}

// CanonicalURL returns the pelican:// form of the object's query.
func (o *Object) CanonicalURL() string {
	return o.canonical
}

// Path returns the /namespace/... object path within the federation.
func (o *Object) Path() string {
	return o.path
}

// LocalSuffix returns the filename used when staging the object locally.
func (o *Object) LocalSuffix() string {
	return path.Base(o.path)
}

// Token resolves the credential to present for this object.
func (o *Object) Token() (string, error) {
	return o.provider.TokenForQuery(o.query)
}

func (o *Object) Exists(ctx context.Context) (bool, error) {
	return o.provider.store.Exists(ctx, o.path)
}

func (o *Object) Size(ctx context.Context) (int64, error) {
	info, err := o.provider.store.Stat(ctx, o.path)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// Mtime returns 0: objects are immutable once written, so modification
// time carries no information.
func (o *Object) Mtime() float64 {
	return 0
}

func (o *Object) Retrieve(ctx context.Context, localPath string) error {
	return o.provider.store.Retrieve(ctx, o.path, localPath)
}

func (o *Object) Store(ctx context.Context, localPath string) error {
	return o.provider.store.Store(ctx, localPath, o.path)
}
