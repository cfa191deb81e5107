package credential

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pelicanstore/pkg/federation"
)

func writeToken(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParseMappings(t *testing.T) {
	t.Run("empty config yields empty table", func(t *testing.T) {
		table, err := ParseMappings("", federation.DefaultHost)
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("whitespace-only config yields empty table", func(t *testing.T) {
		table, err := ParseMappings("  \t\n ", federation.DefaultHost)
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("bare path becomes default entry", func(t *testing.T) {
		table, err := ParseMappings("/etc/tokens/default.txt", federation.DefaultHost)
		require.NoError(t, err)
		require.Equal(t, 1, table.Len())
		assert.Equal(t, Mapping{Prefix: "", TokenPath: "/etc/tokens/default.txt"}, table.Entries()[0])
	})

	t.Run("multiple prefix mappings", func(t *testing.T) {
		cfg := "pelican://osg-htc.org/chtc:/tokens/t1 pelican://osg-htc.org/ospool:/tokens/t2"
		table, err := ParseMappings(cfg, federation.DefaultHost)
		require.NoError(t, err)
		require.Equal(t, 2, table.Len())

		byPrefix := map[string]string{}
		for _, m := range table.Entries() {
			byPrefix[m.Prefix] = m.TokenPath
		}
		assert.Equal(t, "/tokens/t1", byPrefix["pelican://osg-htc.org/chtc"])
		assert.Equal(t, "/tokens/t2", byPrefix["pelican://osg-htc.org/ospool"])
	})

	t.Run("entries sorted longest prefix first", func(t *testing.T) {
		cfg := "pelican://h/a:/t/short pelican://h/a/b:/t/long :/t/default"
		table, err := ParseMappings(cfg, federation.DefaultHost)
		require.NoError(t, err)
		entries := table.Entries()
		require.Equal(t, 3, table.Len())
		assert.Equal(t, "pelican://h/a/b", entries[0].Prefix)
		assert.Equal(t, "pelican://h/a", entries[1].Prefix)
		assert.Equal(t, "", entries[2].Prefix)
	})

	t.Run("splits on last colon", func(t *testing.T) {
		// A port-like colon inside the prefix must stay with the prefix.
		table, err := ParseMappings("pelican://fed.org:8443/ns:/tokens/ns.txt", federation.DefaultHost)
		require.NoError(t, err)
		require.Equal(t, 1, table.Len())
		assert.Equal(t, "pelican://fed.org:8443/ns", table.Entries()[0].Prefix)
		assert.Equal(t, "/tokens/ns.txt", table.Entries()[0].TokenPath)
	})

	t.Run("token without colon among multiple is malformed", func(t *testing.T) {
		_, err := ParseMappings("pelican://h/a:/t/a just-a-path", federation.DefaultHost)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedMapping)
	})

	t.Run("empty token path is rejected", func(t *testing.T) {
		_, err := ParseMappings("pelican://h/a: pelican://h/b:/t/b", federation.DefaultHost)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyTokenPath)
	})

	t.Run("duplicate prefixes are rejected", func(t *testing.T) {
		_, err := ParseMappings("pelican://h/a:/t/one pelican://h/a:/t/two", federation.DefaultHost)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicatePrefix)
	})
}

func TestResolveToken(t *testing.T) {
	dir := t.TempDir()
	defaultToken := writeToken(t, dir, "default.txt", "default-token-content")
	chtcToken := writeToken(t, dir, "chtc.txt", "chtc-token-content")

	t.Run("default-only table resolves every query", func(t *testing.T) {
		table, err := ParseMappings(defaultToken, federation.DefaultHost)
		require.NoError(t, err)

		for _, q := range []string{
			"pelican://osg-htc.org/chtc/file.txt",
			"pelican://another-federation.org/x/y",
			"osdf:///ospool/data.bin",
		} {
			token, err := table.ResolveToken(q)
			require.NoError(t, err, "query %s", q)
			assert.Equal(t, "default-token-content", token)
		}
	})

	t.Run("longest matching prefix wins", func(t *testing.T) {
		cfg := fmt.Sprintf("pelican://osg-htc.org:%s pelican://osg-htc.org/chtc:%s",
			defaultToken, chtcToken)
		table, err := ParseMappings(cfg, federation.DefaultHost)
		require.NoError(t, err)

		token, err := table.ResolveToken("pelican://osg-htc.org/chtc/user/file.txt")
		require.NoError(t, err)
		assert.Equal(t, "chtc-token-content", token)

		token, err = table.ResolveToken("pelican://osg-htc.org/ospool/user/file.txt")
		require.NoError(t, err)
		assert.Equal(t, "default-token-content", token)
	})

	t.Run("osdf query is canonicalized before matching", func(t *testing.T) {
		cfg := fmt.Sprintf("pelican://osg-htc.org/chtc:%s", chtcToken)
		table, err := ParseMappings(cfg, federation.DefaultHost)
		require.NoError(t, err)

		token, err := table.ResolveToken("osdf:///chtc/user/file.txt")
		require.NoError(t, err)
		assert.Equal(t, "chtc-token-content", token)
	})

	t.Run("custom federation host is used for canonicalization", func(t *testing.T) {
		cfg := fmt.Sprintf("pelican://test-federation.org/ns:%s", chtcToken)
		table, err := ParseMappings(cfg, "test-federation.org")
		require.NoError(t, err)

		token, err := table.ResolveToken("osdf:///ns/file.txt")
		require.NoError(t, err)
		assert.Equal(t, "chtc-token-content", token)
	})

	t.Run("no match and no default fails with ErrNoCredential", func(t *testing.T) {
		cfg := fmt.Sprintf("pelican://osg-htc.org/chtc:%s", chtcToken)
		table, err := ParseMappings(cfg, federation.DefaultHost)
		require.NoError(t, err)

		_, err = table.ResolveToken("pelican://osg-htc.org/other/file.txt")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoCredential)
	})

	t.Run("empty table fails with ErrNoCredential", func(t *testing.T) {
		table, err := ParseMappings("", federation.DefaultHost)
		require.NoError(t, err)

		_, err = table.ResolveToken("pelican://osg-htc.org/chtc/file.txt")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoCredential)
	})

	t.Run("missing token file surfaces the read error", func(t *testing.T) {
		table, err := ParseMappings(filepath.Join(dir, "does-not-exist.txt"), federation.DefaultHost)
		require.NoError(t, err)

		_, err = table.ResolveToken("pelican://osg-htc.org/chtc/file.txt")
		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.NotErrorIs(t, err, ErrNoCredential)
	})

	t.Run("token content returned verbatim", func(t *testing.T) {
		raw := writeToken(t, dir, "raw.txt", "token-with-newline\n")
		table, err := ParseMappings(raw, federation.DefaultHost)
		require.NoError(t, err)

		token, err := table.ResolveToken("pelican://osg-htc.org/x")
		require.NoError(t, err)
		assert.Equal(t, "token-with-newline\n", token)
	})
}

func TestResolveTokenEndToEnd(t *testing.T) {
	dir := t.TempDir()
	token1 := writeToken(t, dir, "token1.txt", "token-content-1")
	token2 := writeToken(t, dir, "token2.txt", "token-content-2")

	cfg := fmt.Sprintf("pelican://fed.org/chtc:%s pelican://fed.org/ospool:%s", token1, token2)
	table, err := ParseMappings(cfg, "fed.org")
	require.NoError(t, err)

	token, err := table.ResolveToken("pelican://fed.org/chtc/user/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "token-content-1", token)

	token, err = table.ResolveToken("pelican://fed.org/ospool/user/x")
	require.NoError(t, err)
	assert.Equal(t, "token-content-2", token)

	_, err = table.ResolveToken("pelican://fed.org/other/x")
	assert.ErrorIs(t, err, ErrNoCredential)
}
