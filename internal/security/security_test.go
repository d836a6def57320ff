package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDangerousRoot(t *testing.T) {
	policy := &Policy{}
	assert.True(t, policy.IsDangerous("/"), "filesystem root is always refused")
}

func TestIsDangerousProtectedPaths(t *testing.T) {
	dir := t.TempDir()
	policy := &Policy{ProtectedPaths: []string{dir}}

	assert.True(t, policy.IsDangerous(dir))
	assert.True(t, policy.IsDangerous(dir+string(filepath.Separator)), "trailing separator must not bypass the check")

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	assert.False(t, policy.IsDangerous(sub), "only exact protected roots are refused")
}

func TestIsDangerousResolvesSymlinks(t *testing.T) {
	protected := t.TempDir()
	link := filepath.Join(t.TempDir(), "alias")
	require.NoError(t, os.Symlink(protected, link))

	policy := &Policy{ProtectedPaths: []string{protected}}
	assert.True(t, policy.IsDangerous(link), "symlink to a protected path must be refused")
}

func TestIsDangerousHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	policy := &Policy{ProtectHome: true}
	assert.True(t, policy.IsDangerous(home))

	other := t.TempDir()
	assert.False(t, policy.IsDangerous(other))

	// With home protection off the same path passes
	relaxed := &Policy{ProtectHome: false}
	assert.False(t, relaxed.IsDangerous(home))
}

func TestIsDangerousSafeTarget(t *testing.T) {
	policy := DefaultPolicy()
	assert.False(t, policy.IsDangerous(t.TempDir()))
}

func TestCanonicalize(t *testing.T) {
	dir := t.TempDir()

	canon, err := Canonicalize(dir)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(canon))

	// Nonexistent paths still normalize instead of failing
	missing := filepath.Join(dir, "missing", "..", "also-missing")
	canon, err = Canonicalize(missing)
	require.NoError(t, err)
	assert.NotContains(t, canon, "..")
}
