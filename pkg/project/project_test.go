package project_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamlang/loam/pkg/project"
)

func TestDefaults(t *testing.T) {
	cfg := project.Default()
	assert.Equal(t, runtime.NumCPU(), cfg.Analysis.Parallelism)
	assert.False(t, cfg.Analysis.TreatMixedAsError)
	assert.Empty(t, cfg.Index.Path)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loam.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[analysis]
parallelism = 2
treat_mixed_as_error = true

[index]
path = ".loam/xref.db"
`), 0644))

	cfg, err := project.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Analysis.Parallelism)
	assert.True(t, cfg.Analysis.TreatMixedAsError)
	assert.Equal(t, ".loam/xref.db", cfg.Index.Path)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loam.toml")
	require.NoError(t, os.WriteFile(path, []byte(`analysis = nope`), 0644))

	_, err := project.Load(path)
	assert.Error(t, err)
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "loam.toml"), []byte(`
[analysis]
parallelism = 3
`), 0644))

	path, cfg, err := project.Find(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "loam.toml"), path)
	assert.Equal(t, 3, cfg.Analysis.Parallelism)
}

func TestFindFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))

	path, cfg, err := project.Find(dir)
	require.NoError(t, err)
	assert.Empty(t, path)
	require.NotNil(t, cfg)
	assert.Equal(t, runtime.NumCPU(), cfg.Analysis.Parallelism)
}
