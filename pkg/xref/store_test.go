package xref_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamlang/loam/pkg/decl"
	"github.com/loamlang/loam/pkg/populate"
	"github.com/loamlang/loam/pkg/xref"
)

func openStore(t *testing.T) *xref.Store {
	t.Helper()
	s, err := xref.Open(filepath.Join(t.TempDir(), "xref.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndQueryReferences(t *testing.T) {
	s := openStore(t)

	results := []*populate.PopulationResult{
		{
			Class: decl.NewClassLike("App.Child", decl.ClassKind),
			SymbolReferences: []populate.SymbolReference{
				{From: "App.Child", To: "App.Base", TypeLevel: true},
				{From: "App.Child", To: "App.Mixin", TypeLevel: true},
			},
		},
		{
			Class: decl.NewClassLike("App.Other", decl.ClassKind),
			SymbolReferences: []populate.SymbolReference{
				{From: "App.Other", To: "App.Base", TypeLevel: true},
			},
		},
	}
	require.NoError(t, s.RecordAll(results))

	refs, err := s.ReferencesTo("App.Base")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "App.Child", refs[0].From)
	assert.Equal(t, "App.Other", refs[1].From)

	out, err := s.ReferencesFrom("App.Child")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "App.Base", out[0].To)
	assert.Equal(t, "App.Mixin", out[1].To)
}

func TestRecordAllReplacesStaleEdges(t *testing.T) {
	s := openStore(t)

	child := decl.NewClassLike("App.Child", decl.ClassKind)
	require.NoError(t, s.RecordAll([]*populate.PopulationResult{{
		Class: child,
		SymbolReferences: []populate.SymbolReference{
			{From: "App.Child", To: "App.Old", TypeLevel: true},
		},
	}}))

	require.NoError(t, s.RecordAll([]*populate.PopulationResult{{
		Class: child,
		SymbolReferences: []populate.SymbolReference{
			{From: "App.Child", To: "App.New", TypeLevel: true},
		},
	}}))

	stale, err := s.ReferencesTo("App.Old")
	require.NoError(t, err)
	assert.Empty(t, stale)

	fresh, err := s.ReferencesTo("App.New")
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
}
