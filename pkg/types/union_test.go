package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamlang/loam/pkg/types"
)

func TestEmptyUnionIsNever(t *testing.T) {
	u := types.NewUnion()
	require.Equal(t, 1, u.Len())
	assert.True(t, u.IsNever())
	assert.Equal(t, "never", u.ID())
}

func TestUnionIDIsOrderIndependent(t *testing.T) {
	a := types.NewUnion(&types.TInt{}, &types.TString{})
	b := types.NewUnion(&types.TString{}, &types.TInt{})
	assert.Equal(t, a.ID(), b.ID())
	assert.True(t, a.Equal(b))
}

func TestUnionEqualComparesMultiset(t *testing.T) {
	a := types.NewUnion(&types.TInt{}, &types.TInt{})
	b := types.NewUnion(&types.TInt{})
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a.Clone()))
}

func TestUnionNullPredicates(t *testing.T) {
	nullable := types.NewUnion(&types.TString{}, &types.TNull{})
	assert.True(t, nullable.HasNull())
	assert.True(t, nullable.IsNullable())
	assert.False(t, nullable.IsNull())

	suppressed := nullable.Clone()
	suppressed.IgnoreNullable = true
	assert.False(t, suppressed.IsNullable())

	assert.True(t, types.NullType().IsNull())
}

func TestCloneDivergesFromOriginal(t *testing.T) {
	u := types.NewUnion(&types.TInt{})
	dup := u.Clone()
	dup.FromTemplate = true

	assert.False(t, u.FromTemplate)
	assert.True(t, dup.FromTemplate)

	widened := u.WithAtomics(&types.TString{})
	assert.Equal(t, 1, u.Len())
	assert.Equal(t, 2, widened.Len())
}

func TestAtomicKeys(t *testing.T) {
	five := int64(5)
	min, max := int64(0), int64(10)
	hello := "hello"

	for _, tc := range []struct {
		atomic types.Atomic
		key    string
	}{
		{&types.TInt{Literal: &five}, "int(5)"},
		{&types.TIntRange{Min: &min, Max: &max}, "int<0, 10>"},
		{&types.TIntRange{}, "int<min, max>"},
		{&types.TString{Literal: &hello}, `string("hello")`},
		{&types.TMixed{FromAny: true}, "mixed-from-any"},
		{&types.TMixed{NonNull: true}, "nonnull-mixed"},
		{&types.TNamedObject{Name: "App.User", IsThis: true}, "App.User&this"},
		{&types.TEnumCase{EnumName: "Status", CaseName: "Active"}, "Status::Active"},
		{&types.TClassString{Kind: types.EnumString}, "enum-string"},
		{&types.TPlaceholder{}, "_"},
	} {
		assert.Equal(t, tc.key, tc.atomic.Key())
	}
}

func TestGenericParamKeyCarriesConstraint(t *testing.T) {
	p := &types.TGenericParam{
		Name:           "T",
		DefiningEntity: "App.Box",
		Constraint:     types.NewUnion(&types.TInt{}, &types.TString{}),
	}
	assert.Equal(t, "T:App.Box as int|string", p.Key())

	unconstrained := &types.TGenericParam{Name: "T", DefiningEntity: "App.Box"}
	assert.Equal(t, "T:App.Box as mixed", unconstrained.Key())
}

func TestTemplateContextExtendsImmutably(t *testing.T) {
	base := types.NewTemplateContext()
	one := base.With("T", "App.Box", types.IntType())
	two := one.With("U", "App.Box", nil)

	assert.Equal(t, 0, base.Len())
	assert.Equal(t, 1, one.Len())
	assert.Equal(t, 2, two.Len())
	assert.False(t, base.Has("T"))
	assert.True(t, two.Has("T"))

	// Rebinding shadows without touching the original context.
	shadowed := two.With("T", "App.Box::get", types.StringType())
	bound, ok := shadowed.Lookup("T")
	require.True(t, ok)
	assert.Equal(t, "App.Box::get", bound.DefiningEntity)

	bound, _ = two.Lookup("T")
	assert.Equal(t, "App.Box", bound.DefiningEntity)
}

func TestKeyedArrayHelpers(t *testing.T) {
	shape := &types.TKeyedArray{KnownItems: []types.KnownItem{
		{Key: types.IntKey(0), Type: types.IntType()},
		{Key: types.IntKey(1), Type: types.StringType()},
	}}
	assert.True(t, shape.IsListShaped())

	named := &types.TKeyedArray{KnownItems: []types.KnownItem{
		{Key: types.StrKey("id"), Type: types.IntType()},
	}}
	assert.False(t, named.IsListShaped())
	assert.Equal(t, "array-key", named.OpenKeyType().ID())
	assert.Equal(t, "mixed", named.OpenValueType().ID())
}

func TestListElemTypeCoversKnownElements(t *testing.T) {
	l := &types.TList{
		Elem: types.IntType(),
		KnownElements: []types.ListElem{
			{Type: types.StringType()},
		},
	}
	assert.Equal(t, "int|string", l.ElemType().ID())
}

func TestCallableParamTypeHandlesVariadic(t *testing.T) {
	c := &types.TCallable{Params: []types.CallableParam{
		{Type: types.IntType()},
		{Type: types.StringType(), Variadic: true},
	}}

	p0, ok := c.ParamType(0)
	require.True(t, ok)
	assert.Equal(t, "int", p0.ID())

	p5, ok := c.ParamType(5)
	require.True(t, ok)
	assert.Equal(t, "string", p5.ID())

	assert.Equal(t, 1, c.RequiredParamCount())
}
