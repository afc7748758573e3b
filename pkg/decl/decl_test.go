package decl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamlang/loam/pkg/decl"
	"github.com/loamlang/loam/pkg/intern"
	"github.com/loamlang/loam/pkg/types"
)

func TestNameScopeResolve(t *testing.T) {
	scope := decl.NewNameScope("App.Models")
	scope.AddAlias("Entry", "Vendor.Log.Entry")

	for _, tc := range []struct {
		in   string
		want string
	}{
		{"User", "App.Models.User"},
		{".Vendor.User", "Vendor.User"},
		{"Entry", "Vendor.Log.Entry"},
		{"entry", "Vendor.Log.Entry"},
		{"Entry.Line", "Vendor.Log.Entry.Line"},
		{"Nested.Thing", "App.Models.Nested.Thing"},
	} {
		assert.Equal(t, tc.want, scope.Resolve(tc.in), tc.in)
	}

	root := decl.NewNameScope("")
	assert.Equal(t, "User", root.Resolve("User"))
}

func TestCodebaseLookupIsCaseInsensitive(t *testing.T) {
	cb := decl.NewCodebase(intern.New())
	cb.AddClassLike(decl.NewClassLike("App.User", decl.ClassKind))

	c, ok := cb.ClassLike("app.user")
	require.True(t, ok)
	assert.Equal(t, "App.User", c.Name)
	assert.True(t, cb.Has("APP.USER"))
	assert.False(t, cb.Has("App.Missing"))
}

func TestCodebaseNamesSorted(t *testing.T) {
	cb := decl.NewCodebase(intern.New())
	cb.AddClassLike(decl.NewClassLike("B", decl.ClassKind))
	cb.AddClassLike(decl.NewClassLike("A", decl.ClassKind))
	cb.AddClassLike(decl.NewClassLike("C", decl.InterfaceKind))

	assert.Equal(t, []string{"A", "B", "C"}, cb.Names())
}

func TestClassExtendsWalksUnpopulatedChain(t *testing.T) {
	cb := decl.NewCodebase(intern.New())

	grand := decl.NewClassLike("Grand", decl.ClassKind)
	parent := decl.NewClassLike("Parent", decl.ClassKind)
	parent.ParentClass = "Grand"
	child := decl.NewClassLike("Child", decl.ClassKind)
	child.ParentClass = "Parent"
	cb.AddClassLike(grand)
	cb.AddClassLike(parent)
	cb.AddClassLike(child)

	assert.True(t, cb.ClassExtends("Child", "Parent"))
	assert.True(t, cb.ClassExtends("Child", "Grand"))
	assert.False(t, cb.ClassExtends("Grand", "Child"))
}

func TestClassExtendsSurvivesParentCycle(t *testing.T) {
	cb := decl.NewCodebase(intern.New())

	a := decl.NewClassLike("A", decl.ClassKind)
	a.ParentClass = "B"
	b := decl.NewClassLike("B", decl.ClassKind)
	b.ParentClass = "A"
	cb.AddClassLike(a)
	cb.AddClassLike(b)

	assert.True(t, cb.ClassExtends("A", "B"))
	assert.False(t, cb.ClassExtends("A", "C"))
}

func TestClassImplementsTransitive(t *testing.T) {
	cb := decl.NewCodebase(intern.New())

	top := decl.NewClassLike("Countable", decl.InterfaceKind)
	mid := decl.NewClassLike("Collection", decl.InterfaceKind)
	mid.ParentInterfaces["Countable"] = true
	c := decl.NewClassLike("Bag", decl.ClassKind)
	c.ParentInterfaces["Collection"] = true
	cb.AddClassLike(top)
	cb.AddClassLike(mid)
	cb.AddClassLike(c)

	assert.True(t, cb.ClassImplements("Bag", "Collection"))
	assert.True(t, cb.ClassImplements("Bag", "Countable"))
	assert.False(t, cb.ClassImplements("Bag", "Stringable"))
}

func TestTraversableParams(t *testing.T) {
	cb := decl.NewCodebase(intern.New())

	coll := decl.NewClassLike("App.Typed", decl.ClassKind)
	coll.TemplateExtendedParams[decl.TraversableInterface] = map[string]*types.Union{
		"TKey":   types.IntType(),
		"TValue": types.StringType(),
	}
	cb.AddClassLike(coll)

	plain := decl.NewClassLike("App.Plain", decl.ClassKind)
	plain.ParentInterfaces[decl.TraversableInterface] = true
	cb.AddClassLike(plain)

	cb.AddClassLike(decl.NewClassLike("App.Inert", decl.ClassKind))

	key, value, ok := cb.TraversableParams("App.Typed")
	require.True(t, ok)
	assert.Equal(t, "int", key.ID())
	assert.Equal(t, "string", value.ID())

	key, value, ok = cb.TraversableParams("App.Plain")
	require.True(t, ok)
	assert.Equal(t, "mixed", key.ID())
	assert.Equal(t, "mixed", value.ID())

	_, _, ok = cb.TraversableParams("App.Inert")
	assert.False(t, ok)
}

func TestMemberIDString(t *testing.T) {
	id := decl.MemberID{ClassName: "App.User", MemberName: "load"}
	assert.Equal(t, "App.User::load", id.String())
}

func TestNewIssueCodes(t *testing.T) {
	issue := decl.NewIssue("CircularTypeAlias", "cycle")
	assert.Equal(t, "circular_type_alias", issue.Code)
}

func TestClassLikeTemplateContext(t *testing.T) {
	c := decl.NewClassLike("App.Box", decl.ClassKind)
	c.Templates = []decl.TemplateParam{
		{Name: "T", Constraint: types.IntType()},
		{Name: "U"},
	}

	ctx := c.TemplateContext()
	assert.Equal(t, 2, ctx.Len())

	bound, ok := ctx.Lookup("T")
	require.True(t, ok)
	assert.Equal(t, "App.Box", bound.DefiningEntity)
	assert.Equal(t, "int", bound.Constraint.ID())
}

func TestDirectAncestors(t *testing.T) {
	c := decl.NewClassLike("App.Thing", decl.ClassKind)
	c.ParentClass = "App.Base"
	c.ParentInterfaces["App.Contract"] = true
	c.UsedTraits["App.Mixin"] = true
	c.RequireExtends = []string{"App.Must"}

	ancestors := c.DirectAncestors()
	assert.ElementsMatch(t, []string{"App.Base", "App.Contract", "App.Mixin", "App.Must"}, ancestors)
}
