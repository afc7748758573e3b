package populate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamlang/loam/pkg/decl"
	"github.com/loamlang/loam/pkg/intern"
	"github.com/loamlang/loam/pkg/populate"
	"github.com/loamlang/loam/pkg/types"
)

func newCodebase() *decl.Codebase {
	return decl.NewCodebase(intern.New())
}

func TestTraitMemberAttribution(t *testing.T) {
	cb := newCodebase()

	trait := decl.NewClassLike("App.Greets", decl.TraitKind)
	trait.Methods["greet"] = &decl.Method{Name: "greet"}
	trait.Properties["greeting"] = &decl.Property{Name: "greeting", Type: types.StringType()}
	cb.AddClassLike(trait)
	populate.Populate(trait, cb)

	c := decl.NewClassLike("App.Greeter", decl.ClassKind)
	c.UsedTraits["App.Greets"] = true
	cb.AddClassLike(c)
	populate.Populate(c, cb)

	// The method appears as the using class' own, but its body is still
	// the trait's.
	assert.Equal(t, "App.Greeter::greet", c.AppearingMethodIDs["greet"].String())
	assert.Equal(t, "App.Greets::greet", c.DeclaringMethodIDs["greet"].String())

	assert.Equal(t, "App.Greets::greeting", c.DeclaringPropertyIDs["greeting"].String())
}

func TestTraitOverrideKeepsOwnDeclaration(t *testing.T) {
	cb := newCodebase()

	trait := decl.NewClassLike("App.Greets", decl.TraitKind)
	trait.Methods["greet"] = &decl.Method{Name: "greet"}
	cb.AddClassLike(trait)
	populate.Populate(trait, cb)

	c := decl.NewClassLike("App.Greeter", decl.ClassKind)
	c.Methods["greet"] = &decl.Method{Name: "greet"}
	c.UsedTraits["App.Greets"] = true
	cb.AddClassLike(c)
	populate.Populate(c, cb)

	assert.Equal(t, "App.Greeter::greet", c.DeclaringMethodIDs["greet"].String())
}

func TestTraitAliases(t *testing.T) {
	cb := newCodebase()

	trait := decl.NewClassLike("App.Logs", decl.TraitKind)
	trait.Methods["log"] = &decl.Method{Name: "log"}
	cb.AddClassLike(trait)
	populate.Populate(trait, cb)

	c := decl.NewClassLike("App.Service", decl.ClassKind)
	c.UsedTraits["App.Logs"] = true
	c.TraitAliases["record"] = "log"
	cb.AddClassLike(c)
	populate.Populate(c, cb)

	// Both the original name and the alias resolve.
	assert.Equal(t, "App.Logs::log", c.DeclaringMethodIDs["log"].String())
	assert.Equal(t, "App.Logs::log", c.DeclaringMethodIDs["record"].String())
	assert.Equal(t, "App.Service::record", c.AppearingMethodIDs["record"].String())
}

func TestParentClassMerge(t *testing.T) {
	cb := newCodebase()

	base := decl.NewClassLike("App.Base", decl.ClassKind)
	base.Methods["run"] = &decl.Method{Name: "run"}
	base.Methods["seal"] = &decl.Method{Name: "seal", Final: true}
	base.Properties["state"] = &decl.Property{Name: "state", Type: types.IntType()}
	base.Constants["LIMIT"] = &decl.Constant{Name: "LIMIT", Type: types.IntType()}
	base.ConsistentTemplates = true
	cb.AddClassLike(base)
	populate.Populate(base, cb)

	child := decl.NewClassLike("App.Child", decl.ClassKind)
	child.ParentClass = "App.Base"
	cb.AddClassLike(child)
	populate.Populate(child, cb)

	assert.True(t, child.ParentClasses["App.Base"])
	assert.Equal(t, "App.Base::run", child.DeclaringMethodIDs["run"].String())
	assert.Equal(t, "App.Base::state", child.DeclaringPropertyIDs["state"].String())
	assert.Contains(t, child.Constants, "LIMIT")
	assert.True(t, child.ConsistentTemplates)

	// Final members do not flow down.
	_, ok := child.DeclaringMethodIDs["seal"]
	assert.False(t, ok)
}

func TestGrandparentMergeIsTransitive(t *testing.T) {
	cb := newCodebase()

	grand := decl.NewClassLike("App.Grand", decl.ClassKind)
	grand.Methods["root"] = &decl.Method{Name: "root"}
	cb.AddClassLike(grand)
	populate.Populate(grand, cb)

	parent := decl.NewClassLike("App.Parent", decl.ClassKind)
	parent.ParentClass = "App.Grand"
	cb.AddClassLike(parent)
	populate.Populate(parent, cb)

	child := decl.NewClassLike("App.Child", decl.ClassKind)
	child.ParentClass = "App.Parent"
	cb.AddClassLike(child)
	populate.Populate(child, cb)

	assert.True(t, child.ParentClasses["App.Grand"])
	assert.Equal(t, "App.Grand::root", child.DeclaringMethodIDs["root"].String())
}

func TestMissingParentRecordsInvalidDependency(t *testing.T) {
	cb := newCodebase()

	c := decl.NewClassLike("App.Orphan", decl.ClassKind)
	c.ParentClass = "App.Gone"
	cb.AddClassLike(c)
	populate.Populate(c, cb)

	assert.True(t, c.InvalidDependencies["App.Gone"])
	assert.True(t, c.Populated)
}

func TestInterfaceMergeCarriesParentInterfaces(t *testing.T) {
	cb := newCodebase()

	top := decl.NewClassLike("App.Countable", decl.InterfaceKind)
	top.Constants["MODE"] = &decl.Constant{Name: "MODE", Type: types.IntType()}
	cb.AddClassLike(top)
	populate.Populate(top, cb)

	mid := decl.NewClassLike("App.Collection", decl.InterfaceKind)
	mid.ParentInterfaces["App.Countable"] = true
	cb.AddClassLike(mid)
	populate.Populate(mid, cb)

	c := decl.NewClassLike("App.Bag", decl.ClassKind)
	c.ParentInterfaces["App.Collection"] = true
	cb.AddClassLike(c)
	populate.Populate(c, cb)

	assert.True(t, c.ParentInterfaces["App.Countable"])
	assert.Contains(t, c.Constants, "MODE")
}

func TestRequireContractsWidenWithoutInheriting(t *testing.T) {
	cb := newCodebase()

	base := decl.NewClassLike("App.Base", decl.ClassKind)
	base.Methods["run"] = &decl.Method{Name: "run"}
	cb.AddClassLike(base)
	populate.Populate(base, cb)

	trait := decl.NewClassLike("App.Helper", decl.TraitKind)
	trait.RequireExtends = []string{"App.Base"}
	cb.AddClassLike(trait)
	populate.Populate(trait, cb)

	assert.True(t, trait.ParentClasses["App.Base"])
	_, inherited := trait.DeclaringMethodIDs["run"]
	assert.False(t, inherited)
}

func TestReadOnlyClassMarksOwnProperties(t *testing.T) {
	cb := newCodebase()

	c := decl.NewClassLike("App.Value", decl.ClassKind)
	c.ReadOnly = true
	c.Properties["amount"] = &decl.Property{Name: "amount", Type: types.IntType()}
	c.Properties["cache"] = &decl.Property{Name: "cache", Static: true, Type: types.IntType()}
	cb.AddClassLike(c)
	populate.Populate(c, cb)

	assert.True(t, c.Properties["amount"].ReadOnly)
	assert.False(t, c.Properties["cache"].ReadOnly)
}

func TestImportedAliasResolution(t *testing.T) {
	cb := newCodebase()

	src := decl.NewClassLike("App.Types", decl.ClassKind)
	src.TypeAliases["UserId"] = &decl.TypeAlias{Name: "UserId", Replacement: types.IntType()}
	cb.AddClassLike(src)
	populate.Populate(src, cb)

	c := decl.NewClassLike("App.Repo", decl.ClassKind)
	c.ImportedAliases = []decl.ImportedAlias{
		{LocalName: "Id", FromClass: "App.Types", AliasName: "UserId"},
		{LocalName: "Bad", FromClass: "App.Missing", AliasName: "X"},
		{LocalName: "Worse", FromClass: "App.Types", AliasName: "Nope"},
	}
	cb.AddClassLike(c)
	populate.Populate(c, cb)

	require.Contains(t, c.TypeAliases, "Id")
	assert.Equal(t, "int", c.TypeAliases["Id"].Replacement.ID())

	require.Len(t, c.Issues, 2)
	assert.Equal(t, "unknown_class", c.Issues[0].Code)
	assert.Equal(t, "unknown_type_alias", c.Issues[1].Code)
}

func TestAliasCycleReportsFullChain(t *testing.T) {
	cb := newCodebase()

	c := decl.NewClassLike("App.Aliased", decl.ClassKind)
	c.TypeAliases["First"] = &decl.TypeAlias{Name: "First", ReferencedSymbols: []string{"Second"}}
	c.TypeAliases["Second"] = &decl.TypeAlias{Name: "Second", ReferencedSymbols: []string{"First"}}
	cb.AddClassLike(c)
	populate.Populate(c, cb)

	require.Len(t, c.Issues, 1)
	issue := c.Issues[0]
	assert.Equal(t, "circular_type_alias", issue.Code)
	assert.Contains(t, issue.Message, "First")
	assert.Contains(t, issue.Message, "Second")
}

func TestAliasSelfCycle(t *testing.T) {
	cb := newCodebase()

	c := decl.NewClassLike("App.Selfish", decl.ClassKind)
	c.TypeAliases["Loop"] = &decl.TypeAlias{Name: "Loop", ReferencedSymbols: []string{"Loop"}}
	cb.AddClassLike(c)
	populate.Populate(c, cb)

	require.Len(t, c.Issues, 1)
	assert.Contains(t, c.Issues[0].Message, "Loop")
}

func TestAcyclicAliasesProduceNoIssues(t *testing.T) {
	cb := newCodebase()

	c := decl.NewClassLike("App.Clean", decl.ClassKind)
	c.TypeAliases["Outer"] = &decl.TypeAlias{Name: "Outer", ReferencedSymbols: []string{"Inner", "App.Elsewhere"}}
	c.TypeAliases["Inner"] = &decl.TypeAlias{Name: "Inner", Replacement: types.IntType()}
	cb.AddClassLike(c)
	populate.Populate(c, cb)

	assert.Empty(t, c.Issues)
}

func TestMethodContextsCarryAliasesAndTemplates(t *testing.T) {
	cb := newCodebase()

	c := decl.NewClassLike("App.Store", decl.ClassKind)
	c.Templates = []decl.TemplateParam{{Name: "T", Constraint: types.MixedType()}}
	c.TypeAliases["Id"] = &decl.TypeAlias{Name: "Id", Replacement: types.IntType()}
	c.Methods["get"] = &decl.Method{
		Name:      "get",
		Templates: []decl.TemplateParam{{Name: "U", Constraint: types.StringType()}},
	}
	cb.AddClassLike(c)
	r := populate.Populate(c, cb)

	require.Contains(t, r.MethodContexts, "get")
	ctx := r.MethodContexts["get"]
	assert.True(t, ctx.Has("T"))
	assert.True(t, ctx.Has("Id"))
	assert.True(t, ctx.Has("U"))

	bound, _ := ctx.Lookup("U")
	assert.Equal(t, "App.Store::get", bound.DefiningEntity)
}

func TestTemplateExtension(t *testing.T) {
	cb := newCodebase()

	base := decl.NewClassLike("App.Collection", decl.ClassKind)
	base.Templates = []decl.TemplateParam{
		{Name: "TKey", Constraint: types.ArrayKeyType()},
		{Name: "TValue"},
	}
	cb.AddClassLike(base)
	populate.Populate(base, cb)

	child := decl.NewClassLike("App.IntMap", decl.ClassKind)
	child.ParentClass = "App.Collection"
	child.TemplateExtendedOffsets["App.Collection"] = []*types.Union{
		types.IntType(),
		types.StringType(),
	}
	cb.AddClassLike(child)
	populate.Populate(child, cb)

	params := child.TemplateExtendedParams["App.Collection"]
	require.NotNil(t, params)
	assert.Equal(t, "int", params["TKey"].ID())
	assert.Equal(t, "string", params["TValue"].ID())
}

func TestTemplateExtensionDefaultsToConstraint(t *testing.T) {
	cb := newCodebase()

	base := decl.NewClassLike("App.Collection", decl.ClassKind)
	base.Templates = []decl.TemplateParam{
		{Name: "TKey", Constraint: types.ArrayKeyType()},
		{Name: "TValue"},
	}
	cb.AddClassLike(base)
	populate.Populate(base, cb)

	child := decl.NewClassLike("App.Loose", decl.ClassKind)
	child.ParentClass = "App.Collection"
	cb.AddClassLike(child)
	populate.Populate(child, cb)

	params := child.TemplateExtendedParams["App.Collection"]
	require.NotNil(t, params)
	assert.Equal(t, "array-key", params["TKey"].ID())
	assert.Equal(t, "mixed", params["TValue"].ID())
}

func TestTemplateExtensionFlattensGrandancestors(t *testing.T) {
	cb := newCodebase()

	grand := decl.NewClassLike("App.Iterator", decl.ClassKind)
	grand.Templates = []decl.TemplateParam{{Name: "TItem"}}
	cb.AddClassLike(grand)
	populate.Populate(grand, cb)

	// Collection<T> extends Iterator<T>.
	mid := decl.NewClassLike("App.Collection", decl.ClassKind)
	mid.Templates = []decl.TemplateParam{{Name: "T"}}
	mid.ParentClass = "App.Iterator"
	mid.TemplateExtendedOffsets["App.Iterator"] = []*types.Union{
		types.NewUnion(&types.TGenericParam{Name: "T", DefiningEntity: "App.Collection"}),
	}
	cb.AddClassLike(mid)
	populate.Populate(mid, cb)

	// StringBag extends Collection<string>: the Iterator binding must
	// flatten through to string.
	leaf := decl.NewClassLike("App.StringBag", decl.ClassKind)
	leaf.ParentClass = "App.Collection"
	leaf.TemplateExtendedOffsets["App.Collection"] = []*types.Union{types.StringType()}
	cb.AddClassLike(leaf)
	populate.Populate(leaf, cb)

	iter := leaf.TemplateExtendedParams["App.Iterator"]
	require.NotNil(t, iter)
	assert.Equal(t, "string", iter["TItem"].ID())
}

func TestPopulateIsIdempotent(t *testing.T) {
	cb := newCodebase()

	c := decl.NewClassLike("App.Once", decl.ClassKind)
	c.TypeAliases["First"] = &decl.TypeAlias{Name: "First", ReferencedSymbols: []string{"Second"}}
	c.TypeAliases["Second"] = &decl.TypeAlias{Name: "Second", ReferencedSymbols: []string{"First"}}
	cb.AddClassLike(c)

	populate.Populate(c, cb)
	populate.Populate(c, cb)

	assert.Len(t, c.Issues, 1)
}

func TestPopulateAllRunsAncestorsFirst(t *testing.T) {
	cb := newCodebase()

	base := decl.NewClassLike("App.Base", decl.ClassKind)
	base.Methods["run"] = &decl.Method{Name: "run"}
	cb.AddClassLike(base)

	child := decl.NewClassLike("App.Child", decl.ClassKind)
	child.ParentClass = "App.Base"
	cb.AddClassLike(child)

	grandchild := decl.NewClassLike("App.Grandchild", decl.ClassKind)
	grandchild.ParentClass = "App.Child"
	cb.AddClassLike(grandchild)

	results, err := populate.PopulateAll(context.Background(), cb, 4)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Results are name-sorted regardless of scheduling.
	assert.Equal(t, "App.Base", results[0].Class.Name)
	assert.Equal(t, "App.Child", results[1].Class.Name)
	assert.Equal(t, "App.Grandchild", results[2].Class.Name)

	assert.Equal(t, "App.Base::run", grandchild.DeclaringMethodIDs["run"].String())
}

func TestPopulateAllToleratesCycles(t *testing.T) {
	cb := newCodebase()

	a := decl.NewClassLike("App.A", decl.InterfaceKind)
	a.RequireExtends = []string{"App.B"}
	b := decl.NewClassLike("App.B", decl.InterfaceKind)
	b.RequireExtends = []string{"App.A"}
	cb.AddClassLike(a)
	cb.AddClassLike(b)

	results, err := populate.PopulateAll(context.Background(), cb, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.True(t, a.Populated)
	assert.True(t, b.Populated)
}

func TestSymbolReferences(t *testing.T) {
	cb := newCodebase()

	base := decl.NewClassLike("App.Base", decl.ClassKind)
	cb.AddClassLike(base)
	populate.Populate(base, cb)

	trait := decl.NewClassLike("App.Mixin", decl.TraitKind)
	cb.AddClassLike(trait)
	populate.Populate(trait, cb)

	c := decl.NewClassLike("App.Thing", decl.ClassKind)
	c.ParentClass = "App.Base"
	c.UsedTraits["App.Mixin"] = true
	cb.AddClassLike(c)
	r := populate.Populate(c, cb)

	var targets []string
	for _, ref := range r.SymbolReferences {
		assert.Equal(t, "App.Thing", ref.From)
		assert.True(t, ref.TypeLevel)
		targets = append(targets, ref.To)
	}
	assert.Contains(t, targets, "App.Base")
	assert.Contains(t, targets, "App.Mixin")
}
