// Package build converts parsed type annotations into semantic union types.
// It resolves self/static/this against the current class, template names
// against the visible template context, and everything else through the
// file's name scope, leaving class-like names as symbolic references for the
// comparator to interpret against the codebase.
package build

import (
	"strings"

	"github.com/loamlang/loam/pkg/decl"
	"github.com/loamlang/loam/pkg/types"
	"github.com/loamlang/loam/pkg/typexpr"
)

// Build converts a type-syntax tree into a union type. current may be nil
// when the annotation appears outside a class-like scope; self/static/this
// then fail with InvalidTypeError.
func Build(node typexpr.Node, scope *decl.NameScope, tpl types.TemplateContext, current *decl.ClassLike) (*types.Union, error) {
	b := &builder{scope: scope, tpl: tpl, current: current}
	atomics, err := b.atomics(node)
	if err != nil {
		return nil, err
	}
	return types.NewUnion(atomics...), nil
}

type builder struct {
	scope   *decl.NameScope
	tpl     types.TemplateContext
	current *decl.ClassLike
}

func (b *builder) union(node typexpr.Node) (*types.Union, error) {
	atomics, err := b.atomics(node)
	if err != nil {
		return nil, err
	}
	return types.NewUnion(atomics...), nil
}

// atomics is the structural recursion. Union nodes concatenate without
// deduplication; canonical ids make duplicates harmless.
func (b *builder) atomics(node typexpr.Node) ([]types.Atomic, error) {
	switch n := node.(type) {
	case *typexpr.UnionNode:
		left, err := b.atomics(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.atomics(n.Right)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil

	case *typexpr.NullableNode:
		inner, err := b.atomics(n.Inner)
		if err != nil {
			return nil, err
		}
		return append(inner, types.NullAtomic()), nil

	case *typexpr.ParenNode:
		return b.atomics(n.Inner)

	case *typexpr.IntersectionNode:
		return b.intersection(n)

	case *typexpr.NameNode:
		return b.name(n)

	case *typexpr.ShapeNode:
		return b.shape(n)

	case *typexpr.CallableNode:
		return b.callable(n)

	case *typexpr.LiteralIntNode:
		v := n.Value
		return []types.Atomic{&types.TInt{Literal: &v}}, nil

	case *typexpr.LiteralFloatNode:
		v := n.Value
		return []types.Atomic{&types.TFloat{Literal: &v}}, nil

	case *typexpr.LiteralStringNode:
		v := n.Value
		return []types.Atomic{&types.TString{Literal: &v}}, nil

	case *typexpr.SignNode:
		return b.sign(n)

	case *typexpr.IntRangeNode:
		if n.Min != nil && n.Max != nil && *n.Min > *n.Max {
			return nil, invalidf(n.Loc, "integer range lower bound %d exceeds upper bound %d", *n.Min, *n.Max)
		}
		return []types.Atomic{&types.TIntRange{Min: n.Min, Max: n.Max}}, nil

	case *typexpr.MemberRefNode:
		return []types.Atomic{&types.TMemberRef{
			Class:  b.scope.Resolve(n.Class),
			Member: n.Member,
		}}, nil

	case *typexpr.DerivedNode:
		return b.derived(n)

	case *typexpr.ConditionalNode:
		return b.conditional(n)

	default:
		return nil, unsupportedf(node.Span(), "unrecognized type syntax")
	}
}

// intersection attaches every right atomic to every left atomic as an extra
// constraint. Only object-like atomics accept constraints.
func (b *builder) intersection(n *typexpr.IntersectionNode) ([]types.Atomic, error) {
	left, err := b.atomics(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := b.atomics(n.Right)
	if err != nil {
		return nil, err
	}

	var out []types.Atomic
	for _, l := range left {
		constrained, ok := l.(types.Constrained)
		if !ok || !l.Intersectable() {
			return nil, invalidf(n.Loc, "%s cannot be part of an intersection", l.Key())
		}
		for _, r := range right {
			out = append(out, constrained.WithExtras([]types.Atomic{r}))
		}
	}
	return out, nil
}

func (b *builder) sign(n *typexpr.SignNode) ([]types.Atomic, error) {
	switch inner := n.Inner.(type) {
	case *typexpr.LiteralIntNode:
		v := inner.Value
		if n.Negative {
			v = -v
		}
		return []types.Atomic{&types.TInt{Literal: &v}}, nil
	case *typexpr.LiteralFloatNode:
		v := inner.Value
		if n.Negative {
			v = -v
		}
		return []types.Atomic{&types.TFloat{Literal: &v}}, nil
	default:
		return nil, invalidf(n.Loc, "sign prefix requires an integer or float literal")
	}
}

func (b *builder) callable(n *typexpr.CallableNode) ([]types.Atomic, error) {
	callable := &types.TCallable{}
	for _, p := range n.Params {
		param := types.CallableParam{
			Name:     p.Name,
			Optional: p.Optional,
			Variadic: p.Variadic,
		}
		if p.Type != nil {
			u, err := b.union(p.Type)
			if err != nil {
				return nil, err
			}
			param.Type = u
		}
		callable.Params = append(callable.Params, param)
	}
	if n.Return != nil {
		ret, err := b.union(n.Return)
		if err != nil {
			return nil, err
		}
		callable.Return = ret
	}
	return []types.Atomic{callable}, nil
}

func (b *builder) derived(n *typexpr.DerivedNode) ([]types.Atomic, error) {
	target, err := b.union(n.Target)
	if err != nil {
		return nil, err
	}

	// One derived atomic per target member, never a merged one.
	out := make([]types.Atomic, 0, target.Len())
	for _, a := range target.Atomics() {
		switch n.Op {
		case typexpr.KeyOfOp:
			out = append(out, &types.TKeyOf{Target: a})
		case typexpr.ValueOfOp:
			out = append(out, &types.TValueOf{Target: a})
		case typexpr.PropertiesOfOp:
			out = append(out, &types.TPropertiesOf{Target: a, Filter: propsFilter(n.Filter)})
		default:
			return nil, unsupportedf(n.Loc, "unrecognized derived-type operator")
		}
	}
	return out, nil
}

func propsFilter(f typexpr.PropsFilter) types.PropsVisibility {
	switch f {
	case typexpr.PublicProps:
		return types.PublicOnly
	case typexpr.ProtectedProps:
		return types.ProtectedOnly
	case typexpr.PrivateProps:
		return types.PrivateOnly
	default:
		return types.AllVisibilities
	}
}

func (b *builder) conditional(n *typexpr.ConditionalNode) ([]types.Atomic, error) {
	bound, ok := b.tpl.Lookup(n.Subject)
	if !ok {
		return nil, invalidf(n.Loc, "conditional subject %s is not a template parameter in scope", n.Subject)
	}
	target, err := b.union(n.Target)
	if err != nil {
		return nil, err
	}
	then, err := b.union(n.Then)
	if err != nil {
		return nil, err
	}
	els, err := b.union(n.Else)
	if err != nil {
		return nil, err
	}
	return []types.Atomic{&types.TConditional{
		Subject:        n.Subject,
		DefiningEntity: bound.DefiningEntity,
		Target:         target,
		Then:           then,
		Else:           els,
	}}, nil
}

// name handles primitive keywords, builtin containers, the class-string
// family, self/static/this, template parameters, and class-like references.
func (b *builder) name(n *typexpr.NameNode) ([]types.Atomic, error) {
	switch strings.ToLower(n.Name) {
	case "int":
		return b.keyword(n, types.IntType())
	case "float":
		return b.keyword(n, types.FloatType())
	case "string":
		return b.keyword(n, types.StringType())
	case "bool", "boolean":
		return b.keyword(n, types.BoolType())
	case "true":
		v := true
		return []types.Atomic{&types.TBool{Literal: &v}}, nil
	case "false":
		v := false
		return []types.Atomic{&types.TBool{Literal: &v}}, nil
	case "null":
		return b.keyword(n, types.NullType())
	case "mixed":
		return b.keyword(n, types.MixedType())
	case "nonnull-mixed":
		return b.keyword(n, types.NonNullMixed())
	case "scalar":
		return b.keyword(n, types.ScalarType())
	case "array-key":
		return b.keyword(n, types.ArrayKeyType())
	case "never", "no-return":
		return b.keyword(n, types.NeverType())
	case "void":
		return b.keyword(n, types.VoidType())
	case "object":
		return b.keyword(n, types.ObjectType())
	case "resource":
		return b.keyword(n, types.ResourceType())
	case "_":
		return []types.Atomic{&types.TPlaceholder{}}, nil

	case "array":
		return b.arrayName(n, false)
	case "non-empty-array":
		return b.arrayName(n, true)
	case "list":
		return b.listName(n, false)
	case "non-empty-list":
		return b.listName(n, true)
	case "iterable":
		return b.iterableName(n)
	case "callable":
		if len(n.TypeArgs) > 0 {
			return nil, invalidf(n.Loc, "callable does not take type arguments; use a signature")
		}
		return []types.Atomic{&types.TCallable{}}, nil

	case "class-string":
		return b.classString(n, types.AnyClassString)
	case "interface-string":
		return b.classString(n, types.InterfaceString)
	case "enum-string":
		return b.classString(n, types.EnumString)
	case "trait-string":
		return b.classString(n, types.TraitString)

	case "self", "static", "this", "$this":
		return b.selfLike(n)
	}

	if b.tpl.Has(n.Name) && len(n.TypeArgs) == 0 {
		bound, _ := b.tpl.Lookup(n.Name)
		return []types.Atomic{&types.TGenericParam{
			Name:           n.Name,
			DefiningEntity: bound.DefiningEntity,
			Constraint:     bound.Constraint,
		}}, nil
	}

	ref := &types.TReference{Name: b.scope.Resolve(n.Name)}
	for _, arg := range n.TypeArgs {
		u, err := b.union(arg)
		if err != nil {
			return nil, err
		}
		ref.TypeParams = append(ref.TypeParams, u)
	}
	return []types.Atomic{ref}, nil
}

func (b *builder) keyword(n *typexpr.NameNode, u *types.Union) ([]types.Atomic, error) {
	if len(n.TypeArgs) > 0 {
		return nil, invalidf(n.Loc, "%s does not take type arguments", n.Name)
	}
	return u.Atomics(), nil
}

func (b *builder) selfLike(n *typexpr.NameNode) ([]types.Atomic, error) {
	if len(n.TypeArgs) > 0 {
		return nil, invalidf(n.Loc, "%s does not take type arguments", n.Name)
	}
	if b.current == nil {
		return nil, invalidf(n.Loc, "%s used outside a class-like scope", n.Name)
	}
	return []types.Atomic{&types.TNamedObject{
		Name:   b.current.Name,
		IsThis: !strings.EqualFold(n.Name, "self"),
	}}, nil
}

func (b *builder) arrayName(n *typexpr.NameNode, nonEmpty bool) ([]types.Atomic, error) {
	arr := &types.TKeyedArray{NonEmpty: nonEmpty}
	switch len(n.TypeArgs) {
	case 0:
	case 1:
		value, err := b.union(n.TypeArgs[0])
		if err != nil {
			return nil, err
		}
		arr.KeyType, arr.ValueType = types.ArrayKeyType(), value
	case 2:
		key, err := b.union(n.TypeArgs[0])
		if err != nil {
			return nil, err
		}
		value, err := b.union(n.TypeArgs[1])
		if err != nil {
			return nil, err
		}
		arr.KeyType, arr.ValueType = key, value
	default:
		return nil, invalidf(n.Loc, "%s takes at most two type arguments", n.Name)
	}
	return []types.Atomic{arr}, nil
}

func (b *builder) listName(n *typexpr.NameNode, nonEmpty bool) ([]types.Atomic, error) {
	list := &types.TList{NonEmpty: nonEmpty}
	switch len(n.TypeArgs) {
	case 0:
	case 1:
		elem, err := b.union(n.TypeArgs[0])
		if err != nil {
			return nil, err
		}
		list.Elem = elem
	default:
		return nil, invalidf(n.Loc, "%s takes at most one type argument", n.Name)
	}
	return []types.Atomic{list}, nil
}

func (b *builder) iterableName(n *typexpr.NameNode) ([]types.Atomic, error) {
	it := &types.TIterable{}
	switch len(n.TypeArgs) {
	case 0:
	case 1:
		value, err := b.union(n.TypeArgs[0])
		if err != nil {
			return nil, err
		}
		it.ValueType = value
	case 2:
		key, err := b.union(n.TypeArgs[0])
		if err != nil {
			return nil, err
		}
		value, err := b.union(n.TypeArgs[1])
		if err != nil {
			return nil, err
		}
		it.KeyType, it.ValueType = key, value
	default:
		return nil, invalidf(n.Loc, "iterable takes at most two type arguments")
	}
	return []types.Atomic{it}, nil
}

// classString expands a constrained class-string over every member of the
// constraint union. Non-object constraint members are rejected.
func (b *builder) classString(n *typexpr.NameNode, kind types.ClassStringKind) ([]types.Atomic, error) {
	switch len(n.TypeArgs) {
	case 0:
		return []types.Atomic{&types.TClassString{Kind: kind}}, nil
	case 1:
	default:
		return nil, invalidf(n.Loc, "%s takes at most one type argument", kind)
	}

	constraint, err := b.union(n.TypeArgs[0])
	if err != nil {
		return nil, err
	}
	out := make([]types.Atomic, 0, constraint.Len())
	for _, a := range constraint.Atomics() {
		switch member := a.(type) {
		case *types.TNamedObject:
			out = append(out, &types.TClassString{Kind: kind, Of: member})
		case *types.TReference:
			out = append(out, &types.TClassString{Kind: kind, Of: member.AsObject()})
		case *types.TGenericParam:
			out = append(out, &types.TClassString{Kind: kind, OfParam: member})
		default:
			return nil, invalidf(n.Loc, "%s constraint must name an object type, got %s", kind, a.Key())
		}
	}
	return out, nil
}
