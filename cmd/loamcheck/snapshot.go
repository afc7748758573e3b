package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/loamlang/loam/pkg/build"
	"github.com/loamlang/loam/pkg/decl"
	"github.com/loamlang/loam/pkg/intern"
	"github.com/loamlang/loam/pkg/types"
	"github.com/loamlang/loam/pkg/typexpr"
)

// Snapshot is the JSON dump a scanner produces for one analysis run: raw
// class-like descriptors with their type annotations as syntax trees.
type Snapshot struct {
	Namespace string            `json:"namespace"`
	Aliases   map[string]string `json:"aliases"`
	Classes   []SnapshotClass   `json:"classes"`
}

type SnapshotClass struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Parent     string   `json:"parent"`
	Interfaces []string `json:"interfaces"`
	Traits     []string `json:"traits"`

	// TraitAliases maps the aliased name to the original trait method.
	TraitAliases map[string]string `json:"trait_aliases"`

	Abstract bool `json:"abstract"`
	Final    bool `json:"final"`
	ReadOnly bool `json:"readonly"`

	RequireExtends    []string `json:"require_extends"`
	RequireImplements []string `json:"require_implements"`

	Templates      []SnapshotTemplate     `json:"templates"`
	ExtendsOffsets map[string][]*TypeNode `json:"extends_offsets"`

	Methods    []SnapshotMethod   `json:"methods"`
	Properties []SnapshotProperty `json:"properties"`
	Constants  []SnapshotConstant `json:"constants"`
}

type SnapshotTemplate struct {
	Name       string    `json:"name"`
	Constraint *TypeNode `json:"constraint"`
}

type SnapshotMethod struct {
	Name       string             `json:"name"`
	Params     []SnapshotParam    `json:"params"`
	Return     *TypeNode          `json:"return"`
	Visibility string             `json:"visibility"`
	Static     bool               `json:"static"`
	Final      bool               `json:"final"`
	Abstract   bool               `json:"abstract"`
	Templates  []SnapshotTemplate `json:"templates"`
}

type SnapshotParam struct {
	Name     string    `json:"name"`
	Type     *TypeNode `json:"type"`
	Optional bool      `json:"optional"`
	Variadic bool      `json:"variadic"`
	ByRef    bool      `json:"by_ref"`
}

type SnapshotProperty struct {
	Name       string    `json:"name"`
	Type       *TypeNode `json:"type"`
	Visibility string    `json:"visibility"`
	Static     bool      `json:"static"`
	ReadOnly   bool      `json:"readonly"`
}

type SnapshotConstant struct {
	Name       string    `json:"name"`
	Type       *TypeNode `json:"type"`
	Visibility string    `json:"visibility"`
}

// TypeNode is the JSON encoding of one type-syntax-tree node.
type TypeNode struct {
	Kind string `json:"kind"`

	// name nodes
	Name string      `json:"name,omitempty"`
	Args []*TypeNode `json:"args,omitempty"`

	// union / intersection
	Members []*TypeNode `json:"members,omitempty"`

	// nullable / paren / sign / derived target
	Inner *TypeNode `json:"inner,omitempty"`

	// shape
	Base     string      `json:"base,omitempty"`
	Unsealed bool        `json:"unsealed,omitempty"`
	Fields   []ShapeJSON `json:"fields,omitempty"`

	// callable
	Params []ParamJSON `json:"params,omitempty"`
	Return *TypeNode   `json:"return,omitempty"`

	// literals / ranges / sign
	Int      *int64   `json:"int,omitempty"`
	Float    *float64 `json:"float,omitempty"`
	Str      *string  `json:"str,omitempty"`
	Negative bool     `json:"negative,omitempty"`
	Min      *int64   `json:"min,omitempty"`
	Max      *int64   `json:"max,omitempty"`

	// member-ref / conditional / derived
	Class   string    `json:"class,omitempty"`
	Member  string    `json:"member,omitempty"`
	Op      string    `json:"op,omitempty"`
	Filter  string    `json:"filter,omitempty"`
	Subject string    `json:"subject,omitempty"`
	Target  *TypeNode `json:"target,omitempty"`
	Then    *TypeNode `json:"then,omitempty"`
	Else    *TypeNode `json:"else,omitempty"`
}

type ShapeJSON struct {
	Key      *string   `json:"key,omitempty"`
	IntKey   *int64    `json:"int_key,omitempty"`
	KeyExpr  *TypeNode `json:"key_expr,omitempty"`
	Optional bool      `json:"optional,omitempty"`
	Value    *TypeNode `json:"value"`
}

type ParamJSON struct {
	Name     string    `json:"name,omitempty"`
	Type     *TypeNode `json:"type,omitempty"`
	Optional bool      `json:"optional,omitempty"`
	Variadic bool      `json:"variadic,omitempty"`
}

// LoadSnapshot reads and decodes a snapshot file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading snapshot %s", path)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrapf(err, "decoding snapshot %s", path)
	}
	return &snap, nil
}

// Codebase converts the snapshot into registered class-like descriptors,
// building every annotation into a union type. Malformed annotations fall
// back to mixed with a warning; the analysis continues.
func (s *Snapshot) Codebase(interner *intern.Interner) *decl.Codebase {
	cb := decl.NewCodebase(interner)
	scope := decl.NewNameScope(s.Namespace)
	for alias, target := range s.Aliases {
		scope.AddAlias(alias, target)
	}

	for i := range s.Classes {
		cb.AddClassLike(s.Classes[i].descriptor(scope))
	}
	return cb
}

func (sc *SnapshotClass) descriptor(scope *decl.NameScope) *decl.ClassLike {
	c := decl.NewClassLike(scope.Resolve(sc.Name), parseKind(sc.Kind))
	c.Abstract = sc.Abstract
	c.Final = sc.Final
	c.ReadOnly = sc.ReadOnly

	if sc.Parent != "" {
		c.ParentClass = scope.Resolve(sc.Parent)
	}
	for _, name := range sc.Interfaces {
		c.ParentInterfaces[scope.Resolve(name)] = true
	}
	for _, name := range sc.Traits {
		c.UsedTraits[scope.Resolve(name)] = true
	}
	for alias, original := range sc.TraitAliases {
		c.TraitAliases[alias] = original
	}
	for _, name := range sc.RequireExtends {
		c.RequireExtends = append(c.RequireExtends, scope.Resolve(name))
	}
	for _, name := range sc.RequireImplements {
		c.RequireImplements = append(c.RequireImplements, scope.Resolve(name))
	}

	for _, tp := range sc.Templates {
		c.Templates = append(c.Templates, decl.TemplateParam{
			Name:       tp.Name,
			Constraint: buildType(tp.Constraint, scope, types.NewTemplateContext(), c),
		})
	}
	tpl := c.TemplateContext()

	for ancestor, offsets := range sc.ExtendsOffsets {
		resolved := scope.Resolve(ancestor)
		for _, offset := range offsets {
			c.TemplateExtendedOffsets[resolved] = append(
				c.TemplateExtendedOffsets[resolved],
				buildType(offset, scope, tpl, c))
		}
	}

	for _, m := range sc.Methods {
		mtpl := tpl
		method := &decl.Method{
			Name:       m.Name,
			Visibility: parseVisibility(m.Visibility),
			Static:     m.Static,
			Final:      m.Final,
			Abstract:   m.Abstract,
		}
		for _, tp := range m.Templates {
			constraint := buildType(tp.Constraint, scope, tpl, c)
			method.Templates = append(method.Templates, decl.TemplateParam{
				Name:       tp.Name,
				Constraint: constraint,
			})
			mtpl = mtpl.With(tp.Name, c.Name+"::"+m.Name, constraint)
		}
		for _, p := range m.Params {
			method.Params = append(method.Params, decl.Param{
				Name:     p.Name,
				Type:     buildType(p.Type, scope, mtpl, c),
				Optional: p.Optional,
				Variadic: p.Variadic,
				ByRef:    p.ByRef,
			})
		}
		method.ReturnType = buildType(m.Return, scope, mtpl, c)
		c.Methods[m.Name] = method
	}

	for _, p := range sc.Properties {
		c.Properties[p.Name] = &decl.Property{
			Name:       p.Name,
			Type:       buildType(p.Type, scope, tpl, c),
			Visibility: parseVisibility(p.Visibility),
			Static:     p.Static,
			ReadOnly:   p.ReadOnly,
		}
	}
	for _, k := range sc.Constants {
		c.Constants[k.Name] = &decl.Constant{
			Name:       k.Name,
			Type:       buildType(k.Type, scope, tpl, c),
			Visibility: parseVisibility(k.Visibility),
		}
	}
	return c
}

// buildType runs the builder over one decoded annotation. A nil node means
// no annotation: mixed. Build failures degrade to mixed with a warning.
func buildType(n *TypeNode, scope *decl.NameScope, tpl types.TemplateContext, current *decl.ClassLike) *types.Union {
	if n == nil {
		return types.MixedType()
	}
	node, err := n.syntax()
	if err == nil {
		var u *types.Union
		u, err = build.Build(node, scope, tpl, current)
		if err == nil {
			return u
		}
	}
	slog.Warn("falling back to mixed for malformed annotation",
		"class", current.Name, "error", err)
	return types.MixedType()
}

// syntax converts the JSON encoding into the builder's syntax tree.
func (n *TypeNode) syntax() (typexpr.Node, error) {
	switch n.Kind {
	case "name":
		out := &typexpr.NameNode{Name: n.Name}
		for _, arg := range n.Args {
			node, err := arg.syntax()
			if err != nil {
				return nil, err
			}
			out.TypeArgs = append(out.TypeArgs, node)
		}
		return out, nil

	case "union", "intersection":
		if len(n.Members) < 2 {
			return nil, errors.Errorf("%s needs at least two members", n.Kind)
		}
		out, err := n.Members[0].syntax()
		if err != nil {
			return nil, err
		}
		for _, member := range n.Members[1:] {
			right, err := member.syntax()
			if err != nil {
				return nil, err
			}
			if n.Kind == "union" {
				out = &typexpr.UnionNode{Left: out, Right: right}
			} else {
				out = &typexpr.IntersectionNode{Left: out, Right: right}
			}
		}
		return out, nil

	case "nullable":
		inner, err := n.Inner.syntax()
		if err != nil {
			return nil, err
		}
		return &typexpr.NullableNode{Inner: inner}, nil

	case "shape":
		out := &typexpr.ShapeNode{Base: n.Base, Unsealed: n.Unsealed}
		for _, f := range n.Fields {
			field := typexpr.ShapeField{Optional: f.Optional}
			switch {
			case f.Key != nil:
				field.Key = &typexpr.ShapeKey{Str: *f.Key}
			case f.IntKey != nil:
				field.Key = &typexpr.ShapeKey{Int: *f.IntKey, IsInt: true}
			case f.KeyExpr != nil:
				expr, err := f.KeyExpr.syntax()
				if err != nil {
					return nil, err
				}
				field.KeyExpr = expr
			}
			value, err := f.Value.syntax()
			if err != nil {
				return nil, err
			}
			field.Value = value
			out.Fields = append(out.Fields, field)
		}
		return out, nil

	case "callable":
		out := &typexpr.CallableNode{}
		for _, p := range n.Params {
			param := typexpr.CallableParamNode{
				Name:     p.Name,
				Optional: p.Optional,
				Variadic: p.Variadic,
			}
			if p.Type != nil {
				node, err := p.Type.syntax()
				if err != nil {
					return nil, err
				}
				param.Type = node
			}
			out.Params = append(out.Params, param)
		}
		if n.Return != nil {
			ret, err := n.Return.syntax()
			if err != nil {
				return nil, err
			}
			out.Return = ret
		}
		return out, nil

	case "int":
		if n.Int == nil {
			return nil, errors.New("int literal missing value")
		}
		node := typexpr.Node(&typexpr.LiteralIntNode{Value: *n.Int})
		if n.Negative {
			node = &typexpr.SignNode{Negative: true, Inner: node}
		}
		return node, nil

	case "float":
		if n.Float == nil {
			return nil, errors.New("float literal missing value")
		}
		node := typexpr.Node(&typexpr.LiteralFloatNode{Value: *n.Float})
		if n.Negative {
			node = &typexpr.SignNode{Negative: true, Inner: node}
		}
		return node, nil

	case "string":
		if n.Str == nil {
			return nil, errors.New("string literal missing value")
		}
		return &typexpr.LiteralStringNode{Value: *n.Str}, nil

	case "int-range":
		return &typexpr.IntRangeNode{Min: n.Min, Max: n.Max}, nil

	case "member-ref":
		return &typexpr.MemberRefNode{Class: n.Class, Member: n.Member}, nil

	case "derived":
		target, err := n.Target.syntax()
		if err != nil {
			return nil, err
		}
		out := &typexpr.DerivedNode{Target: target}
		switch n.Op {
		case "key-of":
			out.Op = typexpr.KeyOfOp
		case "value-of":
			out.Op = typexpr.ValueOfOp
		case "properties-of":
			out.Op = typexpr.PropertiesOfOp
		default:
			return nil, errors.Errorf("unknown derived operator %q", n.Op)
		}
		switch n.Filter {
		case "", "all":
			out.Filter = typexpr.AllProps
		case "public":
			out.Filter = typexpr.PublicProps
		case "protected":
			out.Filter = typexpr.ProtectedProps
		case "private":
			out.Filter = typexpr.PrivateProps
		default:
			return nil, errors.Errorf("unknown properties filter %q", n.Filter)
		}
		return out, nil

	case "conditional":
		target, err := n.Target.syntax()
		if err != nil {
			return nil, err
		}
		then, err := n.Then.syntax()
		if err != nil {
			return nil, err
		}
		els, err := n.Else.syntax()
		if err != nil {
			return nil, err
		}
		return &typexpr.ConditionalNode{
			Subject: n.Subject,
			Target:  target,
			Then:    then,
			Else:    els,
		}, nil
	}
	return nil, errors.Errorf("unknown type node kind %q", n.Kind)
}

func parseKind(kind string) decl.Kind {
	switch strings.ToLower(kind) {
	case "interface":
		return decl.InterfaceKind
	case "trait":
		return decl.TraitKind
	case "enum":
		return decl.EnumKind
	default:
		return decl.ClassKind
	}
}

func parseVisibility(v string) decl.Visibility {
	switch strings.ToLower(v) {
	case "protected":
		return decl.Protected
	case "private":
		return decl.Private
	default:
		return decl.Public
	}
}
