package decl

import (
	"github.com/iancoleman/strcase"
	"github.com/loamlang/loam/pkg/types"
)

// Kind distinguishes the class-like declarations of the language.
type Kind int

const (
	ClassKind Kind = iota
	InterfaceKind
	TraitKind
	EnumKind
)

func (k Kind) String() string {
	switch k {
	case InterfaceKind:
		return "interface"
	case TraitKind:
		return "trait"
	case EnumKind:
		return "enum"
	default:
		return "class"
	}
}

// Issue is a non-fatal problem attached to a descriptor during population.
// Codes are snake_case identifiers derived from the issue kind.
type Issue struct {
	Code    string
	Message string
}

// NewIssue builds an issue from a CamelCase kind name and message.
func NewIssue(kind, message string) Issue {
	return Issue{Code: strcase.ToSnake(kind), Message: message}
}

// TypeAlias is a local docblock type alias. ReferencedSymbols lists the
// names its definition mentions, used for cycle detection.
type TypeAlias struct {
	Name              string
	Replacement       *types.Union
	ReferencedSymbols []string
}

// ImportedAlias requests importing a type alias declared on another class.
type ImportedAlias struct {
	LocalName string
	FromClass string
	AliasName string
}

// EnumCase is one declared case of an enum.
type EnumCase struct {
	Name  string
	Value *types.Union
}

// ClassLike is the descriptor for one declared class, interface, trait, or
// enum. A scanner creates it per declaration; the populator mutates it in
// place exactly once, merging inherited members, and then marks it
// populated. Descriptors are cached for the lifetime of the analysis.
type ClassLike struct {
	Name string
	Kind Kind

	Abstract              bool
	Final                 bool
	ReadOnly              bool
	ConsistentConstructor bool
	ConsistentTemplates   bool

	Methods    map[string]*Method
	Properties map[string]*Property
	Constants  map[string]*Constant
	Cases      map[string]*EnumCase

	// Member identity maps. Appearing is the id visible when looking the
	// member up from this class; declaring is the id whose body actually
	// executes; inheritable is what subclasses receive unless the member
	// is final.
	DeclaringMethodIDs   map[string]MemberID
	AppearingMethodIDs   map[string]MemberID
	InheritableMethodIDs map[string]MemberID

	DeclaringPropertyIDs   map[string]MemberID
	AppearingPropertyIDs   map[string]MemberID
	InheritablePropertyIDs map[string]MemberID

	ParentClass      string
	ParentClasses    map[string]bool
	ParentInterfaces map[string]bool

	UsedTraits   map[string]bool
	TraitAliases map[string]string // alias name -> original trait method name

	RequireExtends    []string
	RequireImplements []string

	// Templates declared on the class-like, in declaration order.
	Templates []TemplateParam

	// TemplateExtendedOffsets holds the positional `@extends`/`@implements`
	// arguments per direct ancestor, as written on this class.
	TemplateExtendedOffsets map[string][]*types.Union

	// TemplateExtendedParams is the flattened resolution produced by the
	// populator: every transitive ancestor mapped to its template names
	// and the argument types this class supplies for them.
	TemplateExtendedParams map[string]map[string]*types.Union

	TypeAliases     map[string]*TypeAlias
	ImportedAliases []ImportedAlias

	// InvalidDependencies records ancestors that could not be resolved;
	// analysis degrades rather than failing.
	InvalidDependencies map[string]bool

	Issues []Issue

	Populated bool
}

// NewClassLike returns a descriptor with all maps initialized.
func NewClassLike(name string, kind Kind) *ClassLike {
	return &ClassLike{
		Name:       name,
		Kind:       kind,
		Methods:    make(map[string]*Method),
		Properties: make(map[string]*Property),
		Constants:  make(map[string]*Constant),
		Cases:      make(map[string]*EnumCase),

		DeclaringMethodIDs:   make(map[string]MemberID),
		AppearingMethodIDs:   make(map[string]MemberID),
		InheritableMethodIDs: make(map[string]MemberID),

		DeclaringPropertyIDs:   make(map[string]MemberID),
		AppearingPropertyIDs:   make(map[string]MemberID),
		InheritablePropertyIDs: make(map[string]MemberID),

		ParentClasses:    make(map[string]bool),
		ParentInterfaces: make(map[string]bool),
		UsedTraits:       make(map[string]bool),
		TraitAliases:     make(map[string]string),

		TemplateExtendedOffsets: make(map[string][]*types.Union),
		TemplateExtendedParams:  make(map[string]map[string]*types.Union),

		TypeAliases:         make(map[string]*TypeAlias),
		InvalidDependencies: make(map[string]bool),
	}
}

// AddIssue appends a non-fatal issue to the descriptor.
func (c *ClassLike) AddIssue(kind, message string) {
	c.Issues = append(c.Issues, NewIssue(kind, message))
}

// TemplateContext returns the class-level template-resolution context.
func (c *ClassLike) TemplateContext() types.TemplateContext {
	ctx := types.NewTemplateContext()
	for _, tp := range c.Templates {
		ctx = ctx.With(tp.Name, c.Name, tp.Constraint)
	}
	return ctx
}

// DirectAncestors returns parent class, interfaces, traits, and contract
// requirements in no particular order. Used for population scheduling.
func (c *ClassLike) DirectAncestors() []string {
	var out []string
	if c.ParentClass != "" {
		out = append(out, c.ParentClass)
	}
	for name := range c.ParentInterfaces {
		out = append(out, name)
	}
	for name := range c.UsedTraits {
		out = append(out, name)
	}
	out = append(out, c.RequireExtends...)
	out = append(out, c.RequireImplements...)
	return out
}
