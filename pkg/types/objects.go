package types

import "strings"

// TNamedObject is an instance of a specific class, interface, or enum.
// IsThis marks `static`/`this` annotations that stay bound to the runtime
// class rather than the declaring one.
type TNamedObject struct {
	Name       string
	TypeParams []*Union
	IsThis     bool
	Extra      []Atomic
}

func (t *TNamedObject) Key() string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	writeTypeParams(&sb, t.TypeParams)
	if t.IsThis {
		sb.WriteString("&this")
	}
	sb.WriteString(extrasKey(t.Extra))
	return sb.String()
}

func (t *TNamedObject) Intersectable() bool { return true }
func (t *TNamedObject) String() string      { return t.Key() }

func (t *TNamedObject) Extras() []Atomic { return t.Extra }

func (t *TNamedObject) WithExtras(extras []Atomic) Atomic {
	dup := *t
	dup.Extra = append(append([]Atomic{}, t.Extra...), extras...)
	return &dup
}

// TAnyObject is the `object` keyword: any object of any class.
type TAnyObject struct{}

func (t *TAnyObject) Key() string         { return "object" }
func (t *TAnyObject) Intersectable() bool { return false }
func (t *TAnyObject) String() string      { return t.Key() }

// TEnumCase is a specific case of an enum, e.g. `Status::Active`.
type TEnumCase struct {
	EnumName string
	CaseName string
}

func (t *TEnumCase) Key() string         { return t.EnumName + "::" + t.CaseName }
func (t *TEnumCase) Intersectable() bool { return false }
func (t *TEnumCase) String() string      { return t.Key() }

// TReference is a symbol reference emitted by the builder before the
// codebase has been consulted: a class-like name resolved through the
// current scope, carrying any explicit type arguments. The comparator
// treats references to unknown symbols permissively.
type TReference struct {
	Name       string
	TypeParams []*Union
	Extra      []Atomic
}

func (t *TReference) Key() string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	writeTypeParams(&sb, t.TypeParams)
	sb.WriteString(extrasKey(t.Extra))
	return sb.String()
}

func (t *TReference) Intersectable() bool { return true }
func (t *TReference) String() string      { return t.Key() }

func (t *TReference) Extras() []Atomic { return t.Extra }

func (t *TReference) WithExtras(extras []Atomic) Atomic {
	dup := *t
	dup.Extra = append(append([]Atomic{}, t.Extra...), extras...)
	return &dup
}

// AsObject converts the reference into the named object it denotes,
// preserving type arguments and intersection constraints.
func (t *TReference) AsObject() *TNamedObject {
	return &TNamedObject{Name: t.Name, TypeParams: t.TypeParams, Extra: t.Extra}
}

// TMemberRef is a `Class::CONST` member reference left symbolic until
// constant resolution runs.
type TMemberRef struct {
	Class  string
	Member string
}

func (t *TMemberRef) Key() string         { return t.Class + "::" + t.Member }
func (t *TMemberRef) Intersectable() bool { return false }
func (t *TMemberRef) String() string      { return t.Key() }

// TGenericParam is a template parameter bound to a defining class or
// function, with an upper-bound constraint union.
type TGenericParam struct {
	Name           string
	DefiningEntity string
	Constraint     *Union
	Extra          []Atomic
}

func (t *TGenericParam) Key() string {
	constraint := "mixed"
	if t.Constraint != nil {
		constraint = t.Constraint.ID()
	}
	return t.Name + ":" + t.DefiningEntity + " as " + constraint + extrasKey(t.Extra)
}

func (t *TGenericParam) Intersectable() bool { return true }
func (t *TGenericParam) String() string      { return t.Key() }

func (t *TGenericParam) Extras() []Atomic { return t.Extra }

func (t *TGenericParam) WithExtras(extras []Atomic) Atomic {
	dup := *t
	dup.Extra = append(append([]Atomic{}, t.Extra...), extras...)
	return &dup
}

// ConstraintOrMixed returns the constraint union, defaulting to mixed.
func (t *TGenericParam) ConstraintOrMixed() *Union {
	if t.Constraint != nil {
		return t.Constraint
	}
	return MixedType()
}

// ClassStringKind selects which class-like kind a class-string describes.
type ClassStringKind int

const (
	AnyClassString ClassStringKind = iota
	InterfaceString
	EnumString
	TraitString
)

func (k ClassStringKind) String() string {
	switch k {
	case InterfaceString:
		return "interface-string"
	case EnumString:
		return "enum-string"
	case TraitString:
		return "trait-string"
	default:
		return "class-string"
	}
}

// TClassString is a string holding the name of a class-like. Exactly one of
// Of/OfParam is set for the constrained forms `class-string<T>`; both nil
// means any class-string of the kind.
type TClassString struct {
	Kind    ClassStringKind
	Of      *TNamedObject
	OfParam *TGenericParam
}

func (t *TClassString) Key() string {
	switch {
	case t.Of != nil:
		return t.Kind.String() + "<" + t.Of.Key() + ">"
	case t.OfParam != nil:
		return t.Kind.String() + "<" + t.OfParam.Key() + ">"
	default:
		return t.Kind.String()
	}
}

func (t *TClassString) Intersectable() bool { return false }
func (t *TClassString) String() string      { return t.Key() }

// TConditional is `Subject is Target ? Then : Else`, carried structurally
// until the subject template parameter is resolved.
type TConditional struct {
	Subject        string
	DefiningEntity string
	Target         *Union
	Then           *Union
	Else           *Union
}

func (t *TConditional) Key() string {
	return "(" + t.Subject + ":" + t.DefiningEntity + " is " + t.Target.ID() +
		" ? " + t.Then.ID() + " : " + t.Else.ID() + ")"
}

func (t *TConditional) Intersectable() bool { return false }
func (t *TConditional) String() string      { return t.Key() }

func writeTypeParams(sb *strings.Builder, params []*Union) {
	if len(params) == 0 {
		return
	}
	sb.WriteString("<")
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.ID())
	}
	sb.WriteString(">")
}
