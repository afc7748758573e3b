// Package typexpr models the parsed docblock type-syntax tree consumed by
// the type builder. Tokenizing and parsing annotation strings happens in the
// scanner; this package only defines the nodes and their source spans so the
// builder can report precise locations for malformed annotations.
package typexpr

import "fmt"

// Span is a half-open byte range within the docblock that produced a node.
type Span struct {
	Start uint32
	End   uint32
}

func (s Span) Len() int {
	return int(s.End) - int(s.Start)
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Node is a single node of the type-syntax tree.
type Node interface {
	Span() Span
}

// UnionNode is `A|B`.
type UnionNode struct {
	Left  Node
	Right Node
	Loc   Span
}

func (n *UnionNode) Span() Span { return n.Loc }

// IntersectionNode is `A&B`.
type IntersectionNode struct {
	Left  Node
	Right Node
	Loc   Span
}

func (n *IntersectionNode) Span() Span { return n.Loc }

// NullableNode is the `?T` sugar.
type NullableNode struct {
	Inner Node
	Loc   Span
}

func (n *NullableNode) Span() Span { return n.Loc }

// ParenNode is `(T)`. It carries no meaning beyond grouping but keeps the
// original span for diagnostics.
type ParenNode struct {
	Inner Node
	Loc   Span
}

func (n *ParenNode) Span() Span { return n.Loc }

// NameNode is a bare or generic name: a primitive keyword (`int`, `mixed`),
// a builtin container (`array<K, V>`, `list<T>`, `iterable<K, V>`), a
// class-string family keyword, a template parameter reference, `self`,
// `static`, `this`, or a class/interface/enum name with optional explicit
// type arguments.
type NameNode struct {
	Name     string
	TypeArgs []Node
	Loc      Span
}

func (n *NameNode) Span() Span { return n.Loc }

// ShapeField is one field of an array or list shape.
type ShapeField struct {
	// Key is the literal key, if any. A nil Key means the field is
	// positional. KeyExpr carries non-literal key expressions such as
	// enum-case references.
	Key      *ShapeKey
	KeyExpr  Node
	Optional bool
	Value    Node
	Loc      Span
}

// ShapeKey is a literal string or integer shape key.
type ShapeKey struct {
	Str   string
	Int   int64
	IsInt bool
}

func (k ShapeKey) String() string {
	if k.IsInt {
		return fmt.Sprintf("%d", k.Int)
	}
	return k.Str
}

// ShapeNode is `array{...}` or `list{...}`, optionally with a trailing
// open-ended marker (`...`) making the shape unsealed.
type ShapeNode struct {
	Base     string // "array" or "list"
	Fields   []ShapeField
	Unsealed bool
	Loc      Span
}

func (n *ShapeNode) Span() Span { return n.Loc }

// CallableParamNode is one parameter of a callable signature.
type CallableParamNode struct {
	Type     Node
	Name     string
	Optional bool
	Variadic bool
	Loc      Span
}

// CallableNode is `callable(T, U=): R`. A nil Return leaves the signature's
// return type unspecified.
type CallableNode struct {
	Params []CallableParamNode
	Return Node
	Loc    Span
}

func (n *CallableNode) Span() Span { return n.Loc }

// LiteralIntNode is an integer literal type such as `5`.
type LiteralIntNode struct {
	Value int64
	Loc   Span
}

func (n *LiteralIntNode) Span() Span { return n.Loc }

// LiteralFloatNode is a float literal type such as `1.5`.
type LiteralFloatNode struct {
	Value float64
	Loc   Span
}

func (n *LiteralFloatNode) Span() Span { return n.Loc }

// LiteralStringNode is a string literal type such as `'foo'`.
type LiteralStringNode struct {
	Value string
	Loc   Span
}

func (n *LiteralStringNode) Span() Span { return n.Loc }

// SignNode wraps a numeric literal with an explicit sign. It is only valid
// around integer and float literals.
type SignNode struct {
	Negative bool
	Inner    Node
	Loc      Span
}

func (n *SignNode) Span() Span { return n.Loc }

// IntRangeNode is `int<min, max>` where either bound may be open.
type IntRangeNode struct {
	Min *int64
	Max *int64
	Loc Span
}

func (n *IntRangeNode) Span() Span { return n.Loc }

// MemberRefNode is a `Class::CONST` reference.
type MemberRefNode struct {
	Class  string
	Member string
	Loc    Span
}

func (n *MemberRefNode) Span() Span { return n.Loc }

// DerivedOp selects a derived-type operator.
type DerivedOp int

const (
	KeyOfOp DerivedOp = iota
	ValueOfOp
	PropertiesOfOp
)

func (op DerivedOp) String() string {
	switch op {
	case KeyOfOp:
		return "key-of"
	case ValueOfOp:
		return "value-of"
	case PropertiesOfOp:
		return "properties-of"
	default:
		return "unknown"
	}
}

// PropsFilter narrows properties-of to a visibility level.
type PropsFilter int

const (
	AllProps PropsFilter = iota
	PublicProps
	ProtectedProps
	PrivateProps
)

// DerivedNode is `key-of<T>`, `value-of<T>`, or `properties-of<T>` with an
// optional visibility filter.
type DerivedNode struct {
	Op     DerivedOp
	Filter PropsFilter
	Target Node
	Loc    Span
}

func (n *DerivedNode) Span() Span { return n.Loc }

// ConditionalNode is `Subject is Target ? Then : Else` where Subject names a
// template parameter in scope.
type ConditionalNode struct {
	Subject string
	Target  Node
	Then    Node
	Else    Node
	Loc     Span
}

func (n *ConditionalNode) Span() Span { return n.Loc }
