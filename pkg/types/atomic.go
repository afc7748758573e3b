// Package types defines the semantic type model of the Loam analyzer: the
// closed set of atomic type variants, the Union collection that represents
// "a type" everywhere in the system, and the template-resolution context
// used while building types from annotations.
package types

// Atomic is one concrete type variant. Implementations are pure data:
// immutable once built, with nested payloads shared by pointer rather than
// deep-cloned.
type Atomic interface {
	// Key returns the canonical identity string of the variant. Two atomics
	// with equal keys are structurally identical.
	Key() string

	// Intersectable reports whether the variant can carry additional
	// intersection constraints (named objects, generic parameters,
	// iterables, and unresolved references).
	Intersectable() bool

	String() string
}

// Constrained is implemented by atomics that can carry intersection
// constraints attached by `A&B` annotations.
type Constrained interface {
	Atomic

	// Extras returns the attached intersection constraints.
	Extras() []Atomic

	// WithExtras returns a copy with the given constraints appended.
	WithExtras([]Atomic) Atomic
}

// extrasKey renders intersection constraints for canonical keys.
func extrasKey(extras []Atomic) string {
	out := ""
	for _, e := range extras {
		out += "&" + e.Key()
	}
	return out
}

// IsScalar reports whether the atomic is one of the scalar variants,
// including literal-pinned ones.
func IsScalar(a Atomic) bool {
	switch a.(type) {
	case *TInt, *TIntRange, *TFloat, *TString, *TBool, *TArrayKey, *TScalar:
		return true
	default:
		return false
	}
}

// IsArray reports whether the atomic is a keyed array or list.
func IsArray(a Atomic) bool {
	switch a.(type) {
	case *TKeyedArray, *TList:
		return true
	default:
		return false
	}
}

// IsObject reports whether the atomic describes an object instance: a named
// object, enum case, unresolved reference, any-object, or a generic
// parameter whose constraint is object-like.
func IsObject(a Atomic) bool {
	switch t := a.(type) {
	case *TNamedObject, *TAnyObject, *TEnumCase, *TReference:
		return true
	case *TGenericParam:
		for _, c := range t.Constraint.Atomics() {
			if IsObject(c) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// hasExtras reports whether the atomic carries intersection constraints.
func hasExtras(a Atomic) bool {
	if c, ok := a.(Constrained); ok {
		return len(c.Extras()) > 0
	}
	return false
}
