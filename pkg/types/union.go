package types

import (
	"sort"
	"strings"
)

// Union is a set of atomic types representing "one of these". It is the
// unit of "a type" everywhere in the analyzer. The atomic list is never
// empty: constructing a union from nothing yields the bottom type.
type Union struct {
	atomics []Atomic

	// PossiblyUndefinedFromTry marks values assigned inside a try block
	// that may never have been written when read after it.
	PossiblyUndefinedFromTry bool

	// IgnoreNullable and IgnoreFalsable suppress nullability/falsability
	// complaints downstream (set by assertion sugar in annotations).
	IgnoreNullable bool
	IgnoreFalsable bool

	// FromTemplate marks unions produced by substituting a template
	// parameter binding.
	FromTemplate bool

	// Populated is set once symbol references inside the union have been
	// checked against the codebase.
	Populated bool
}

// NewUnion builds a union from atomics. An empty construction is coerced to
// a single-member union containing only never.
func NewUnion(atomics ...Atomic) *Union {
	if len(atomics) == 0 {
		atomics = []Atomic{&TNever{}}
	}
	return &Union{atomics: append([]Atomic{}, atomics...)}
}

// Wrap builds a single-atomic union.
func Wrap(a Atomic) *Union { return NewUnion(a) }

// Atomics returns the member atomics in construction order.
func (u *Union) Atomics() []Atomic { return u.atomics }

// Len returns the number of member atomics.
func (u *Union) Len() int { return len(u.atomics) }

// IsSingle reports whether the union has exactly one member.
func (u *Union) IsSingle() bool { return len(u.atomics) == 1 }

// Single returns the only member of a single-atomic union.
func (u *Union) Single() Atomic { return u.atomics[0] }

// ID returns the canonical identity string: member keys sorted and joined,
// so `int|string` and `string|int` agree.
func (u *Union) ID() string {
	keys := make([]string, len(u.atomics))
	for i, a := range u.atomics {
		keys[i] = a.Key()
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

func (u *Union) String() string { return u.ID() }

// Equal compares the multiset of atomics, ignoring order and flags.
func (u *Union) Equal(other *Union) bool {
	if u == other {
		return true
	}
	if other == nil || len(u.atomics) != len(other.atomics) {
		return false
	}
	return u.ID() == other.ID()
}

// Clone returns a copy sharing the atomic payloads. Flags are copied so the
// clone can diverge without touching the original.
func (u *Union) Clone() *Union {
	dup := *u
	dup.atomics = append([]Atomic{}, u.atomics...)
	return &dup
}

// HasNull reports whether null is a member.
func (u *Union) HasNull() bool {
	for _, a := range u.atomics {
		if _, ok := a.(*TNull); ok {
			return true
		}
	}
	return false
}

// IsNull reports whether the union is exactly null.
func (u *Union) IsNull() bool {
	_, ok := u.atomics[0].(*TNull)
	return len(u.atomics) == 1 && ok
}

// IsMixed reports whether any member is mixed.
func (u *Union) IsMixed() bool {
	for _, a := range u.atomics {
		if _, ok := a.(*TMixed); ok {
			return true
		}
	}
	return false
}

// IsNever reports whether the union is exactly the bottom type.
func (u *Union) IsNever() bool {
	_, ok := u.atomics[0].(*TNever)
	return len(u.atomics) == 1 && ok
}

// IsNullable reports whether the union contains null alongside other
// members, honoring the IgnoreNullable suppression flag.
func (u *Union) IsNullable() bool {
	if u.IgnoreNullable {
		return false
	}
	return u.HasNull()
}

// WithAtomics returns a new union with the given atomics appended,
// preserving flags.
func (u *Union) WithAtomics(extra ...Atomic) *Union {
	dup := u.Clone()
	dup.atomics = append(dup.atomics, extra...)
	return dup
}
