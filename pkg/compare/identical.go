package compare

import (
	"strings"

	"github.com/loamlang/loam/pkg/decl"
	"github.com/loamlang/loam/pkg/types"
)

// CanBeIdentical reports whether two atomics could ever compare identical
// under strict equality. Unresolved atomics are always considered
// compatible; the remaining pairs fall back to bidirectional containment.
func CanBeIdentical(cb *decl.Codebase, first, second types.Atomic) bool {
	if isUnresolved(cb, first) || isUnresolved(cb, second) {
		return true
	}

	if a, ok := first.(*types.TEnumCase); ok {
		if b, ok := second.(*types.TEnumCase); ok {
			return strings.EqualFold(a.EnumName, b.EnumName)
		}
	}

	// list and non-empty-list unify by element type.
	if a, ok := first.(*types.TList); ok {
		if b, ok := second.(*types.TList); ok && len(a.KnownElements) == 0 && len(b.KnownElements) == 0 {
			res := &Result{}
			return UnionContainedBy(cb, a.ElemType(), b.ElemType(), false, res) ||
				UnionContainedBy(cb, b.ElemType(), a.ElemType(), false, res)
		}
	}

	if a, ok := first.(*types.TKeyedArray); ok {
		if b, ok := second.(*types.TKeyedArray); ok {
			return keyedArraysCanMatch(cb, a, b) && keyedArraysCanMatch(cb, b, a)
		}
	}

	forward, backward := &Result{}, &Result{}
	if IsContainedBy(cb, first, second, false, forward) {
		return true
	}
	if IsContainedBy(cb, second, first, false, backward) {
		return true
	}
	return forward.Coerced && backward.Coerced
}

// isUnresolved marks atomics whose concrete shape is not known at this
// point: template parameters, unresolved symbol or member references,
// conditionals, and the placeholder.
func isUnresolved(cb *decl.Codebase, a types.Atomic) bool {
	switch t := a.(type) {
	case *types.TGenericParam, *types.TMemberRef, *types.TConditional,
		*types.TPlaceholder, *types.TKeyOf, *types.TValueOf, *types.TPropertiesOf:
		return true
	case *types.TReference:
		return !cb.Has(t.Name)
	}
	return false
}

// keyedArraysCanMatch checks one direction of keyed-array identity: every
// known key of a must be representable in b, through b's matching item or
// its open parameters. A key missing from a sealed b with a required entry
// rules identity out.
func keyedArraysCanMatch(cb *decl.Codebase, a, b *types.TKeyedArray) bool {
	for _, item := range a.KnownItems {
		other, ok := b.Item(item.Key)
		if ok {
			if !unionsCanMatch(cb, item.Type, other.Type) {
				return false
			}
			continue
		}
		if b.ValueType != nil {
			if !unionsCanMatch(cb, item.Type, b.ValueType) {
				return false
			}
			continue
		}
		if !item.Optional {
			return false
		}
	}
	return true
}

func unionsCanMatch(cb *decl.Codebase, a, b *types.Union) bool {
	for _, x := range a.Atomics() {
		for _, y := range b.Atomics() {
			if CanBeIdentical(cb, x, y) {
				return true
			}
		}
	}
	return false
}
