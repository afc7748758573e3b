package compare

import (
	"github.com/loamlang/loam/pkg/decl"
	"github.com/loamlang/loam/pkg/types"
)

// arrayContained compares two array-like atomics: list into list, keyed
// into keyed, and the two cross-shape directions.
func arrayContained(cb *decl.Codebase, input, container types.Atomic, insideAssertion bool, res *Result) bool {
	switch cont := container.(type) {
	case *types.TList:
		switch in := input.(type) {
		case *types.TList:
			return listContained(cb, in, cont, insideAssertion, res)
		case *types.TKeyedArray:
			// A keyed array fits a list only when its shape already is one.
			if !in.IsListShaped() {
				res.Coerced = true
				return false
			}
			if cont.NonEmpty && !keyedNonEmpty(in) {
				res.Coerced = true
				return false
			}
			return UnionContainedBy(cb, keyedValueType(in), cont.ElemType(), insideAssertion, res)
		}

	case *types.TKeyedArray:
		switch in := input.(type) {
		case *types.TKeyedArray:
			return keyedContained(cb, in, cont, insideAssertion, res)
		case *types.TList:
			if cont.NonEmpty && !listNonEmpty(in) {
				res.Coerced = true
				return false
			}
			for _, item := range cont.KnownItems {
				if !item.Key.IsInt {
					if !item.Optional {
						return false
					}
					continue
				}
				idx := item.Key.Int
				if idx >= 0 && int(idx) < len(in.KnownElements) {
					el := in.KnownElements[idx]
					if el.Optional && !item.Optional {
						res.Coerced = true
						return false
					}
					if !UnionContainedBy(cb, el.Type, item.Type, insideAssertion, res) {
						return false
					}
					continue
				}
				if !item.Optional {
					if in.Elem == nil {
						return false
					}
					if !UnionContainedBy(cb, in.Elem, item.Type, insideAssertion, res) {
						return false
					}
					res.Coerced = true
					return false
				}
			}
			if cont.KeyType != nil || len(cont.KnownItems) == 0 {
				if !UnionContainedBy(cb, types.IntType(), cont.OpenKeyType(), insideAssertion, res) {
					return false
				}
				return UnionContainedBy(cb, in.ElemType(), cont.OpenValueType(), insideAssertion, res)
			}
			return true
		}
	}
	return false
}

func listContained(cb *decl.Codebase, input, container *types.TList, insideAssertion bool, res *Result) bool {
	if container.NonEmpty && !listNonEmpty(input) {
		res.Coerced = true
		return false
	}
	for i, want := range container.KnownElements {
		if i < len(input.KnownElements) {
			got := input.KnownElements[i]
			if got.Optional && !want.Optional {
				res.Coerced = true
				return false
			}
			if !UnionContainedBy(cb, got.Type, want.Type, insideAssertion, res) {
				return false
			}
			continue
		}
		if !want.Optional {
			// The input might be long enough, but nothing proves it.
			if input.Elem != nil && UnionContainedBy(cb, input.Elem, want.Type, insideAssertion, res) {
				res.Coerced = true
			}
			return false
		}
	}
	return UnionContainedBy(cb, input.ElemType(), container.ElemType(), insideAssertion, res)
}

func keyedContained(cb *decl.Codebase, input, container *types.TKeyedArray, insideAssertion bool, res *Result) bool {
	if container.NonEmpty && !keyedNonEmpty(input) {
		res.Coerced = true
		return false
	}

	for _, want := range container.KnownItems {
		got, ok := input.Item(want.Key)
		if ok {
			if got.Optional && !want.Optional {
				res.Coerced = true
				return false
			}
			if !UnionContainedBy(cb, got.Type, want.Type, insideAssertion, res) {
				return false
			}
			continue
		}
		if want.Optional {
			continue
		}
		// The key could come from the input's open parameters, but its
		// presence is not guaranteed.
		if input.ValueType != nil && UnionContainedBy(cb, input.ValueType, want.Type, insideAssertion, res) {
			res.Coerced = true
		}
		return false
	}

	// Input keys beyond the container's shape must fit its open parameters.
	hasExtraInput := input.KeyType != nil
	if !hasExtraInput {
		for _, got := range input.KnownItems {
			if _, ok := container.Item(got.Key); !ok {
				hasExtraInput = true
				break
			}
		}
	}
	if hasExtraInput {
		if container.KeyType == nil && len(container.KnownItems) > 0 {
			res.Coerced = true
			return false
		}
		if !UnionContainedBy(cb, keyedKeyType(input), container.OpenKeyType(), insideAssertion, res) {
			return false
		}
		if !UnionContainedBy(cb, keyedValueType(input), container.OpenValueType(), insideAssertion, res) {
			return false
		}
	}
	return true
}

// iterableContained handles iterable containers: arrays, lists, other
// iterables, and named objects with known iteration parameters all qualify
// when their key/value types fit.
func iterableContained(cb *decl.Codebase, input types.Atomic, container *types.TIterable, insideAssertion bool, res *Result) bool {
	var key, value *types.Union
	switch in := input.(type) {
	case *types.TKeyedArray:
		key, value = keyedKeyType(in), keyedValueType(in)
	case *types.TList:
		key, value = types.IntType(), in.ElemType()
	case *types.TIterable:
		key, value = in.OpenKeyType(), in.OpenValueType()
	default:
		name, ok := objectName(input)
		if !ok {
			return false
		}
		key, value, ok = cb.TraversableParams(name)
		if !ok {
			return false
		}
	}
	if !UnionContainedBy(cb, key, container.OpenKeyType(), insideAssertion, res) {
		return false
	}
	return UnionContainedBy(cb, value, container.OpenValueType(), insideAssertion, res)
}

// callableInput handles callable containers. The first return reports
// whether the input can behave as a callable at all; when it cannot, the
// caller continues with the remaining rules.
func callableInput(cb *decl.Codebase, input types.Atomic, container *types.TCallable, insideAssertion bool, res *Result) (bool, bool) {
	switch in := input.(type) {
	case *types.TCallable:
		return true, callableContained(cb, in, container, insideAssertion, res)
	case *types.TString:
		// A string may name a function; the signature cannot be verified.
		res.Coerced = true
		return true, false
	case *types.TClassString:
		res.Coerced = true
		return true, false
	}
	return false, false
}

// callableContained compares signatures: parameters contravariantly,
// returns covariantly. An unspecified side is treated as mixed.
func callableContained(cb *decl.Codebase, input, container *types.TCallable, insideAssertion bool, res *Result) bool {
	if input.RequiredParamCount() > len(container.Params) {
		return false
	}
	for i := range container.Params {
		want, ok := container.ParamType(i)
		if !ok {
			break
		}
		got, ok := input.ParamType(i)
		if !ok {
			break
		}
		if !UnionContainedBy(cb, want, got, insideAssertion, res) {
			return false
		}
	}
	if container.Return == nil {
		return true
	}
	ret := input.Return
	if ret == nil {
		ret = types.MixedType()
	}
	return UnionContainedBy(cb, ret, container.Return, insideAssertion, res)
}

func listNonEmpty(l *types.TList) bool {
	if l.NonEmpty {
		return true
	}
	for _, el := range l.KnownElements {
		if !el.Optional {
			return true
		}
	}
	return false
}

func keyedNonEmpty(a *types.TKeyedArray) bool {
	if a.NonEmpty {
		return true
	}
	for _, item := range a.KnownItems {
		if !item.Optional {
			return true
		}
	}
	return false
}

// keyedKeyType is the union of literal item keys and the open key
// parameter.
func keyedKeyType(a *types.TKeyedArray) *types.Union {
	var atomics []types.Atomic
	for _, item := range a.KnownItems {
		atomics = append(atomics, item.Key.AtomicType())
	}
	if a.KeyType != nil {
		atomics = append(atomics, a.KeyType.Atomics()...)
	}
	if len(atomics) == 0 {
		return types.ArrayKeyType()
	}
	return types.NewUnion(atomics...)
}

// keyedValueType is the union of known item types and the open value
// parameter.
func keyedValueType(a *types.TKeyedArray) *types.Union {
	var atomics []types.Atomic
	for _, item := range a.KnownItems {
		atomics = append(atomics, item.Type.Atomics()...)
	}
	if a.ValueType != nil {
		atomics = append(atomics, a.ValueType.Atomics()...)
	}
	if len(atomics) == 0 {
		return types.MixedType()
	}
	return types.NewUnion(atomics...)
}
