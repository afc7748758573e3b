// Package compare decides containment (subtyping) and possible identity
// between semantic types against a codebase snapshot. Containment never
// errors; the absence of a proof is false, optionally annotated with
// coercion flags that let callers soften a hard mismatch into a suggestion.
package compare

import (
	"strings"

	"github.com/loamlang/loam/pkg/decl"
	"github.com/loamlang/loam/pkg/types"
)

// Result collects coercion flags raised while a containment check runs.
// Callers pass one Result per query and read it after a false answer.
type Result struct {
	Coerced                bool
	CoercedFromNestedMixed bool
	CoercedFromNestedAny   bool
}

// Outcome is the three-state answer of a containment query.
type Outcome int

const (
	No Outcome = iota
	Coercible
	Yes
)

func (o Outcome) String() string {
	switch o {
	case Yes:
		return "yes"
	case Coercible:
		return "coercible"
	default:
		return "no"
	}
}

// Outcome folds the boolean answer and the collected flags into one value.
func (r *Result) Outcome(contained bool) Outcome {
	switch {
	case contained:
		return Yes
	case r.Coerced:
		return Coercible
	default:
		return No
	}
}

// UnionContainedBy reports whether every atomic of input is contained by
// some atomic of container.
func UnionContainedBy(cb *decl.Codebase, input, container *types.Union, insideAssertion bool, res *Result) bool {
	for _, in := range input.Atomics() {
		matched := false
		for _, cont := range container.Atomics() {
			if IsContainedBy(cb, in, cont, insideAssertion, res) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// IsContainedBy reports whether every value of input is also a value of
// container. The rules below are ordered; the first that matches decides.
func IsContainedBy(cb *decl.Codebase, input, container types.Atomic, insideAssertion bool, res *Result) bool {
	// Structural equality through canonical keys.
	if input.Key() == container.Key() {
		return true
	}

	// Enum containers: instance of the same enum, exact case when pinned.
	if done, ok := enumContainer(cb, input, container); done {
		return ok
	}

	// Both sides constrained by intersections: shallow nominal check.
	if len(extrasOf(input)) > 0 && len(extrasOf(container)) > 0 {
		return intersectionCompatible(cb, input, container)
	}

	if m, ok := container.(*types.TMixed); ok {
		if m.NonNull {
			if _, isNull := input.(*types.TNull); isNull {
				return false
			}
			if im, ok := input.(*types.TMixed); ok && !im.NonNull {
				return false
			}
		}
		return true
	}

	if _, ok := container.(*types.TPlaceholder); ok {
		return true
	}

	if _, ok := input.(*types.TNever); ok {
		return true
	}

	// Mixed inputs are never proven contained, but the flags let callers
	// downgrade the diagnostic.
	if m, ok := input.(*types.TMixed); ok {
		res.Coerced = true
		res.CoercedFromNestedMixed = true
		if m.FromAny {
			res.CoercedFromNestedAny = true
		}
		return false
	}
	if gp, ok := input.(*types.TGenericParam); ok && gp.ConstraintOrMixed().IsMixed() {
		res.Coerced = true
		res.CoercedFromNestedMixed = true
		return false
	}

	if _, ok := input.(*types.TNull); ok {
		if gp, ok := container.(*types.TGenericParam); ok {
			constraint := gp.ConstraintOrMixed()
			return constraint.IsMixed() || constraint.IsNullable()
		}
		return false
	}

	if isScalarAtomic(input) {
		if _, ok := container.(*types.TScalar); ok {
			return true
		}
		if isScalarAtomic(container) {
			return scalarContained(input, container, res)
		}
	}

	if callable, ok := container.(*types.TCallable); ok {
		if done, ok := callableInput(cb, input, callable, insideAssertion, res); done {
			return ok
		}
	}

	// Map-like objects accept arrays when their iteration parameters are
	// known: retry against a synthesized keyed array.
	if name, ok := objectName(container); ok && isArrayAtomic(input) {
		if key, value, found := cb.TraversableParams(name); found {
			synth := &types.TKeyedArray{KeyType: key, ValueType: value}
			return IsContainedBy(cb, input, synth, insideAssertion, res)
		}
	}

	if _, ok := container.(*types.TResource); ok {
		_, isRes := input.(*types.TResource)
		return isRes
	}

	if isArrayAtomic(input) && isArrayAtomic(container) {
		return arrayContained(cb, input, container, insideAssertion, res)
	}

	if it, ok := container.(*types.TIterable); ok {
		return iterableContained(cb, input, it, insideAssertion, res)
	}

	if _, ok := container.(*types.TAnyObject); ok {
		if isObjectAtomic(input) {
			return true
		}
	}
	if _, ok := input.(*types.TAnyObject); ok {
		if _, isAny := container.(*types.TAnyObject); !isAny && isObjectAtomic(container) {
			res.Coerced = true
			return false
		}
	}

	if inName, ok := objectName(input); ok {
		if contName, ok := objectName(container); ok {
			if !cb.ObjectCompatible(inName, contName) {
				return false
			}
			return genericArgsContained(cb, input, container, insideAssertion, res)
		}
	}

	if gp, ok := container.(*types.TGenericParam); ok {
		if in, ok := input.(*types.TGenericParam); ok {
			return UnionContainedBy(cb, in.ConstraintOrMixed(), gp.ConstraintOrMixed(), insideAssertion, res)
		}
		if insideAssertion {
			for _, member := range gp.ConstraintOrMixed().Atomics() {
				if IsContainedBy(cb, input, member, insideAssertion, res) {
					return true
				}
			}
		}
		return false
	}

	// A conditional input is contained when both of its branches are.
	if cond, ok := input.(*types.TConditional); ok {
		branches := types.NewUnion(append(
			append([]types.Atomic{}, cond.Then.Atomics()...),
			cond.Else.Atomics()...)...)
		return UnionContainedBy(cb, branches, types.Wrap(container), insideAssertion, res)
	}

	// Retry through the input's intersection constraints or template
	// constraint members.
	for _, extra := range extrasOf(input) {
		if IsContainedBy(cb, extra, container, insideAssertion, res) {
			return true
		}
	}
	if gp, ok := input.(*types.TGenericParam); ok {
		for _, member := range gp.ConstraintOrMixed().Atomics() {
			if IsContainedBy(cb, member, container, insideAssertion, res) {
				return true
			}
		}
	}

	return false
}

// enumContainer handles containers that denote an enum or a pinned case.
// The first return reports whether the rule applied.
func enumContainer(cb *decl.Codebase, input, container types.Atomic) (bool, bool) {
	if pinned, ok := container.(*types.TEnumCase); ok {
		in, ok := input.(*types.TEnumCase)
		return true, ok &&
			strings.EqualFold(in.EnumName, pinned.EnumName) &&
			in.CaseName == pinned.CaseName
	}

	name, ok := objectName(container)
	if !ok || !cb.IsEnum(name) {
		return false, false
	}
	switch in := input.(type) {
	case *types.TEnumCase:
		return true, cb.ObjectCompatible(in.EnumName, name)
	case *types.TNamedObject:
		return true, cb.ObjectCompatible(in.Name, name)
	case *types.TReference:
		return true, cb.ObjectCompatible(in.Name, name)
	}
	return true, false
}

// intersectionCompatible is the shallow check used when both sides carry
// intersection constraints: the bases must be nominally compatible and each
// container constraint must be met by the input base or one of its own
// constraints.
func intersectionCompatible(cb *decl.Codebase, input, container types.Atomic) bool {
	inName, inOK := objectName(input)
	contName, contOK := objectName(container)
	if inOK && contOK && !cb.ObjectCompatible(inName, contName) {
		return false
	}

	for _, need := range extrasOf(container) {
		needName, ok := objectName(need)
		if !ok {
			return false
		}
		met := inOK && cb.ObjectCompatible(inName, needName)
		for _, have := range extrasOf(input) {
			if met {
				break
			}
			if haveName, ok := objectName(have); ok && cb.ObjectCompatible(haveName, needName) {
				met = true
			}
		}
		if !met {
			return false
		}
	}
	return true
}

// genericArgsContained checks the container's explicit type arguments
// against the input's, covariantly. Missing or placeholder arguments accept
// anything.
func genericArgsContained(cb *decl.Codebase, input, container types.Atomic, insideAssertion bool, res *Result) bool {
	contParams := typeParamsOf(container)
	if len(contParams) == 0 {
		return true
	}
	inParams := typeParamsOf(input)

	for i, contParam := range contParams {
		if contParam == nil || isPlaceholderUnion(contParam) {
			continue
		}
		if i >= len(inParams) || inParams[i] == nil {
			continue
		}
		if inParams[i].Equal(contParam) {
			continue
		}
		if !UnionContainedBy(cb, inParams[i], contParam, insideAssertion, res) {
			return false
		}
	}
	return true
}

func isPlaceholderUnion(u *types.Union) bool {
	if !u.IsSingle() {
		return false
	}
	_, ok := u.Single().(*types.TPlaceholder)
	return ok
}

func extrasOf(a types.Atomic) []types.Atomic {
	if c, ok := a.(types.Constrained); ok {
		return c.Extras()
	}
	return nil
}

func typeParamsOf(a types.Atomic) []*types.Union {
	switch t := a.(type) {
	case *types.TNamedObject:
		return t.TypeParams
	case *types.TReference:
		return t.TypeParams
	}
	return nil
}

func objectName(a types.Atomic) (string, bool) {
	switch t := a.(type) {
	case *types.TNamedObject:
		return t.Name, true
	case *types.TReference:
		return t.Name, true
	case *types.TEnumCase:
		return t.EnumName, true
	}
	return "", false
}

func isObjectAtomic(a types.Atomic) bool {
	switch a.(type) {
	case *types.TNamedObject, *types.TReference, *types.TEnumCase, *types.TAnyObject:
		return true
	}
	return false
}

func isArrayAtomic(a types.Atomic) bool {
	switch a.(type) {
	case *types.TKeyedArray, *types.TList:
		return true
	}
	return false
}

func isScalarAtomic(a types.Atomic) bool {
	switch a.(type) {
	case *types.TInt, *types.TIntRange, *types.TFloat, *types.TString,
		*types.TBool, *types.TArrayKey, *types.TScalar, *types.TClassString:
		return true
	}
	return false
}
