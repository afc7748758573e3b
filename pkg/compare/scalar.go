package compare

import (
	"github.com/loamlang/loam/pkg/types"
)

// scalarContained compares two scalar atomics. Widening directions (literal
// into base type, int into float, int/string into array-key) are contained;
// narrowing directions fail but raise the coercion flag since a runtime
// value might still fit.
func scalarContained(input, container types.Atomic, res *Result) bool {
	// A generic scalar input into a specific scalar container: plausible,
	// never proven.
	if _, ok := input.(*types.TScalar); ok {
		res.Coerced = true
		return false
	}

	switch cont := container.(type) {
	case *types.TInt:
		switch in := input.(type) {
		case *types.TInt:
			if cont.Literal == nil {
				return true
			}
			// Base int into a literal: plausible, not proven.
			res.Coerced = true
			return false
		case *types.TIntRange:
			if cont.Literal == nil {
				return true
			}
			if in.Contains(*cont.Literal) {
				res.Coerced = true
			}
			return false
		case *types.TArrayKey:
			res.Coerced = true
			return false
		}
		return false

	case *types.TIntRange:
		switch in := input.(type) {
		case *types.TInt:
			if in.Literal != nil {
				return cont.Contains(*in.Literal)
			}
			res.Coerced = true
			return false
		case *types.TIntRange:
			if cont.ContainsRange(in) {
				return true
			}
			res.Coerced = true
			return false
		}
		return false

	case *types.TFloat:
		switch in := input.(type) {
		case *types.TFloat:
			if cont.Literal == nil {
				return true
			}
			res.Coerced = true
			return false
		case *types.TInt:
			if cont.Literal == nil {
				return true
			}
			if in.Literal != nil && float64(*in.Literal) == *cont.Literal {
				return true
			}
			return false
		case *types.TIntRange:
			return cont.Literal == nil
		}
		return false

	case *types.TString:
		switch input.(type) {
		case *types.TString:
			if cont.Literal == nil {
				return true
			}
			res.Coerced = true
			return false
		case *types.TClassString:
			// A class-string is always a string.
			return cont.Literal == nil
		}
		return false

	case *types.TClassString:
		switch in := input.(type) {
		case *types.TClassString:
			if cont.Of == nil && cont.OfParam == nil && in.Kind == cont.Kind {
				return true
			}
			res.Coerced = true
			return false
		case *types.TString:
			// A plain string might hold a class name.
			res.Coerced = true
			return false
		}
		return false

	case *types.TBool:
		if _, ok := input.(*types.TBool); ok {
			if cont.Literal == nil {
				return true
			}
			res.Coerced = true
			return false
		}
		return false

	case *types.TArrayKey:
		switch input.(type) {
		case *types.TInt, *types.TIntRange, *types.TString, *types.TClassString:
			return true
		}
		return false

	case *types.TScalar:
		return true
	}

	return false
}
