package types

import "strings"

// CallableParam is one parameter of a callable signature.
type CallableParam struct {
	Type     *Union
	Name     string
	Optional bool
	Variadic bool
}

// TCallable is a callable signature with parameter types and an optional
// return type. A nil Return leaves the return unspecified (treated as mixed
// by the comparator).
type TCallable struct {
	Params []CallableParam
	Return *Union
}

func (t *TCallable) Key() string {
	var sb strings.Builder
	sb.WriteString("callable(")
	for i, p := range t.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Type != nil {
			sb.WriteString(p.Type.ID())
		} else {
			sb.WriteString("mixed")
		}
		if p.Variadic {
			sb.WriteString("...")
		} else if p.Optional {
			sb.WriteString("=")
		}
	}
	sb.WriteString(")")
	if t.Return != nil {
		sb.WriteString(": " + t.Return.ID())
	}
	return sb.String()
}

func (t *TCallable) Intersectable() bool { return false }
func (t *TCallable) String() string      { return t.Key() }

// ParamType returns the declared type of the parameter at the given
// position, accounting for a trailing variadic.
func (t *TCallable) ParamType(i int) (*Union, bool) {
	if i < len(t.Params) {
		if t.Params[i].Type != nil {
			return t.Params[i].Type, true
		}
		return MixedType(), true
	}
	if n := len(t.Params); n > 0 && t.Params[n-1].Variadic {
		if t.Params[n-1].Type != nil {
			return t.Params[n-1].Type, true
		}
		return MixedType(), true
	}
	return nil, false
}

// RequiredParamCount returns the number of non-optional, non-variadic
// parameters.
func (t *TCallable) RequiredParamCount() int {
	count := 0
	for _, p := range t.Params {
		if p.Optional || p.Variadic {
			break
		}
		count++
	}
	return count
}
