package types

import (
	"fmt"
	"strconv"
)

// TInt is the integer type, optionally pinned to a literal value.
type TInt struct {
	Literal *int64
}

func (t *TInt) Key() string {
	if t.Literal != nil {
		return fmt.Sprintf("int(%d)", *t.Literal)
	}
	return "int"
}

func (t *TInt) Intersectable() bool { return false }
func (t *TInt) String() string      { return t.Key() }

// TIntRange is `int<min, max>` with optionally open bounds.
type TIntRange struct {
	Min *int64
	Max *int64
}

func (t *TIntRange) Key() string {
	min, max := "min", "max"
	if t.Min != nil {
		min = strconv.FormatInt(*t.Min, 10)
	}
	if t.Max != nil {
		max = strconv.FormatInt(*t.Max, 10)
	}
	return fmt.Sprintf("int<%s, %s>", min, max)
}

func (t *TIntRange) Intersectable() bool { return false }
func (t *TIntRange) String() string      { return t.Key() }

// Contains reports whether the literal value falls within the range.
func (t *TIntRange) Contains(v int64) bool {
	if t.Min != nil && v < *t.Min {
		return false
	}
	if t.Max != nil && v > *t.Max {
		return false
	}
	return true
}

// ContainsRange reports whether the other range is fully inside this one.
func (t *TIntRange) ContainsRange(other *TIntRange) bool {
	if t.Min != nil && (other.Min == nil || *other.Min < *t.Min) {
		return false
	}
	if t.Max != nil && (other.Max == nil || *other.Max > *t.Max) {
		return false
	}
	return true
}

// TFloat is the float type, optionally pinned to a literal value.
type TFloat struct {
	Literal *float64
}

func (t *TFloat) Key() string {
	if t.Literal != nil {
		return fmt.Sprintf("float(%v)", *t.Literal)
	}
	return "float"
}

func (t *TFloat) Intersectable() bool { return false }
func (t *TFloat) String() string      { return t.Key() }

// TString is the string type, optionally pinned to a literal value.
type TString struct {
	Literal *string
}

func (t *TString) Key() string {
	if t.Literal != nil {
		return fmt.Sprintf("string(%q)", *t.Literal)
	}
	return "string"
}

func (t *TString) Intersectable() bool { return false }
func (t *TString) String() string      { return t.Key() }

// TBool is the bool type, optionally pinned to true or false.
type TBool struct {
	Literal *bool
}

func (t *TBool) Key() string {
	if t.Literal != nil {
		return strconv.FormatBool(*t.Literal)
	}
	return "bool"
}

func (t *TBool) Intersectable() bool { return false }
func (t *TBool) String() string      { return t.Key() }

// TArrayKey is the `array-key` supertype of int and string.
type TArrayKey struct{}

func (t *TArrayKey) Key() string         { return "array-key" }
func (t *TArrayKey) Intersectable() bool { return false }
func (t *TArrayKey) String() string      { return t.Key() }

// TScalar is the generic scalar wildcard containing every scalar variant.
type TScalar struct{}

func (t *TScalar) Key() string         { return "scalar" }
func (t *TScalar) Intersectable() bool { return false }
func (t *TScalar) String() string      { return t.Key() }
